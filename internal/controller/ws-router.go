package controller

import (
	"github.com/sharetube/multisync/pkg/wsrouter"
)

func (c *controller) getPlayerWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.wsRequestIdWSMw(), c.loggerWSMw())
	mux.OnError(c.playerErrorHandler)

	wsrouter.Handle(mux, "ALIVE", c.handleAlive)
	wsrouter.Handle(mux, "STATE_CHANGE", c.handleStateChange)
	wsrouter.Handle(mux, "POSITION", c.handlePosition)

	return mux
}

func (c *controller) getControlWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.wsRequestIdWSMw(), c.loggerWSMw())
	mux.OnError(c.controlErrorHandler)

	wsrouter.Handle(mux, "ALIVE", c.handleAlive)

	// playback
	wsrouter.Handle(mux, "PLAY", c.handlePlay)
	wsrouter.Handle(mux, "PAUSE", c.handlePause)
	wsrouter.Handle(mux, "SYNC", c.handleSync)
	wsrouter.Handle(mux, "SET_TIME", c.handleSetTime)

	// videos
	wsrouter.Handle(mux, "CUE_VIDEOS", c.handleCueVideos)
	wsrouter.Handle(mux, "CUE_VIDEO_SET", c.handleCueVideoSet)

	// mute
	wsrouter.Handle(mux, "MUTE", c.handleMute)
	wsrouter.Handle(mux, "UNMUTE", c.handleUnmute)
	wsrouter.Handle(mux, "TOGGLE_MUTE", c.handleToggleMute)

	return mux
}
