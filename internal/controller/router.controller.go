package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sharetube/multisync/internal/metrics"
)

func (c *controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Handle("/metrics", c.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Group(func(r chi.Router) {
			r.Use(metrics.RequestMiddleware(c.metrics))

			r.Get("/state", c.getState)
			r.Post("/play", c.play)
			r.Post("/pause", c.pause)
			r.Post("/sync", c.sync)
			r.Post("/cue", c.cueVideos)
			r.Post("/seek", c.seek)

			r.Route("/streams/{stream-id}", func(r chi.Router) {
				r.Post("/mute", c.muteStream)
				r.Post("/unmute", c.unmuteStream)
				r.Post("/toggle-mute", c.toggleMuteStream)
			})

			r.Route("/video-sets", func(r chi.Router) {
				r.Get("/", c.listVideoSets)
				r.Route("/{name}", func(r chi.Router) {
					r.Get("/", c.getVideoSet)
					r.Put("/", c.saveVideoSet)
					r.Delete("/", c.deleteVideoSet)
					r.Post("/cue", c.cueVideoSet)
					r.Get("/details", c.getVideoSetDetails)
				})
			})
		})

		r.Route("/ws", func(r chi.Router) {
			r.Get("/player/{stream-id}", c.connectPlayer)
			r.Get("/control", c.connectControl)
		})
	})

	return r
}
