package controller

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sharetube/multisync/pkg/rest"
)

func (c *controller) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		c.logger.ErrorContext(r.Context(), "request failed", "error", err)
	} else {
		c.logger.InfoContext(r.Context(), "request rejected", "status", status, "error", err)
	}

	rest.WriteJSON(w, status, rest.Envelope{"error": err.Error()})
}

// readInput decodes and validates the request body into dst. It writes the
// error response itself and reports whether the handler may go on.
func (c *controller) readInput(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := rest.ReadJSON(r, dst); err != nil {
		c.logger.InfoContext(r.Context(), "failed to read json", "error", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return false
	}

	if validationErrors, ok := c.validate.Validate(dst); !ok {
		c.logger.InfoContext(r.Context(), "validation failed", "errors", validationErrors)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return false
	}

	return true
}

func (c *controller) writeState(w http.ResponseWriter, r *http.Request) {
	state, err := c.sessionService.State(r.Context())
	if err != nil {
		c.writeError(w, r, fmt.Errorf("failed to get state: %w", err))
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": state})
}

func (c *controller) getState(w http.ResponseWriter, r *http.Request) {
	c.writeState(w, r)
}

func (c *controller) play(w http.ResponseWriter, r *http.Request) {
	if err := c.sessionService.Play(r.Context()); err != nil {
		c.writeError(w, r, err)
		return
	}

	c.writeState(w, r)
}

func (c *controller) pause(w http.ResponseWriter, r *http.Request) {
	if err := c.sessionService.Pause(r.Context()); err != nil {
		c.writeError(w, r, err)
		return
	}

	c.writeState(w, r)
}

func (c *controller) sync(w http.ResponseWriter, r *http.Request) {
	resp, err := c.sessionService.Sync(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": resp})
}

type cueVideosInput struct {
	VideoIDs []string `json:"video_ids" validate:"required,min=1,dive,required"`
}

func (c *controller) cueVideos(w http.ResponseWriter, r *http.Request) {
	var input cueVideosInput
	if !c.readInput(w, r, &input) {
		return
	}

	if err := c.sessionService.CueVideos(r.Context(), input.VideoIDs); err != nil {
		c.writeError(w, r, err)
		return
	}

	c.writeState(w, r)
}

type seekInput struct {
	Seconds *float64 `json:"seconds" validate:"required,gte=0"`
}

func (c *controller) seek(w http.ResponseWriter, r *http.Request) {
	var input seekInput
	if !c.readInput(w, r, &input) {
		return
	}

	if err := c.sessionService.SetTime(r.Context(), *input.Seconds); err != nil {
		c.writeError(w, r, err)
		return
	}

	c.writeState(w, r)
}

func (c *controller) muteStream(w http.ResponseWriter, r *http.Request) {
	c.streamOp(w, r, c.sessionService.Mute)
}

func (c *controller) unmuteStream(w http.ResponseWriter, r *http.Request) {
	c.streamOp(w, r, c.sessionService.Unmute)
}

func (c *controller) toggleMuteStream(w http.ResponseWriter, r *http.Request) {
	c.streamOp(w, r, c.sessionService.ToggleMute)
}

func (c *controller) streamOp(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, streamID int) error) {
	streamID, err := c.getStreamIDParam(r)
	if err != nil {
		c.writeError(w, r, fmt.Errorf("%w: %w", ErrValidationError, err))
		return
	}

	if err := op(r.Context(), streamID); err != nil {
		c.writeError(w, r, err)
		return
	}

	c.writeState(w, r)
}

func (c *controller) listVideoSets(w http.ResponseWriter, r *http.Request) {
	sets, err := c.sessionService.ListVideoSets(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": sets})
}

func (c *controller) getVideoSet(w http.ResponseWriter, r *http.Request) {
	set, err := c.sessionService.GetVideoSet(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": set})
}

type saveVideoSetInput struct {
	VideoIDs []string `json:"video_ids" validate:"required,min=1,dive,required,max=64"`
}

func (c *controller) saveVideoSet(w http.ResponseWriter, r *http.Request) {
	var input saveVideoSetInput
	if !c.readInput(w, r, &input) {
		return
	}

	set, err := c.sessionService.SaveVideoSet(r.Context(), chi.URLParam(r, "name"), input.VideoIDs)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": set})
}

func (c *controller) deleteVideoSet(w http.ResponseWriter, r *http.Request) {
	if err := c.sessionService.DeleteVideoSet(r.Context(), chi.URLParam(r, "name")); err != nil {
		c.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *controller) cueVideoSet(w http.ResponseWriter, r *http.Request) {
	if _, err := c.sessionService.CueVideoSet(r.Context(), chi.URLParam(r, "name")); err != nil {
		c.writeError(w, r, err)
		return
	}

	c.writeState(w, r)
}

func (c *controller) getVideoSetDetails(w http.ResponseWriter, r *http.Request) {
	details, err := c.sessionService.VideoSetDetails(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": details})
}
