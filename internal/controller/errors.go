package controller

import (
	"errors"
	"net/http"

	"github.com/sharetube/multisync/internal/domain"
	"github.com/sharetube/multisync/internal/engine"
	"github.com/sharetube/multisync/internal/repository/videoset"
	"github.com/sharetube/multisync/internal/service/session"
	"github.com/sharetube/multisync/pkg/ytvideodata"
)

var ErrValidationError = errors.New("validation error")

func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidationError),
		errors.Is(err, engine.ErrVideoCountMismatch),
		errors.Is(err, engine.ErrNegativeTime),
		errors.Is(err, engine.ErrStreamIndexOutOfRange),
		errors.Is(err, domain.ErrInvalidVideoSetName),
		errors.Is(err, domain.ErrEmptyVideoSet):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrStreamNotFound),
		errors.Is(err, session.ErrPlayerNotConnected),
		errors.Is(err, videoset.ErrVideoSetNotFound):
		return http.StatusNotFound
	case errors.Is(err, ytvideodata.ErrVideoNotFound),
		errors.Is(err, ytvideodata.ErrVideoNotEmbeddable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
