package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
)

// statusForError maps domain errors to HTTP status codes.
func statusForError(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var parseErr *domain.ParseError
	var connErr *domain.ConnectionError
	var persistErr *domain.PersistenceError

	switch {
	case errors.Is(err, domain.ErrRunInProgress):
		return http.StatusConflict

	case errors.Is(err, domain.ErrInvalidChunkSize),
		errors.Is(err, domain.ErrInvalidWorkers),
		errors.Is(err, domain.ErrMissingInput):
		return http.StatusBadRequest

	case errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity

	case errors.As(err, &connErr):
		return http.StatusServiceUnavailable

	case errors.As(err, &persistErr):
		return http.StatusInternalServerError

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
