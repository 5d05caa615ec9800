package batch

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
)

// mapDomainErrorToGRPC converts domain errors to gRPC status codes.
// op prefixes the status message.
func mapDomainErrorToGRPC(op string, err error) error {
	if err == nil {
		return nil
	}

	msg := op + ": " + err.Error()

	var parseErr *domain.ParseError
	var connErr *domain.ConnectionError
	var persistErr *domain.PersistenceError

	switch {
	case errors.Is(err, domain.ErrRunInProgress):
		return status.Error(codes.Aborted, "a batch run is already in progress")

	case errors.Is(err, domain.ErrInvalidChunkSize),
		errors.Is(err, domain.ErrInvalidWorkers),
		errors.Is(err, domain.ErrMissingInput):
		return status.Error(codes.InvalidArgument, msg)

	case errors.As(err, &parseErr):
		return status.Error(codes.FailedPrecondition, msg)

	case errors.As(err, &connErr):
		return status.Error(codes.Unavailable, msg)

	case errors.As(err, &persistErr):
		return status.Error(codes.Internal, msg)

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, msg)

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, msg)

	default:
		// Unknown error - return Internal
		return status.Error(codes.Internal, msg)
	}
}
