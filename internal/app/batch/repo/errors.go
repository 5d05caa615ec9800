package repo

import (
	"errors"
	"strings"

	"cloud.google.com/go/spanner"
	"github.com/jackc/pgx/v5/pgconn"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
)

// classifySpanner marks errors that mean the database could not be reached.
func classifySpanner(op string, err error) error {
	switch spanner.ErrCode(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return &domain.ConnectionError{Op: op, Err: err}
	}
	return err
}

// classifyPostgres marks errors that mean the database could not be reached.
func classifyPostgres(op string, err error) error {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.Timeout(err) {
		return &domain.ConnectionError{Op: op, Err: err}
	}

	// SQLSTATE class 08 is "connection exception"
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "08") {
		return &domain.ConnectionError{Op: op, Err: err}
	}
	return err
}

func referenceKeys(records []domain.ReferenceRecord) []int64 {
	keys := make([]int64, 0, len(records))
	for _, rec := range records {
		keys = append(keys, rec.Key)
	}
	return keys
}
