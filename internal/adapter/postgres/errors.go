package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/instant-jisho/internal/domain"
)

// MapError converts pgx errors into domain errors, prefixed with the entity
// and the row key (usually the looked-up word). Context errors are wrapped
// but keep their identity.
func MapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}
	wrap := func(target error) error { return fmt.Errorf("%s %q: %w", entity, key, target) }

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return wrap(err)
	case errors.Is(err, pgx.ErrNoRows):
		return wrap(domain.ErrNotFound)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%s %q: %w: %w", entity, key, domain.ErrStoreUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		// connection_exception class, admin_shutdown, cannot_connect_now
		case strings.HasPrefix(pgErr.Code, "08"), pgErr.Code == "57P01", pgErr.Code == "57P03":
			return fmt.Errorf("%s %q: %w: %w", entity, key, domain.ErrStoreUnavailable, err)
		case pgErr.Code == "23514", pgErr.Code == "22P02": // check_violation, invalid_text_representation
			return wrap(domain.ErrValidation)
		}
	}

	return wrap(err)
}
