// Package lookup resolves words against the persistent store and the remote
// dictionary.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/instant-jisho/internal/domain"
)

// Store persists lookup results across restarts.
type Store interface {
	Get(ctx context.Context, word string) (domain.Result, error)
	Save(ctx context.Context, word string, r domain.Result) error
}

type dictionaryProvider interface {
	FetchWord(ctx context.Context, word string) (domain.Result, error)
}

// Service fetches one word at a time for the coordinator.
type Service struct {
	log      *slog.Logger
	store    Store
	provider dictionaryProvider
}

// NewService creates a lookup service. store may be nil, in which case
// every fetch goes to the provider.
func NewService(logger *slog.Logger, store Store, provider dictionaryProvider) *Service {
	return &Service{
		log:      logger.With("service", "lookup"),
		store:    store,
		provider: provider,
	}
}

// Fetch returns the stored result for word, or fetches and stores it. Store
// failures degrade to a remote fetch; provider failures are returned.
func (s *Service) Fetch(ctx context.Context, word string) (domain.Result, error) {
	if s.store != nil {
		stored, err := s.store.Get(ctx, word)
		switch {
		case err == nil:
			s.log.DebugContext(ctx, "store hit", slog.String("word", word))
			return stored, nil
		case errors.Is(err, domain.ErrNotFound):
		case ctx.Err() != nil:
			return domain.Result{}, ctx.Err()
		default:
			s.log.WarnContext(ctx, "store read failed, fetching remotely",
				slog.String("word", word),
				slog.Bool("unavailable", errors.Is(err, domain.ErrStoreUnavailable)),
				slog.String("error", err.Error()),
			)
		}
	}

	result, err := s.provider.FetchWord(ctx, word)
	if err != nil {
		return domain.Result{}, fmt.Errorf("fetch %q: %w", word, err)
	}

	if s.store != nil {
		if err := s.store.Save(ctx, word, result); err != nil {
			s.log.WarnContext(ctx, "store write failed",
				slog.String("word", word),
				slog.String("error", err.Error()),
			)
		}
	}

	return result, nil
}
