// Package lookup persists lookup results in PostgreSQL.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/instant-jisho/internal/adapter/postgres"
	"github.com/heartmarshall/instant-jisho/internal/domain"
)

const (
	table  = "lookup_results"
	entity = "lookup_result"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo stores one result per word. A NULL entry is the not-found marker.
type Repo struct {
	q   postgres.Querier
	now func() time.Time
}

// New creates a lookup repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q, now: time.Now}
}

// Get returns the stored result for word, or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, word string) (domain.Result, error) {
	sql, args, err := psql.Select("entry").
		From(table).
		Where(squirrel.Eq{"word": word}).
		ToSql()
	if err != nil {
		return domain.Result{}, fmt.Errorf("build query: %w", err)
	}

	var raw []byte
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return domain.Result{}, postgres.MapError(err, entity, word)
	}

	if raw == nil {
		return domain.NotFound(), nil
	}
	var e domain.Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return domain.Result{}, fmt.Errorf("%s %q: decode entry: %w", entity, word, err)
	}
	return domain.Found(&e), nil
}

// Save upserts the result for word and refreshes its fetch time.
func (r *Repo) Save(ctx context.Context, word string, result domain.Result) error {
	var raw []byte
	if !result.IsNotFound() {
		var err error
		if raw, err = json.Marshal(result.Entry); err != nil {
			return fmt.Errorf("%s %q: encode entry: %w", entity, word, err)
		}
	}

	sql, args, err := psql.Insert(table).
		Columns("word", "entry", "fetched_at").
		Values(word, raw, r.now().UTC()).
		Suffix("ON CONFLICT (word) DO UPDATE SET entry = EXCLUDED.entry, fetched_at = EXCLUDED.fetched_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, entity, word)
	}
	return nil
}

// DeleteFetchedBefore removes results fetched before cutoff and returns how
// many were removed.
func (r *Repo) DeleteFetchedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	sql, args, err := psql.Delete(table).
		Where(squirrel.Lt{"fetched_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, entity, "*")
	}
	return int(tag.RowsAffected()), nil
}

// Count returns the number of stored results.
func (r *Repo) Count(ctx context.Context) (int, error) {
	sql, args, err := psql.Select("count(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var n int
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, entity, "*")
	}
	return n, nil
}
