package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/instant-jisho/internal/domain"
)

// SeedResult inserts a stored lookup result with an explicit fetch time,
// bypassing the repository. A nil entry stores the not-found marker.
func SeedResult(t *testing.T, pool *pgxpool.Pool, word string, entry *domain.Entry, fetchedAt time.Time) {
	t.Helper()

	var raw []byte
	if entry != nil {
		var err error
		if raw, err = json.Marshal(entry); err != nil {
			t.Fatalf("testhelper: SeedResult marshal entry: %v", err)
		}
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO lookup_results (word, entry, fetched_at) VALUES ($1, $2, $3)`,
		word, raw, fetchedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedResult insert: %v", err)
	}
}
