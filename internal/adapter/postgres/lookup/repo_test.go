package lookup

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/instant-jisho/internal/domain"
)

var fixedNow = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)

	repo := New(mock)
	repo.now = func() time.Time { return fixedNow }
	return repo, mock
}

func expectationsWereMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

var selectSQL = regexp.QuoteMeta(`SELECT entry FROM lookup_results WHERE word = $1`)

func TestRepo_Get(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(mock pgxmock.PgxPoolIface)
		wantErr   error
		wantFound bool
	}{
		{
			name: "found",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"entry"}).
					AddRow([]byte(`{"slug":"猫","senses":[{"english_definitions":["cat"],"parts_of_speech":["Noun"]}],"japanese":[{"word":"猫","reading":"ねこ"}]}`))
				mock.ExpectQuery(selectSQL).WithArgs("猫").WillReturnRows(rows)
			},
			wantFound: true,
		},
		{
			name: "stored not found marker",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"entry"}).AddRow([]byte(nil))
				mock.ExpectQuery(selectSQL).WithArgs("猫").WillReturnRows(rows)
			},
		},
		{
			name: "absent",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(selectSQL).WithArgs("猫").WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "canceled",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(selectSQL).WithArgs("猫").WillReturnError(context.Canceled)
			},
			wantErr: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			tt.setup(mock)

			result, err := repo.Get(context.Background(), "猫")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Get() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Get() unexpected error: %v", err)
			} else if result.IsNotFound() == tt.wantFound {
				t.Errorf("Get() found = %v, want %v", !result.IsNotFound(), tt.wantFound)
			}

			if tt.wantFound && result.Entry != nil {
				if result.Entry.Slug != "猫" || result.Entry.Reading() != "ねこ" {
					t.Errorf("Get() entry = %+v", result.Entry)
				}
			}

			expectationsWereMet(t, mock)
		})
	}
}

func TestRepo_Get_CorruptEntry(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := pgxmock.NewRows([]string{"entry"}).AddRow([]byte(`{"slug":`))
	mock.ExpectQuery(selectSQL).WithArgs("猫").WillReturnRows(rows)

	if _, err := repo.Get(context.Background(), "猫"); err == nil {
		t.Error("Get() expected a decode error")
	}
	expectationsWereMet(t, mock)
}

func TestRepo_Save(t *testing.T) {
	insertSQL := regexp.QuoteMeta(`INSERT INTO lookup_results (word,entry,fetched_at) VALUES ($1,$2,$3) ON CONFLICT (word) DO UPDATE`)

	t.Run("entry", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(insertSQL).
			WithArgs("猫", []byte(`{"slug":"猫","senses":null,"japanese":null}`), fixedNow).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Save(context.Background(), "猫", domain.Found(&domain.Entry{Slug: "猫"}))
		if err != nil {
			t.Fatalf("Save() unexpected error: %v", err)
		}
		expectationsWereMet(t, mock)
	})

	t.Run("not found marker is stored as NULL", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(insertSQL).
			WithArgs("ぬぬ", []byte(nil), fixedNow).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		if err := repo.Save(context.Background(), "ぬぬ", domain.NotFound()); err != nil {
			t.Fatalf("Save() unexpected error: %v", err)
		}
		expectationsWereMet(t, mock)
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(insertSQL).
			WithArgs("猫", pgxmock.AnyArg(), fixedNow).
			WillReturnError(context.DeadlineExceeded)

		err := repo.Save(context.Background(), "猫", domain.Found(&domain.Entry{Slug: "猫"}))
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Save() error = %v, want DeadlineExceeded", err)
		}
		expectationsWereMet(t, mock)
	})
}

func TestRepo_DeleteFetchedBefore(t *testing.T) {
	repo, mock := newMockRepo(t)
	cutoff := fixedNow.AddDate(0, 0, -30)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM lookup_results WHERE fetched_at < $1`)).
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := repo.DeleteFetchedBefore(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("DeleteFetchedBefore() unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("DeleteFetchedBefore() = %d, want 3", n)
	}
	expectationsWereMet(t, mock)
}

func TestRepo_Count(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM lookup_results`)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() unexpected error: %v", err)
	}
	if n != 7 {
		t.Errorf("Count() = %d, want 7", n)
	}
	expectationsWereMet(t, mock)
}
