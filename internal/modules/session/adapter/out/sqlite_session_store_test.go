package out_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	sessionout "dodge/internal/modules/session/adapter/out"
	"dodge/internal/modules/session/domain"
	"dodge/internal/platform/database"
	"dodge/internal/platform/tx"
)

func sampleSession(id string, started time.Time) domain.Session {
	return domain.Session{
		ID:                     id,
		Mode:                   domain.ModeCatch,
		Score:                  350,
		BestStreak:             12 * time.Second,
		TotalFocusTime:         40 * time.Second,
		DistractionResistCount: 2,
		BestCatchStreak:        6,
		Catches:                7,
		Misses:                 1,
		HeartsLeft:             2,
		StartTime:              started,
		EndTime:                started.Add(time.Minute),
		Duration:               time.Minute,
		Elapsed:                time.Minute,
		EndReason:              domain.EndTimeUp,
	}
}

func TestSQLiteSessionStoreListsNewestFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "dodge.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	store, err := sessionout.NewSQLiteSessionStore(ctx, db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := store.Save(ctx, sampleSession(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	got, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "b" {
		t.Fatalf("expected [c b], got %+v", got)
	}
	want := sampleSession("c", base.Add(2*time.Hour))
	if got[0] != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got[0], want)
	}

	if err := store.Save(ctx, sampleSession("a", base)); err == nil {
		t.Fatal("expected duplicate id to be rejected")
	}
}

func TestSQLiteSessionStoreJoinsTransaction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "dodge.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	store, err := sessionout.NewSQLiteSessionStore(ctx, db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	boom := errors.New("progress failed")
	err = tx.NewSQLManager(db).Within(ctx, func(ctx context.Context) error {
		if err := store.Save(ctx, sampleSession("rolled-back", time.Now().UTC())); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected rollback error, got %v", err)
	}
	got, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected rolled back save, got %+v", got)
	}
}
