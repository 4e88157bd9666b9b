package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dodge/internal/modules/progress/domain"
	progressout "dodge/internal/modules/progress/port/out"
	"dodge/internal/platform/tx"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

type SQLiteProgressStore struct {
	db *sql.DB
}

func NewSQLiteProgressStore(ctx context.Context, db *sql.DB) (progressout.ProgressStore, error) {
	s := &SQLiteProgressStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteProgressStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS user_progress (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  has_completed_onboarding INTEGER NOT NULL DEFAULT 0,
  high_score INTEGER NOT NULL DEFAULT 0,
  longest_streak_ns INTEGER NOT NULL DEFAULT 0,
  longest_catch_streak INTEGER NOT NULL DEFAULT 0,
  total_sessions INTEGER NOT NULL DEFAULT 0,
  total_focus_ns INTEGER NOT NULL DEFAULT 0,
  updated_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create user_progress table: %w", err)
	}
	return nil
}

func (s *SQLiteProgressStore) Load(ctx context.Context) (domain.Progress, error) {
	var (
		p         domain.Progress
		onboarded int
		streak    int64
		focus     int64
		updatedAt string
	)
	err := tx.From(ctx, s.db).QueryRowContext(ctx, `
SELECT has_completed_onboarding, high_score, longest_streak_ns, longest_catch_streak, total_sessions, total_focus_ns, updated_at
FROM user_progress WHERE id = 1;
`).Scan(&onboarded, &p.HighScore, &streak, &p.LongestCatchStreak, &p.TotalSessions, &focus, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Progress{}, nil
	}
	if err != nil {
		return domain.Progress{}, fmt.Errorf("load progress: %w", err)
	}
	p.HasCompletedOnboarding = onboarded != 0
	p.LongestStreak = time.Duration(streak)
	p.TotalFocusTime = time.Duration(focus)
	if updatedAt != "" {
		ts, err := time.Parse(timeLayout, updatedAt)
		if err != nil {
			return domain.Progress{}, fmt.Errorf("parse progress updated_at: %w", err)
		}
		p.UpdatedAt = ts
	}
	return p, nil
}

func (s *SQLiteProgressStore) Save(ctx context.Context, p domain.Progress) error {
	const stmt = `
INSERT INTO user_progress (id, has_completed_onboarding, high_score, longest_streak_ns, longest_catch_streak, total_sessions, total_focus_ns, updated_at)
VALUES (1, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  has_completed_onboarding=excluded.has_completed_onboarding,
  high_score=excluded.high_score,
  longest_streak_ns=excluded.longest_streak_ns,
  longest_catch_streak=excluded.longest_catch_streak,
  total_sessions=excluded.total_sessions,
  total_focus_ns=excluded.total_focus_ns,
  updated_at=excluded.updated_at;
`
	onboarded := 0
	if p.HasCompletedOnboarding {
		onboarded = 1
	}
	updatedAt := ""
	if !p.UpdatedAt.IsZero() {
		updatedAt = p.UpdatedAt.UTC().Format(timeLayout)
	}
	_, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		onboarded,
		p.HighScore,
		int64(p.LongestStreak),
		p.LongestCatchStreak,
		p.TotalSessions,
		int64(p.TotalFocusTime),
		updatedAt,
	)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}
