package out

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dodge/internal/modules/session/domain"
	sessionout "dodge/internal/modules/session/port/out"
	"dodge/internal/platform/tx"
)

// SQLiteSessionStore keeps finished sessions. Rows are inserted once and
// never updated.
type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(ctx context.Context, db *sql.DB) (sessionout.SessionStore, error) {
	s := &SQLiteSessionStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  schema_version INTEGER NOT NULL,
  mode TEXT NOT NULL,
  end_reason TEXT NOT NULL,
  score INTEGER NOT NULL,
  best_streak_ns INTEGER NOT NULL,
  total_focus_ns INTEGER NOT NULL,
  resist_count INTEGER NOT NULL,
  best_catch_streak INTEGER NOT NULL,
  catches INTEGER NOT NULL,
  misses INTEGER NOT NULL,
  hearts_left INTEGER NOT NULL,
  duration_ns INTEGER NOT NULL,
  elapsed_ns INTEGER NOT NULL,
  started_at_ns INTEGER NOT NULL,
  ended_at_ns INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at_ns DESC);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Save(ctx context.Context, session domain.Session) error {
	const stmt = `
INSERT INTO sessions (id, schema_version, mode, end_reason, score, best_streak_ns, total_focus_ns, resist_count, best_catch_streak, catches, misses, hearts_left, duration_ns, elapsed_ns, started_at_ns, ended_at_ns)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		session.ID,
		domain.SchemaVersion,
		string(session.Mode),
		string(session.EndReason),
		session.Score,
		int64(session.BestStreak),
		int64(session.TotalFocusTime),
		session.DistractionResistCount,
		session.BestCatchStreak,
		session.Catches,
		session.Misses,
		session.HeartsLeft,
		int64(session.Duration),
		int64(session.Elapsed),
		session.StartTime.UnixNano(),
		session.EndTime.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) List(ctx context.Context, limit int) ([]domain.Session, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, `
SELECT id, mode, end_reason, score, best_streak_ns, total_focus_ns, resist_count, best_catch_streak, catches, misses, hearts_left, duration_ns, elapsed_ns, started_at_ns, ended_at_ns
FROM sessions
ORDER BY started_at_ns DESC, id ASC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := []domain.Session{}
	for rows.Next() {
		var (
			session                          domain.Session
			mode, reason                     string
			streak, focus, duration, elapsed int64
			startedAt, endedAt               int64
		)
		if err := rows.Scan(
			&session.ID, &mode, &reason, &session.Score, &streak, &focus,
			&session.DistractionResistCount, &session.BestCatchStreak, &session.Catches, &session.Misses, &session.HeartsLeft,
			&duration, &elapsed, &startedAt, &endedAt,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session.Mode = domain.Mode(mode)
		session.EndReason = domain.EndReason(reason)
		session.BestStreak = time.Duration(streak)
		session.TotalFocusTime = time.Duration(focus)
		session.Duration = time.Duration(duration)
		session.Elapsed = time.Duration(elapsed)
		session.StartTime = time.Unix(0, startedAt).UTC()
		session.EndTime = time.Unix(0, endedAt).UTC()
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}
