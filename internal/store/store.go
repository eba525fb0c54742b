// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/bihua/internal/model"
	"github.com/verte-zerg/bihua/internal/writing"

	_ "modernc.org/sqlite" // SQLite driver.
)

const (
	pragmas    = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store wraps SQLite access for sessions and progress.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path+pragmas)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS writing_sessions (
			id TEXT PRIMARY KEY,
			character_id TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT,
			accuracy INTEGER NOT NULL,
			completion_ms INTEGER NOT NULL,
			attempts INTEGER NOT NULL,
			completed INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_strokes (
			session_id TEXT NOT NULL REFERENCES writing_sessions(id) ON DELETE CASCADE,
			stroke_order INTEGER NOT NULL,
			stroke_id TEXT NOT NULL,
			drawn_at TEXT NOT NULL,
			path TEXT NOT NULL,
			points TEXT NOT NULL,
			PRIMARY KEY (session_id, stroke_order)
		);`,
		`CREATE TABLE IF NOT EXISTS writing_progress (
			character_id TEXT PRIMARY KEY,
			total_attempts INTEGER NOT NULL,
			best_accuracy INTEGER NOT NULL,
			average_accuracy REAL NOT NULL,
			fastest_ms INTEGER NOT NULL,
			last_practiced TEXT NOT NULL,
			mastery TEXT NOT NULL,
			streak_days INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_writing_sessions_ended_at ON writing_sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_writing_sessions_character ON writing_sessions(character_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveSessionResult stores a finished session, its strokes, and the updated progress record
// in one transaction.
func (s *Store) SaveSessionResult(ctx context.Context, session writing.WritingSession, progress writing.WritingProgress) (err error) {
	if session.CharacterID != progress.CharacterID {
		return fmt.Errorf("session character %q does not match progress character %q", session.CharacterID, progress.CharacterID)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	var endedAt any
	if session.EndTime != nil {
		endedAt = formatTime(*session.EndTime)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO writing_sessions (id, character_id, started_at, ended_at, accuracy, completion_ms, attempts, completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			ended_at = excluded.ended_at,
			accuracy = excluded.accuracy,
			completion_ms = excluded.completion_ms,
			attempts = excluded.attempts,
			completed = excluded.completed`,
		session.ID,
		session.CharacterID,
		formatTime(session.StartTime),
		endedAt,
		session.Accuracy,
		session.CompletionTime.Milliseconds(),
		session.Attempts,
		session.IsCompleted,
	)
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM session_strokes WHERE session_id = ?`, session.ID); err != nil {
		return err
	}
	if len(session.UserStrokes) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO session_strokes (session_id, stroke_order, stroke_id, drawn_at, path, points)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, stroke := range session.UserStrokes {
			var points []byte
			points, err = json.Marshal(stroke.Points)
			if err != nil {
				return fmt.Errorf("failed to encode stroke points: %w", err)
			}
			if _, err = stmt.ExecContext(ctx, session.ID, stroke.Order, stroke.ID, formatTime(stroke.Timestamp), stroke.Path, string(points)); err != nil {
				return err
			}
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO writing_progress (character_id, total_attempts, best_accuracy, average_accuracy, fastest_ms, last_practiced, mastery, streak_days)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(character_id) DO UPDATE SET
			total_attempts = excluded.total_attempts,
			best_accuracy = excluded.best_accuracy,
			average_accuracy = excluded.average_accuracy,
			fastest_ms = excluded.fastest_ms,
			last_practiced = excluded.last_practiced,
			mastery = excluded.mastery,
			streak_days = excluded.streak_days`,
		progress.CharacterID,
		progress.TotalAttempts,
		progress.BestAccuracy,
		progress.AverageAccuracy,
		progress.FastestTime.Milliseconds(),
		formatTime(progress.LastPracticed),
		string(progress.MasteryLevel),
		progress.StreakDays,
	)
	if err != nil {
		return err
	}

	err = tx.Commit()
	return err
}

const progressColumns = `character_id, total_attempts, best_accuracy, average_accuracy, fastest_ms, last_practiced, mastery, streak_days`

type scanner interface {
	Scan(dest ...any) error
}

func scanProgress(row scanner) (writing.WritingProgress, error) {
	var p writing.WritingProgress
	var fastestMs int64
	var last, mastery string
	if err := row.Scan(&p.CharacterID, &p.TotalAttempts, &p.BestAccuracy, &p.AverageAccuracy, &fastestMs, &last, &mastery, &p.StreakDays); err != nil {
		return writing.WritingProgress{}, err
	}
	parsed, err := time.Parse(timeLayout, last)
	if err != nil {
		return writing.WritingProgress{}, err
	}
	p.LastPracticed = parsed
	p.FastestTime = time.Duration(fastestMs) * time.Millisecond
	p.MasteryLevel = writing.MasteryLevel(mastery)
	return p, nil
}

// GetProgress returns the progress record for a character, or nil when none exists.
func (s *Store) GetProgress(ctx context.Context, characterID string) (*writing.WritingProgress, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM writing_progress WHERE character_id = ?`, characterID)
	p, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProgress returns all progress records ordered by character.
func (s *Store) ListProgress(ctx context.Context) ([]writing.WritingProgress, error) {
	return s.queryProgress(ctx, `SELECT `+progressColumns+` FROM writing_progress ORDER BY character_id ASC`)
}

// RecentProgress returns the progress records of the most recently practiced characters.
func (s *Store) RecentProgress(ctx context.Context, window int) ([]writing.WritingProgress, error) {
	if window <= 0 {
		return nil, nil
	}
	return s.queryProgress(ctx,
		`SELECT `+progressColumns+` FROM writing_progress ORDER BY last_practiced DESC LIMIT ?`, window)
}

func (s *Store) queryProgress(ctx context.Context, query string, args ...any) ([]writing.WritingProgress, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []writing.WritingProgress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListSessions returns finished sessions filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"ended_at IS NOT NULL"}
	args := []any{}
	if cfg.Character != "" {
		clauses = append(clauses, "character_id = ?")
		args = append(args, cfg.Character)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	query := fmt.Sprintf(`SELECT id, character_id, ended_at, accuracy, attempts, completed, completion_ms
		FROM writing_sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &agg.CharacterID, &endedAt, &agg.Accuracy, &agg.Attempts, &agg.Completed, &agg.CompletionMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	return sessions, nil
}

// ListSessionStrokes returns the strokes stored for a session in draw order.
func (s *Store) ListSessionStrokes(ctx context.Context, sessionID string) ([]writing.StrokePath, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT stroke_id, stroke_order, drawn_at, path, points
		 FROM session_strokes
		 WHERE session_id = ?
		 ORDER BY stroke_order ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	strokes := []writing.StrokePath{}
	for rows.Next() {
		var stroke writing.StrokePath
		var drawnAt, points string
		if err := rows.Scan(&stroke.ID, &stroke.Order, &drawnAt, &stroke.Path, &points); err != nil {
			return nil, err
		}
		if stroke.Timestamp, err = time.Parse(timeLayout, drawnAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(points), &stroke.Points); err != nil {
			return nil, fmt.Errorf("failed to decode stroke points: %w", err)
		}
		strokes = append(strokes, stroke)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return strokes, nil
}

// LatestSession returns the most recently finished session for a character with its strokes,
// or nil when the character has none.
func (s *Store) LatestSession(ctx context.Context, characterID string) (*writing.WritingSession, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, character_id, started_at, ended_at, accuracy, completion_ms, attempts, completed
		 FROM writing_sessions
		 WHERE character_id = ? AND ended_at IS NOT NULL
		 ORDER BY ended_at DESC
		 LIMIT 1`, characterID)
	var session writing.WritingSession
	var startedAt string
	var endedAt sql.NullString
	var completionMs int64
	err := row.Scan(&session.ID, &session.CharacterID, &startedAt, &endedAt, &session.Accuracy, &completionMs, &session.Attempts, &session.IsCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if session.StartTime, err = time.Parse(timeLayout, startedAt); err != nil {
		return nil, err
	}
	if endedAt.Valid {
		end, err := time.Parse(timeLayout, endedAt.String)
		if err != nil {
			return nil, err
		}
		session.EndTime = &end
	}
	session.CompletionTime = time.Duration(completionMs) * time.Millisecond
	if session.UserStrokes, err = s.ListSessionStrokes(ctx, session.ID); err != nil {
		return nil, err
	}
	return &session, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
