// This file implements the SQLite-backed store for conversation turns and
// flow outcomes.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	"github.com/StillwaterLabs/SteadyPath/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the permissions used when creating the
// database directory.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// SQLiteStore persists turns and outcomes in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN. The DSN is a
// file path to the database file; the containing directory is created if it
// does not exist.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run SQLite migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite store ready", "dsn", dsn)
	return &SQLiteStore{db: db}, nil
}

// LogTurn appends one conversation turn.
func (s *SQLiteStore) LogTurn(ctx context.Context, rec TurnRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversation_turns (user_id, session_id, scenario, step, input, reply, flow_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.UserID, rec.SessionID, string(rec.Scenario), rec.Step, rec.Input, rec.Reply, rec.FlowType, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to log turn: %w", err)
	}
	return nil
}

// SaveOutcome stores an outcome snapshot. List-valued fields are stored as
// JSON text columns.
func (s *SQLiteStore) SaveOutcome(ctx context.Context, out models.Outcome) error {
	ratings, err := json.Marshal(out.EffectivenessRatings)
	if err != nil {
		return fmt.Errorf("failed to marshal ratings: %w", err)
	}
	flags, err := json.Marshal(out.SafetyFlags)
	if err != nil {
		return fmt.Errorf("failed to marshal safety flags: %w", err)
	}
	interventions, err := json.Marshal(out.InterventionsUsed)
	if err != nil {
		return fmt.Errorf("failed to marshal interventions: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO flow_outcomes (session_id, user_id, scenario, flow_name, status, started_at, ended_at,
		 duration_seconds, completion_rate, effectiveness_ratings, safety_flags, interventions_used, content_retrievals, success)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		out.SessionID, out.UserID, string(out.Scenario), out.FlowName, string(out.Status), out.StartedAt, out.EndedAt,
		out.DurationSeconds, out.CompletionRate, string(ratings), string(flags), string(interventions), out.ContentRetrievals, out.Success)
	if err != nil {
		return fmt.Errorf("failed to save outcome: %w", err)
	}
	return nil
}

// ListOutcomes returns all stored outcomes for a user, newest first.
func (s *SQLiteStore) ListOutcomes(ctx context.Context, userID string) ([]models.Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, user_id, scenario, flow_name, status, started_at, ended_at,
		 duration_seconds, completion_rate, effectiveness_ratings, safety_flags, interventions_used, content_retrievals, success
		 FROM flow_outcomes WHERE user_id = ? ORDER BY ended_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()
	return scanOutcomes(rows)
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanOutcomes(rows *sql.Rows) ([]models.Outcome, error) {
	var outcomes []models.Outcome
	for rows.Next() {
		var out models.Outcome
		var scenario, status string
		var ratings, flags, interventions sql.NullString
		if err := rows.Scan(&out.SessionID, &out.UserID, &scenario, &out.FlowName, &status,
			&out.StartedAt, &out.EndedAt, &out.DurationSeconds, &out.CompletionRate,
			&ratings, &flags, &interventions, &out.ContentRetrievals, &out.Success); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		out.Scenario = models.ScenarioID(scenario)
		out.Status = models.CompletionStatus(status)
		if ratings.Valid && ratings.String != "" {
			if err := json.Unmarshal([]byte(ratings.String), &out.EffectivenessRatings); err != nil {
				slog.Error("Failed to unmarshal effectiveness ratings", "error", err, "sessionID", out.SessionID)
			}
		}
		if flags.Valid && flags.String != "" {
			if err := json.Unmarshal([]byte(flags.String), &out.SafetyFlags); err != nil {
				slog.Error("Failed to unmarshal safety flags", "error", err, "sessionID", out.SessionID)
			}
		}
		if interventions.Valid && interventions.String != "" {
			if err := json.Unmarshal([]byte(interventions.String), &out.InterventionsUsed); err != nil {
				slog.Error("Failed to unmarshal interventions", "error", err, "sessionID", out.SessionID)
			}
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, rows.Err()
}
