// This file implements the PostgreSQL-backed store for conversation turns
// and flow outcomes.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/StillwaterLabs/SteadyPath/internal/models"
	_ "github.com/lib/pq"
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresStore persists turns and outcomes in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL store with the given DSN.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "DSN_set", cfg.DSN != "")

	if cfg.DSN == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run Postgres migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres store ready")
	return &PostgresStore{db: db}, nil
}

// LogTurn appends one conversation turn.
func (s *PostgresStore) LogTurn(ctx context.Context, rec TurnRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversation_turns (user_id, session_id, scenario, step, input, reply, flow_type, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.UserID, rec.SessionID, string(rec.Scenario), rec.Step, rec.Input, rec.Reply, rec.FlowType, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to log turn: %w", err)
	}
	return nil
}

// SaveOutcome stores an outcome snapshot.
func (s *PostgresStore) SaveOutcome(ctx context.Context, out models.Outcome) error {
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
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		out.SessionID, out.UserID, string(out.Scenario), out.FlowName, string(out.Status), out.StartedAt, out.EndedAt,
		out.DurationSeconds, out.CompletionRate, string(ratings), string(flags), string(interventions), out.ContentRetrievals, out.Success)
	if err != nil {
		return fmt.Errorf("failed to save outcome: %w", err)
	}
	return nil
}

// ListOutcomes returns all stored outcomes for a user, newest first.
func (s *PostgresStore) ListOutcomes(ctx context.Context, userID string) ([]models.Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, user_id, scenario, flow_name, status, started_at, ended_at,
		 duration_seconds, completion_rate, effectiveness_ratings, safety_flags, interventions_used, content_retrievals, success
		 FROM flow_outcomes WHERE user_id = $1 ORDER BY ended_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()
	return scanOutcomes(rows)
}

// Close closes the underlying database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
