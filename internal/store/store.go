// Package store persists conversation turns and flow outcomes. Persistence
// is best-effort from the caller's perspective: a failed write must never
// affect the reply a user receives.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/StillwaterLabs/SteadyPath/internal/models"
)

// TurnRecord is one logged conversation turn.
type TurnRecord struct {
	UserID    string
	SessionID string
	Scenario  models.ScenarioID
	Step      int
	Input     string
	Reply     string
	FlowType  string
	CreatedAt time.Time
}

// Store is the persistence interface for turns and outcomes.
type Store interface {
	// LogTurn appends one conversation turn to the turn log.
	LogTurn(ctx context.Context, rec TurnRecord) error
	// SaveOutcome stores an immutable outcome snapshot.
	SaveOutcome(ctx context.Context, out models.Outcome) error
	// ListOutcomes returns all stored outcomes for a user, newest first.
	ListOutcomes(ctx context.Context, userID string) ([]models.Outcome, error)
	// Close releases any resources held by the store.
	Close() error
}

// Opts holds store configuration.
type Opts struct {
	// DSN is the database connection string. For SQLite this is a file
	// path; for Postgres a connection URL or key=value string.
	DSN string
}

// Option configures store construction.
type Option func(*Opts)

// WithDSN sets the database connection string.
func WithDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}

// DetectDSNType reports which backend a DSN selects. Postgres URLs and
// key=value connection strings return "postgres"; anything else is treated
// as a SQLite file path.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite"
}

// InMemoryStore keeps turns and outcomes in process memory. Used in tests
// and when no database is configured.
type InMemoryStore struct {
	mu       sync.Mutex
	turns    []TurnRecord
	outcomes []models.Outcome
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// LogTurn appends the record to the in-memory turn log.
func (s *InMemoryStore) LogTurn(_ context.Context, rec TurnRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	s.turns = append(s.turns, rec)
	return nil
}

// SaveOutcome appends the outcome snapshot.
func (s *InMemoryStore) SaveOutcome(_ context.Context, out models.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, out)
	return nil
}

// ListOutcomes returns the user's outcomes, newest first.
func (s *InMemoryStore) ListOutcomes(_ context.Context, userID string) ([]models.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []models.Outcome
	for _, out := range s.outcomes {
		if out.UserID == userID {
			result = append(result, out)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EndedAt.After(result[j].EndedAt)
	})
	return result, nil
}

// Turns returns a copy of all logged turns for a user, oldest first.
func (s *InMemoryStore) Turns(userID string) []TurnRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []TurnRecord
	for _, rec := range s.turns {
		if rec.UserID == userID {
			result = append(result, rec)
		}
	}
	return result
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}
