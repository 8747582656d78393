// Package session manages per-user flow lifecycle: at most one active flow
// per user, safe replacement, finalization into outcome snapshots, and the
// crisis screen for users with no active flow.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/StillwaterLabs/SteadyPath/internal/classify"
	"github.com/StillwaterLabs/SteadyPath/internal/flow"
	"github.com/StillwaterLabs/SteadyPath/internal/models"
	"github.com/StillwaterLabs/SteadyPath/internal/notify"
	"github.com/StillwaterLabs/SteadyPath/internal/safety"
	"github.com/StillwaterLabs/SteadyPath/internal/store"
	"github.com/StillwaterLabs/SteadyPath/internal/util"
)

// lockStripes is the number of user-lock stripes. Operations for the same
// user always serialize; operations for different users rarely contend.
const lockStripes = 64

type entry struct {
	inst      *flow.Instance
	sessionID string
}

// Opts holds registry configuration.
type Opts struct {
	Store    store.Store
	Notifier notify.Notifier
}

// Option configures registry construction.
type Option func(*Opts)

// WithStore sets the persistence backend for turns and outcomes.
func WithStore(s store.Store) Option {
	return func(o *Opts) { o.Store = s }
}

// WithNotifier sets the crisis escalation notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(o *Opts) { o.Notifier = n }
}

// Registry owns the active flow instances. All instance access goes through
// the per-user stripe lock, so instances themselves need no synchronization.
type Registry struct {
	engine   *flow.Engine
	router   *classify.Router
	store    store.Store
	notifier notify.Notifier

	stripes [lockStripes]sync.Mutex
	mu      sync.RWMutex
	active  map[string]*entry
}

// NewRegistry creates a session registry. When no store is configured an
// in-memory store is used.
func NewRegistry(engine *flow.Engine, router *classify.Router, opts ...Option) *Registry {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewInMemoryStore()
	}
	return &Registry{
		engine:   engine,
		router:   router,
		store:    cfg.Store,
		notifier: cfg.Notifier,
		active:   make(map[string]*entry),
	}
}

func fnv32(s string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

func (r *Registry) userLock(userID string) *sync.Mutex {
	return &r.stripes[fnv32(userID)%lockStripes]
}

func (r *Registry) get(userID string) *entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active[userID]
}

func (r *Registry) put(userID string, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[userID] = e
}

func (r *Registry) remove(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, userID)
}

// ActiveCount returns the number of users with an active flow.
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.active)
}

// StartFlow starts the named flow for a user, replacing any active flow by
// finalizing it as abandoned first. The flow name may be an alias; unknown
// names produce a recoverable reply listing available and suggested flows
// alongside ErrUnknownScenario.
func (r *Registry) StartFlow(ctx context.Context, userID, flowName string, startCtx *models.StartContext) (models.Reply, error) {
	scenario, ok := models.ResolveScenario(flowName)
	if !ok {
		slog.Debug("StartFlow: unknown flow name", "userID", userID, "flowName", flowName)
		return models.Reply{
			Message:        fmt.Sprintf("I don't recognize %q. Here are the support flows I can offer.", flowName),
			RequiresInput:  true,
			AvailableFlows: models.KnownFlowNames(),
			SuggestedFlows: models.SuggestFlowNames(flowName, 3),
		}, models.ErrUnknownScenario
	}

	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	return r.startLocked(ctx, userID, scenario, startCtx)
}

func (r *Registry) startLocked(ctx context.Context, userID string, scenario models.ScenarioID, startCtx *models.StartContext) (models.Reply, error) {
	if old := r.get(userID); old != nil {
		slog.Info("Replacing active flow", "userID", userID, "old", old.inst.Scenario, "new", scenario)
		r.finalizeLocked(ctx, userID, old, models.StatusAbandoned)
	}

	inst, reply, err := r.engine.Start(scenario, startCtx)
	if err != nil {
		return models.Reply{}, err
	}
	if inst == nil {
		// Crisis at start: reply only, nothing stored as active.
		r.escalate(ctx, userID, startCtx.Text)
		r.logTurn(ctx, userID, "", startCtx.Text, reply, 0)
		return reply, nil
	}

	sessionID := util.GenerateSessionID()
	r.put(userID, &entry{inst: inst, sessionID: sessionID})
	var text string
	if startCtx != nil {
		text = startCtx.Text
	}
	r.logTurn(ctx, userID, sessionID, text, reply, 0)
	return reply, nil
}

// ContinueFlow processes one user turn against the user's active flow. With
// no active flow it returns a recoverable restart reply, not an error reply:
// the conversation can always continue.
func (r *Registry) ContinueFlow(ctx context.Context, userID, message string) (models.Reply, error) {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	return r.continueLocked(ctx, userID, message)
}

func (r *Registry) continueLocked(ctx context.Context, userID, message string) (models.Reply, error) {
	ent := r.get(userID)
	if ent == nil {
		// Screen even orphaned turns: crisis text must never be answered
		// with a routing nudge.
		if a := safety.Assess(message); a.IsCrisis() {
			reply := r.engine.CrisisReply(a)
			r.escalate(ctx, userID, message)
			r.logTurn(ctx, userID, "", message, reply, 0)
			return reply, nil
		}
		return models.Reply{
			Message:        "We don't have an active session right now. Tell me what's on your mind, or pick one of the support flows to begin.",
			RequiresInput:  true,
			RestartNeeded:  true,
			AvailableFlows: models.KnownFlowNames(),
		}, nil
	}

	step := ent.inst.CurrentStep
	reply := r.engine.Process(ent.inst, message)
	r.logTurn(ctx, userID, ent.sessionID, message, reply, step)

	if ent.inst.Finished() {
		outcome := r.finalizeLocked(ctx, userID, ent, ent.inst.Status)
		reply.Outcome = &outcome
		if reply.FlowType == models.FlowTypeCrisisOverride {
			r.escalate(ctx, userID, message)
		}
	}
	return reply, nil
}

// Chat handles a free-form message: it continues the active flow when one
// exists, otherwise routes the message to a scenario and starts that flow.
func (r *Registry) Chat(ctx context.Context, userID, message string) (models.Reply, error) {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if r.get(userID) != nil {
		return r.continueLocked(ctx, userID, message)
	}

	res := r.router.Route(message)
	slog.Debug("Chat routed to scenario", "userID", userID, "scenario", res.Scenario, "intensity", res.Intensity, "fallback", res.FallbackUsed)
	return r.startLocked(ctx, userID, res.Scenario, res.StartContext(message))
}

// Status returns a read-only snapshot of the user's active flow. It never
// mutates session state.
func (r *Registry) Status(userID string) (models.FlowStatus, error) {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	ent := r.get(userID)
	if ent == nil {
		return models.FlowStatus{}, models.ErrNoActiveFlow
	}
	return ent.inst.FlowStatus(), nil
}

// EndSession finalizes the user's active flow. An unfinished flow is marked
// abandoned. Returns the outcome snapshot.
func (r *Registry) EndSession(ctx context.Context, userID string) (models.Outcome, error) {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	ent := r.get(userID)
	if ent == nil {
		return models.Outcome{}, models.ErrNoActiveFlow
	}
	status := ent.inst.Status
	if status == models.StatusInProgress {
		status = models.StatusAbandoned
	}
	return r.finalizeLocked(ctx, userID, ent, status), nil
}

// History returns the user's stored outcomes, newest first.
func (r *Registry) History(ctx context.Context, userID string) ([]models.Outcome, error) {
	return r.store.ListOutcomes(ctx, userID)
}

// finalizeLocked computes the outcome snapshot, persists it best-effort, and
// clears the active slot. Idempotent: the active-slot check in every caller
// guarantees an instance is finalized at most once. Caller holds the user lock.
func (r *Registry) finalizeLocked(ctx context.Context, userID string, ent *entry, status models.CompletionStatus) models.Outcome {
	if ent.inst.Status == models.StatusInProgress {
		ent.inst.Status = status
	}
	outcome := ent.inst.Outcome(ent.sessionID, userID, time.Now())
	r.remove(userID)

	if err := r.store.SaveOutcome(ctx, outcome); err != nil {
		slog.Error("Failed to save flow outcome", "error", err, "userID", userID, "sessionID", ent.sessionID)
	}
	slog.Info("Flow finalized", "userID", userID, "sessionID", ent.sessionID, "scenario", outcome.Scenario,
		"status", outcome.Status, "completionRate", outcome.CompletionRate, "success", outcome.Success)
	return outcome
}

// escalate sends a crisis alert when a notifier is configured. Failures are
// logged only; the user's crisis reply is already built.
func (r *Registry) escalate(ctx context.Context, userID, text string) {
	if r.notifier == nil {
		return
	}
	a := safety.Assess(text)
	alert := notify.Alert{
		UserID:     userID,
		Level:      string(a.Level),
		Categories: a.Categories,
		OccurredAt: time.Now(),
	}
	if err := r.notifier.NotifyCrisis(ctx, alert); err != nil {
		slog.Error("Crisis escalation failed", "error", err, "userID", userID)
	}
}

func (r *Registry) logTurn(ctx context.Context, userID, sessionID, input string, reply models.Reply, step int) {
	rec := store.TurnRecord{
		UserID:    userID,
		SessionID: sessionID,
		Scenario:  reply.Scenario,
		Step:      step,
		Input:     input,
		Reply:     reply.Message,
		FlowType:  reply.FlowType,
		CreatedAt: time.Now(),
	}
	if err := r.store.LogTurn(ctx, rec); err != nil {
		slog.Error("Failed to log conversation turn", "error", err, "userID", userID)
	}
}
