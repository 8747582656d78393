// Package models defines the core data structures for SteadyPath.
//
// It includes the reply structure produced by flow processing, outcome
// snapshots, and request/response types shared across modules.
package models

import (
	"errors"
	"time"
)

// Validation constants for input validation
const (
	// MaxUserMessageLength defines the maximum allowed length for a user message
	MaxUserMessageLength = 4096
	// MaxUserIDLength defines the maximum allowed length for a user identifier
	MaxUserIDLength = 128
)

// Error variables for better error handling and testability
var (
	ErrEmptyUserID     = errors.New("user id cannot be empty")
	ErrUserIDTooLong   = errors.New("user id exceeds maximum length")
	ErrEmptyMessage    = errors.New("message cannot be empty")
	ErrMessageTooLong  = errors.New("message exceeds maximum length")
	ErrUnknownScenario = errors.New("unknown scenario")
	ErrNoActiveFlow    = errors.New("no active flow for user")
	ErrEmptyFlowName   = errors.New("flow name cannot be empty")
)

// StepInfo reports flow progress on every reply.
type StepInfo struct {
	CurrentStep      int    `json:"current_step"`
	TotalSteps       int    `json:"total_steps"`
	InterventionType string `json:"intervention_type"`
}

// CrisisResource is one entry in the fixed crisis resource list.
type CrisisResource struct {
	Name         string `json:"name"`
	Contact      string `json:"contact"`
	Availability string `json:"availability"`
}

// CoreCrisisResources returns the resources that must be present on every
// crisis reply. Crisis response never depends on an external lookup.
func CoreCrisisResources() []CrisisResource {
	return []CrisisResource{
		{Name: "Emergency Services", Contact: "911", Availability: "Immediate emergency response"},
		{Name: "Crisis Text Line", Contact: "Text HOME to 741741", Availability: "24/7"},
		{Name: "National Suicide Prevention Lifeline", Contact: "988", Availability: "24/7"},
	}
}

// FollowUpResource is a follow-up suggestion attached to completion replies.
type FollowUpResource struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// EffectivenessRating is a user-reported 1..10 score collected at designated steps.
type EffectivenessRating struct {
	Rating     int       `json:"rating"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Reply is the structured result of a single conversation turn.
type Reply struct {
	Message       string     `json:"message"`
	FlowType      string     `json:"flow_type,omitempty"` // "crisis_override" on crisis replies
	Scenario      ScenarioID `json:"scenario,omitempty"`
	RequiresInput bool       `json:"requires_input"`
	StepInfo      StepInfo   `json:"step_info"`

	// Informational per-turn signals (perfectionism_identified, etc.);
	// never used for control flow beyond this single reply.
	Signals map[string]bool `json:"signals,omitempty"`

	// Terminal reply fields.
	FlowCompleted bool     `json:"flow_completed,omitempty"`
	Outcome       *Outcome `json:"outcome,omitempty"`

	// Crisis reply fields.
	CrisisResources     []CrisisResource `json:"crisis_resources,omitempty"`
	SafetyMessage       string           `json:"safety_message,omitempty"`
	DisableFreeForm     bool             `json:"disable_free_form,omitempty"`
	ImmediateEscalation bool             `json:"immediate_escalation,omitempty"`
	SafetyConcern       bool             `json:"safety_concern,omitempty"`

	// Recoverable routing-error fields.
	RestartNeeded  bool     `json:"restart_needed,omitempty"`
	AvailableFlows []string `json:"available_flows,omitempty"`
	SuggestedFlows []string `json:"suggested_flows,omitempty"`

	// Follow-up resources on completion replies.
	FollowUpResources []FollowUpResource `json:"follow_up_resources,omitempty"`
}

// IsTerminal reports whether this reply ends the flow.
func (r *Reply) IsTerminal() bool {
	return r.FlowCompleted || r.FlowType == FlowTypeCrisisOverride
}

// Outcome is the immutable snapshot written when a flow reaches a terminal state.
type Outcome struct {
	SessionID            string                `json:"session_id"`
	UserID               string                `json:"user_id"`
	Scenario             ScenarioID            `json:"scenario"`
	FlowName             string                `json:"flow_name"`
	Status               CompletionStatus      `json:"status"`
	StartedAt            time.Time             `json:"started_at"`
	EndedAt              time.Time             `json:"ended_at"`
	DurationSeconds      float64               `json:"duration_seconds"`
	CompletionRate       float64               `json:"completion_rate"`
	EffectivenessRatings []EffectivenessRating `json:"effectiveness_ratings,omitempty"`
	SafetyFlags          []string              `json:"safety_flags,omitempty"`
	InterventionsUsed    []string              `json:"interventions_used,omitempty"`
	ContentRetrievals    int                   `json:"content_retrievals"`
	Success              bool                  `json:"success"`
}

// UserStats aggregates a user's stored outcomes.
type UserStats struct {
	TotalSessions      int     `json:"total_sessions"`
	CompletedSessions  int     `json:"completed_sessions"`
	AvgCompletionRate  float64 `json:"avg_completion_rate"`
	SuccessRate        float64 `json:"success_rate"`
	TotalSafetyFlags   int     `json:"total_safety_flags"`
	AvgDurationSeconds float64 `json:"avg_duration_seconds"`
}

// ComputeUserStats aggregates outcome snapshots. An empty history yields the
// zero value.
func ComputeUserStats(outcomes []Outcome) UserStats {
	stats := UserStats{TotalSessions: len(outcomes)}
	if len(outcomes) == 0 {
		return stats
	}
	var successes int
	for _, out := range outcomes {
		if out.Status == StatusCompleted {
			stats.CompletedSessions++
		}
		if out.Success {
			successes++
		}
		stats.AvgCompletionRate += out.CompletionRate
		stats.AvgDurationSeconds += out.DurationSeconds
		stats.TotalSafetyFlags += len(out.SafetyFlags)
	}
	n := float64(len(outcomes))
	stats.AvgCompletionRate /= n
	stats.AvgDurationSeconds /= n
	stats.SuccessRate = float64(successes) / n
	return stats
}

// FlowStatus is a read-only snapshot of an active flow for external monitoring.
type FlowStatus struct {
	Scenario             ScenarioID            `json:"scenario"`
	FlowName             string                `json:"flow_name"`
	Intensity            Intensity             `json:"intensity"`
	CurrentStep          int                   `json:"current_step"`
	TotalSteps           int                   `json:"total_steps"`
	CurrentIntervention  string                `json:"current_intervention"`
	DurationSeconds      float64               `json:"duration_seconds"`
	CompletionRate       float64               `json:"completion_rate"`
	SafetyFlags          []string              `json:"safety_flags,omitempty"`
	EffectivenessRatings []EffectivenessRating `json:"effectiveness_ratings,omitempty"`
}

// StartContext carries routing signals and the initial user text into flow start.
type StartContext struct {
	Text          string                 `json:"text,omitempty"`
	EmotionScores map[string]float64     `json:"emotion_scores,omitempty"`
	IntentScores  map[ScenarioID]float64 `json:"intent_scores,omitempty"`
	Intensity     Intensity              `json:"intensity,omitempty"`
	Metadata      map[string]string      `json:"metadata,omitempty"`
}

// ChatRequest is the transport request for the combined chat endpoint.
type ChatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// Validate performs validation on a ChatRequest.
func (r *ChatRequest) Validate() error {
	if r.UserID == "" {
		return ErrEmptyUserID
	}
	if len(r.UserID) > MaxUserIDLength {
		return ErrUserIDTooLong
	}
	if r.Message == "" {
		return ErrEmptyMessage
	}
	if len(r.Message) > MaxUserMessageLength {
		return ErrMessageTooLong
	}
	return nil
}

// StartFlowRequest asks the registry to start a named flow for a user.
type StartFlowRequest struct {
	UserID   string        `json:"user_id"`
	FlowName string        `json:"flow_name"`
	Context  *StartContext `json:"context,omitempty"`
}

// Validate performs validation on a StartFlowRequest.
func (r *StartFlowRequest) Validate() error {
	if r.UserID == "" {
		return ErrEmptyUserID
	}
	if len(r.UserID) > MaxUserIDLength {
		return ErrUserIDTooLong
	}
	if r.FlowName == "" {
		return ErrEmptyFlowName
	}
	return nil
}

// ContinueFlowRequest advances a user's active flow with new input.
type ContinueFlowRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// Validate performs validation on a ContinueFlowRequest.
func (r *ContinueFlowRequest) Validate() error {
	return (&ChatRequest{UserID: r.UserID, Message: r.Message}).Validate()
}
