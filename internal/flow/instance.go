package flow

import (
	"time"

	"github.com/StillwaterLabs/SteadyPath/internal/models"
)

// ResponseRecord captures one screened user turn inside a flow.
type ResponseRecord struct {
	Input     string
	Timestamp time.Time
	Screened  bool
}

// Instance is the mutable per-user state of one running flow. Instances are
// not safe for concurrent use; the session registry serializes access per
// user. CurrentStep counts the steps already advanced past, so a fresh
// instance sits at step 0 while presenting step 1 to the user.
type Instance struct {
	Scenario    models.ScenarioID
	FlowName    string
	Intensity   models.Intensity
	CurrentStep int
	Responses   map[int]ResponseRecord
	Ratings     []models.EffectivenessRating
	SafetyFlags []string
	StartTime   time.Time
	Status      models.CompletionStatus

	// ContentRetrievals counts content source lookups made on behalf of
	// this instance, for outcome reporting.
	ContentRetrievals int

	def *Definition
}

func newInstance(def *Definition, intensity models.Intensity) *Instance {
	if intensity == "" {
		intensity = def.DefaultIntensity
	}
	return &Instance{
		Scenario:  def.Scenario,
		FlowName:  def.Name,
		Intensity: intensity,
		Responses: make(map[int]ResponseRecord),
		StartTime: time.Now(),
		Status:    models.StatusInProgress,
		def:       def,
	}
}

// Definition returns the immutable definition backing this instance.
func (in *Instance) Definition() *Definition {
	return in.def
}

// TotalSteps returns the step count of the backing definition.
func (in *Instance) TotalSteps() int {
	return len(in.def.Steps)
}

// Finished reports whether the instance has reached a terminal status.
func (in *Instance) Finished() bool {
	return in.Status != models.StatusInProgress
}

// CompletionRate is the fraction of steps advanced past, clamped to 1.0.
func (in *Instance) CompletionRate() float64 {
	total := in.TotalSteps()
	if total == 0 {
		return 0
	}
	done := in.CurrentStep
	if done > total {
		done = total
	}
	return float64(done) / float64(total)
}

func (in *Instance) recordResponse(text string) {
	in.Responses[in.CurrentStep] = ResponseRecord{
		Input:     text,
		Timestamp: time.Now(),
		Screened:  true,
	}
}

func (in *Instance) addSafetyFlag(flag string) {
	in.SafetyFlags = append(in.SafetyFlags, flag)
}

func (in *Instance) addRating(value int) {
	in.Ratings = append(in.Ratings, models.EffectivenessRating{
		Rating:     value,
		RecordedAt: time.Now(),
	})
}

// StepInfo builds the user-facing step position, 1-based and clamped so a
// completed flow reports its final step rather than one past the end.
func (in *Instance) StepInfo() models.StepInfo {
	total := in.TotalSteps()
	current := in.CurrentStep + 1
	if current > total {
		current = total
	}
	intervention := ""
	if in.CurrentStep < total {
		intervention = in.def.Steps[in.CurrentStep].Spec.Intervention
	} else if total > 0 {
		intervention = in.def.Steps[total-1].Spec.Intervention
	}
	return models.StepInfo{
		CurrentStep:      current,
		TotalSteps:       total,
		InterventionType: intervention,
	}
}

// Outcome assembles the immutable outcome snapshot for a finalized instance.
// Success requires a completion rate of at least 0.8 with no safety flags.
func (in *Instance) Outcome(sessionID, userID string, endedAt time.Time) models.Outcome {
	rate := in.CompletionRate()
	interventions := make([]string, 0, in.CurrentStep)
	for i := 0; i < in.CurrentStep && i < in.TotalSteps(); i++ {
		interventions = append(interventions, in.def.Steps[i].Spec.Intervention)
	}
	return models.Outcome{
		SessionID:            sessionID,
		UserID:               userID,
		Scenario:             in.Scenario,
		FlowName:             in.FlowName,
		Status:               in.Status,
		StartedAt:            in.StartTime,
		EndedAt:              endedAt,
		DurationSeconds:      endedAt.Sub(in.StartTime).Seconds(),
		CompletionRate:       rate,
		EffectivenessRatings: append([]models.EffectivenessRating(nil), in.Ratings...),
		SafetyFlags:          append([]string(nil), in.SafetyFlags...),
		InterventionsUsed:    interventions,
		ContentRetrievals:    in.ContentRetrievals,
		Success:              rate >= 0.8 && len(in.SafetyFlags) == 0,
	}
}

// FlowStatus builds the read-only status view served by the API.
func (in *Instance) FlowStatus() models.FlowStatus {
	info := in.StepInfo()
	return models.FlowStatus{
		Scenario:             in.Scenario,
		FlowName:             in.FlowName,
		Intensity:            in.Intensity,
		CurrentStep:          info.CurrentStep,
		TotalSteps:           info.TotalSteps,
		CurrentIntervention:  info.InterventionType,
		DurationSeconds:      time.Since(in.StartTime).Seconds(),
		CompletionRate:       in.CompletionRate(),
		SafetyFlags:          append([]string(nil), in.SafetyFlags...),
		EffectivenessRatings: append([]models.EffectivenessRating(nil), in.Ratings...),
	}
}
