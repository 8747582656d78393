// Package flow implements the conversation flow engine: declarative step
// definitions per scenario, per-user flow instances, and the engine that
// advances an instance through its steps with crisis screening on every turn.
package flow

import (
	"log/slog"

	"github.com/StillwaterLabs/SteadyPath/internal/models"
)

// ContentKind selects what a branch rule fetches from the content source.
type ContentKind string

// Content kind constants. ContentNone means the rule's template is fully static.
const (
	ContentNone        ContentKind = ""
	ContentTechnique   ContentKind = "technique"
	ContentEducation   ContentKind = "education"
	ContentReassurance ContentKind = "reassurance"
)

// ContentRequest describes the content to substitute for the {content}
// placeholder in a rule template.
type ContentRequest struct {
	Kind       ContentKind
	Topic      string           // technique family or education topic
	Intensity  models.Intensity // technique intensity; empty means the instance's intensity
	Confidence float64          // reassurance confidence 0..1
}

// StepSpec describes one step of a flow definition.
type StepSpec struct {
	Intervention  string
	Kind          models.StepKind
	RequiresInput bool
}

// BranchRule is one data-driven branch predicate for a step. Rules are
// evaluated in order against the lowercased, trimmed input; the first rule
// whose indicator list matches wins. An empty indicator list always matches
// and serves as the step's default.
type BranchRule struct {
	Indicators []string // whole-word indicator phrases, lowercase
	Template   string   // reply message; {content} is replaced per Content
	Content    ContentRequest
	Advance    bool
	Signals    map[string]bool // informational reply signals, not control flow

	// SafetyFlag, when non-empty, is appended to the instance's safety
	// flags when this rule fires.
	SafetyFlag string
	// SafetyConcern marks the reply without flagging the instance.
	SafetyConcern bool
	// IncludeCrisisResources attaches the core crisis resource list to the
	// reply without tearing the flow down.
	IncludeCrisisResources bool
}

// RatingBand maps an inclusive rating range onto a response template; the
// {rating} placeholder is replaced with the parsed value.
type RatingBand struct {
	Min, Max int
	Template string
}

// RatingCheck configures an effectiveness-check step: parse a 1..10 rating
// from free text, answer from the matching band, or reprompt without
// advancing when no rating is parseable. Ratings are never fabricated.
type RatingCheck struct {
	Bands    []RatingBand
	Reprompt string
}

// Step couples a step spec with its branch logic. Exactly one of Rules or
// Rating drives the step: effectiveness checks carry a RatingCheck, all
// other steps carry an ordered rule list ending in a default rule.
type Step struct {
	Spec   StepSpec
	Rules  []BranchRule
	Rating *RatingCheck
}

// Definition is the declarative, ordered step sequence for one scenario.
// Definitions are never mutated after construction.
type Definition struct {
	Name              string
	Scenario          models.ScenarioID
	DefaultIntensity  models.Intensity
	UsesContentSource bool

	// Opening, when non-empty, overrides step-0 rule evaluation for the
	// very first reply of a freshly started flow.
	Opening        string
	OpeningContent ContentRequest

	Steps     []Step
	Resources []models.FollowUpResource
}

// TotalSteps returns the number of steps in the definition.
func (d *Definition) TotalSteps() int {
	return len(d.Steps)
}

// Registry holds the flow definitions keyed by canonical scenario id.
type Registry struct {
	defs map[models.ScenarioID]*Definition
}

// NewRegistry builds the registry with all scenario definitions.
func NewRegistry() *Registry {
	defs := map[models.ScenarioID]*Definition{
		models.ScenarioPanic:            panicDefinition(),
		models.ScenarioSleep:            sleepDefinition(),
		models.ScenarioPreEvent:         preEventDefinition(),
		models.ScenarioIsolation:        isolationDefinition(),
		models.ScenarioUncertainty:      uncertaintyDefinition(),
		models.ScenarioDecisionMaking:   decisionMakingDefinition(),
		models.ScenarioPhysicalTriggers: physicalTriggersDefinition(),
		models.ScenarioGeneralAnxiety:   generalAnxietyDefinition(),
	}
	slog.Debug("Flow registry initialized", "definitions", len(defs))
	return &Registry{defs: defs}
}

// Get returns the definition for a canonical scenario id.
func (r *Registry) Get(scenario models.ScenarioID) (*Definition, bool) {
	d, ok := r.defs[scenario]
	return d, ok
}

// Scenarios lists the scenario ids with registered definitions.
func (r *Registry) Scenarios() []models.ScenarioID {
	ids := make([]models.ScenarioID, 0, len(r.defs))
	for _, s := range models.Scenarios() {
		if _, ok := r.defs[s]; ok {
			ids = append(ids, s)
		}
	}
	return ids
}
