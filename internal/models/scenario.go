// Package models defines flow and scenario type definitions to avoid circular imports.
package models

import (
	"sort"
	"strings"
)

// ScenarioID identifies one of the fixed anxiety scenarios.
type ScenarioID string

// Intensity is the coarse severity tier derived from emotion scores.
type Intensity string

// CompletionStatus tracks the lifecycle state of a flow instance.
type CompletionStatus string

// StepKind classifies what a flow step does.
type StepKind string

// Canonical scenario constants. The engine only ever sees these; alias
// strings are resolved at the API boundary via ResolveScenario.
const (
	ScenarioPanic            ScenarioID = "panic"
	ScenarioSleep            ScenarioID = "sleep"
	ScenarioPreEvent         ScenarioID = "pre_event"
	ScenarioIsolation        ScenarioID = "isolation"
	ScenarioUncertainty      ScenarioID = "uncertainty"
	ScenarioDecisionMaking   ScenarioID = "decision_making"
	ScenarioPhysicalTriggers ScenarioID = "physical_triggers"
	ScenarioGeneralAnxiety   ScenarioID = "general_anxiety"
	ScenarioCrisis           ScenarioID = "crisis"
)

// Intensity constants.
const (
	IntensityLow      Intensity = "low"
	IntensityMedium   Intensity = "medium"
	IntensityHigh     Intensity = "high"
	IntensityVariable Intensity = "variable"
	IntensityCrisis   Intensity = "crisis"
)

// Completion status constants.
const (
	StatusInProgress     CompletionStatus = "in_progress"
	StatusCompleted      CompletionStatus = "completed"
	StatusCrisisOverride CompletionStatus = "crisis_override"
	StatusAbandoned      CompletionStatus = "abandoned"
)

// Step kind constants.
const (
	StepAssessment         StepKind = "assessment"
	StepReassurance        StepKind = "reassurance"
	StepEducation          StepKind = "education"
	StepTechnique          StepKind = "technique"
	StepEffectivenessCheck StepKind = "effectiveness_check"
	StepSafetyCheck        StepKind = "safety_check"
)

// FlowTypeCrisisOverride tags crisis replies regardless of originating scenario.
const FlowTypeCrisisOverride = "crisis_override"

// scenarioAliases maps the historical flow-name aliases onto canonical
// scenario ids. Canonical ids themselves also resolve.
var scenarioAliases = map[string]ScenarioID{
	"acute_anxiety_flow":          ScenarioPanic,
	"panic_crisis_flow":           ScenarioPanic,
	"panic_breathing_flow":        ScenarioPanic,
	"panic_flow":                  ScenarioPanic,
	"nighttime_flow":              ScenarioSleep,
	"sleep_flow":                  ScenarioSleep,
	"sleep_hygiene_flow":          ScenarioSleep,
	"insomnia_flow":               ScenarioSleep,
	"pre_event_flow":              ScenarioPreEvent,
	"pre_event_nervousness_flow":  ScenarioPreEvent,
	"performance_anxiety_flow":    ScenarioPreEvent,
	"event_anxiety_flow":          ScenarioPreEvent,
	"isolation_flow":              ScenarioIsolation,
	"loneliness_flow":             ScenarioIsolation,
	"social_anxiety_flow":         ScenarioIsolation,
	"connection_flow":             ScenarioIsolation,
	"uncertainty_flow":            ScenarioUncertainty,
	"worry_flow":                  ScenarioUncertainty,
	"anticipatory_anxiety_flow":   ScenarioUncertainty,
	"unknown_flow":                ScenarioUncertainty,
	"decision_making_flow":        ScenarioDecisionMaking,
	"choice_paralysis_flow":       ScenarioDecisionMaking,
	"indecision_flow":             ScenarioDecisionMaking,
	"decision_flow":               ScenarioDecisionMaking,
	"physical_triggers_flow":      ScenarioPhysicalTriggers,
	"somatic_anxiety_flow":        ScenarioPhysicalTriggers,
	"environmental_triggers_flow": ScenarioPhysicalTriggers,
	"body_anxiety_flow":           ScenarioPhysicalTriggers,
	"general_anxiety_flow":        ScenarioGeneralAnxiety,
	"general_flow":                ScenarioGeneralAnxiety,
}

// Scenarios returns the canonical scenario ids that have a flow definition.
func Scenarios() []ScenarioID {
	return []ScenarioID{
		ScenarioPanic,
		ScenarioSleep,
		ScenarioPreEvent,
		ScenarioIsolation,
		ScenarioUncertainty,
		ScenarioDecisionMaking,
		ScenarioPhysicalTriggers,
		ScenarioGeneralAnxiety,
	}
}

// IsValidScenario reports whether id is a canonical scenario with a flow definition.
func IsValidScenario(id ScenarioID) bool {
	for _, s := range Scenarios() {
		if s == id {
			return true
		}
	}
	return false
}

// ResolveScenario maps a requested flow name (canonical id or alias) onto a
// canonical scenario id. The second return value is false when the name is
// unknown.
func ResolveScenario(name string) (ScenarioID, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if IsValidScenario(ScenarioID(trimmed)) {
		return ScenarioID(trimmed), true
	}
	if id, ok := scenarioAliases[trimmed]; ok {
		return id, true
	}
	return "", false
}

// KnownFlowNames returns every accepted flow name: canonical ids plus aliases.
func KnownFlowNames() []string {
	names := make([]string, 0, len(scenarioAliases)+len(Scenarios()))
	for _, s := range Scenarios() {
		names = append(names, string(s))
	}
	aliases := make([]string, 0, len(scenarioAliases))
	for alias := range scenarioAliases {
		aliases = append(aliases, alias)
	}
	// Sorted so listings and suggestions are stable across runs.
	sort.Strings(aliases)
	return append(names, aliases...)
}

// SuggestFlowNames computes suggested alternatives for an unknown flow name
// by simple keyword overlap on underscore-separated tokens.
func SuggestFlowNames(requested string, limit int) []string {
	tokens := strings.Split(strings.ToLower(strings.TrimSpace(requested)), "_")
	tokenSet := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if t != "" && t != "flow" {
			tokenSet[t] = true
		}
	}
	var suggestions []string
	for _, name := range KnownFlowNames() {
		for _, t := range strings.Split(name, "_") {
			if tokenSet[t] {
				suggestions = append(suggestions, name)
				break
			}
		}
		if limit > 0 && len(suggestions) >= limit {
			break
		}
	}
	return suggestions
}

// IntensityFromScore derives an intensity tier from the maximum emotion score
// using the fixed routing thresholds.
func IntensityFromScore(score float64) Intensity {
	switch {
	case score >= 0.8:
		return IntensityHigh
	case score >= 0.5:
		return IntensityMedium
	default:
		return IntensityLow
	}
}
