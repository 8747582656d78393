// Package content supplies scenario-aware therapeutic content: techniques,
// psychoeducation, and reassurance strings keyed by scenario and intensity.
//
// The flow engine treats every lookup as best-effort: an empty string is a
// valid result and must never fail a turn.
package content

import "github.com/StillwaterLabs/SteadyPath/internal/models"

// Source is the content retrieval boundary consumed by the flow engine.
// Implementations are expected to apply their own bounded timeouts and
// return a usable fallback string on failure.
type Source interface {
	// Technique returns an intervention technique for a scenario at the
	// given intensity. The topic hint narrows the technique family
	// (breathing, grounding, visualization, ...) and may be empty.
	Technique(scenario models.ScenarioID, intensity models.Intensity, topic string) string

	// Education returns psychoeducation content for a scenario. The topic
	// may be empty, in which case general psychoeducation is returned.
	Education(scenario models.ScenarioID, topic string) string

	// Reassurance returns a supportive statement for a scenario scaled by
	// a 0..1 confidence value.
	Reassurance(scenario models.ScenarioID, confidence float64) string

	// CrisisSupport returns additional crisis/safety resources. The core
	// resource list never depends on this call succeeding.
	CrisisSupport() []models.CrisisResource
}

// reassuranceBucket maps a 0..1 confidence value onto an intensity tier.
func reassuranceBucket(confidence float64) models.Intensity {
	switch {
	case confidence >= 0.7:
		return models.IntensityHigh
	case confidence >= 0.4:
		return models.IntensityMedium
	default:
		return models.IntensityLow
	}
}
