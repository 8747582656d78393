// Package classify provides the routing signals consumed upstream of flow
// start: keyword-based intent scoring, emotion estimation, and the scenario
// router that combines them.
package classify

import (
	"regexp"
	"sort"

	"github.com/StillwaterLabs/SteadyPath/internal/models"
)

// Keyword weights: primary phrases are strong scenario indicators, secondary
// phrases are supporting evidence.
const (
	primaryWeight   = 2.0
	secondaryWeight = 1.0
)

type scenarioKeywords struct {
	primary   []string
	secondary []string
}

var intentKeywords = map[models.ScenarioID]scenarioKeywords{
	models.ScenarioPanic: {
		primary:   []string{"racing heart", "heart racing", "can't breathe", "cannot breathe", "dizzy", "trembling", "shaking", "chest tight", "palpitations"},
		secondary: []string{"panic", "scared", "terrified", "overwhelmed", "nauseous", "sweating", "hyperventilating"},
	},
	models.ScenarioSleep: {
		primary:   []string{"can't sleep", "cannot sleep", "thoughts won't stop", "racing mind", "racing thoughts", "lying awake"},
		secondary: []string{"insomnia", "restless", "tossing turning", "mind racing", "overthinking", "ruminating", "bedtime"},
	},
	models.ScenarioPreEvent: {
		primary:   []string{"interview", "exam", "test", "presentation", "meeting", "tomorrow", "next week"},
		secondary: []string{"nervous", "worried about", "preparing for", "upcoming", "performance", "evaluation", "speech"},
	},
	models.ScenarioIsolation: {
		primary:   []string{"alone", "lonely", "no one to talk to", "nobody understands", "isolated", "by myself"},
		secondary: []string{"abandoned", "disconnected", "empty", "friendless", "solitary", "withdrawn"},
	},
	models.ScenarioUncertainty: {
		primary:   []string{"waiting for", "don't know", "what if", "uncertain", "unknown", "unclear"},
		secondary: []string{"confused", "unsure", "doubtful", "ambiguous", "unpredictable", "worrying about"},
	},
	models.ScenarioDecisionMaking: {
		primary:   []string{"don't know what to", "can't decide", "cannot decide", "choices", "options", "confused about"},
		secondary: []string{"indecisive", "torn between", "struggling with", "difficulty choosing", "overwhelmed by options"},
	},
	models.ScenarioPhysicalTriggers: {
		primary:   []string{"caffeine", "tired", "exhausted", "crowded", "noisy", "loud", "bright lights"},
		secondary: []string{"stimulants", "coffee", "energy drink", "fatigue", "overstimulated", "sensory overload"},
	},
}

type intentPattern struct {
	re     *regexp.Regexp
	weight float64
}

// IntentScorer scores free text against weighted scenario keyword lists.
type IntentScorer struct {
	patterns map[models.ScenarioID][]intentPattern
}

// NewIntentScorer compiles keyword patterns for all scenarios.
func NewIntentScorer() *IntentScorer {
	patterns := make(map[models.ScenarioID][]intentPattern, len(intentKeywords))
	for scenario, kw := range intentKeywords {
		var ps []intentPattern
		for _, phrase := range kw.primary {
			ps = append(ps, intentPattern{compileKeyword(phrase), primaryWeight})
		}
		for _, phrase := range kw.secondary {
			ps = append(ps, intentPattern{compileKeyword(phrase), secondaryWeight})
		}
		patterns[scenario] = ps
	}
	return &IntentScorer{patterns: patterns}
}

func compileKeyword(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
}

// Score returns normalized 0..1 confidence scores per scenario. The map is
// empty when no keyword matched.
func (s *IntentScorer) Score(text string) map[models.ScenarioID]float64 {
	if text == "" {
		return map[models.ScenarioID]float64{}
	}
	raw := make(map[models.ScenarioID]float64)
	for scenario, ps := range s.patterns {
		for _, p := range ps {
			if n := len(p.re.FindAllStringIndex(text, -1)); n > 0 {
				raw[scenario] += float64(n) * p.weight
			}
		}
	}
	if len(raw) == 0 {
		return raw
	}
	max := 0.0
	for _, v := range raw {
		if v > max {
			max = v
		}
	}
	for k, v := range raw {
		raw[k] = v / max
	}
	return raw
}

// Top returns the scenario with the highest score. The second return value
// is false when no scenario scored at all.
func (s *IntentScorer) Top(text string) (models.ScenarioID, float64, bool) {
	scores := s.Score(text)
	if len(scores) == 0 {
		return "", 0, false
	}
	type kv struct {
		scenario models.ScenarioID
		score    float64
	}
	sorted := make([]kv, 0, len(scores))
	for k, v := range scores {
		sorted = append(sorted, kv{k, v})
	}
	// Deterministic tie-break by scenario id.
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].score != sorted[j].score {
			return sorted[i].score > sorted[j].score
		}
		return sorted[i].scenario < sorted[j].scenario
	})
	return sorted[0].scenario, sorted[0].score, true
}
