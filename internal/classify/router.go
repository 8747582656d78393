package classify

import (
	"log/slog"

	"github.com/StillwaterLabs/SteadyPath/internal/models"
)

// RouteResult is the routing decision for one inbound message.
type RouteResult struct {
	Scenario      models.ScenarioID
	Intensity     models.Intensity
	IntentScores  map[models.ScenarioID]float64
	EmotionScores map[string]float64
	FallbackUsed  bool
}

// Router selects the initial scenario and intensity for a message: the
// scenario with the highest intent score, and intensity from the maximum
// emotion score using fixed thresholds. Crisis screening happens separately
// and before routing.
type Router struct {
	intent  *IntentScorer
	emotion EmotionClassifier
}

// NewRouter creates a Router from an intent scorer and an emotion classifier.
func NewRouter(intent *IntentScorer, emotion EmotionClassifier) *Router {
	return &Router{intent: intent, emotion: emotion}
}

// Route picks a scenario and intensity for the text. When no intent keyword
// matches, the general anxiety fallback is selected with variable intensity.
func (r *Router) Route(text string) RouteResult {
	intentScores := r.intent.Score(text)
	emotionScores := r.emotion.Predict(text)

	result := RouteResult{
		IntentScores:  intentScores,
		EmotionScores: emotionScores,
	}

	top, _, ok := r.intent.Top(text)
	if !ok {
		result.Scenario = models.ScenarioGeneralAnxiety
		result.Intensity = models.IntensityVariable
		result.FallbackUsed = true
		slog.Debug("Router fallback to general anxiety", "text_length", len(text))
		return result
	}

	maxEmotion := 0.0
	for _, v := range emotionScores {
		if v > maxEmotion {
			maxEmotion = v
		}
	}
	result.Scenario = top
	result.Intensity = models.IntensityFromScore(maxEmotion)
	slog.Debug("Router selected scenario", "scenario", top, "intensity", result.Intensity, "max_emotion", maxEmotion)
	return result
}

// StartContext builds the flow start context for a routed message.
func (r RouteResult) StartContext(text string) *models.StartContext {
	return &models.StartContext{
		Text:          text,
		EmotionScores: r.EmotionScores,
		IntentScores:  r.IntentScores,
		Intensity:     r.Intensity,
	}
}
