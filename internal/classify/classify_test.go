package classify

import (
	"testing"

	"github.com/StillwaterLabs/SteadyPath/internal/models"
)

func TestIntentScorer_PanicKeywords(t *testing.T) {
	s := NewIntentScorer()
	scores := s.Score("I can't breathe, heart racing")
	if scores[models.ScenarioPanic] != 1.0 {
		t.Errorf("panic score = %v, want 1.0 (normalized top)", scores[models.ScenarioPanic])
	}
	top, _, ok := s.Top("I can't breathe, heart racing")
	if !ok || top != models.ScenarioPanic {
		t.Errorf("top = %v, want panic", top)
	}
}

func TestIntentScorer_NoMatch(t *testing.T) {
	s := NewIntentScorer()
	if scores := s.Score("hello there"); len(scores) != 0 {
		t.Errorf("expected empty scores, got %v", scores)
	}
	if _, _, ok := s.Top("hello there"); ok {
		t.Error("expected no top scenario")
	}
}

func TestIntentScorer_PrimaryOutweighsSecondary(t *testing.T) {
	s := NewIntentScorer()
	// "can't sleep" is a primary sleep keyword; "nervous" is secondary pre_event.
	top, _, ok := s.Top("I'm nervous and I can't sleep")
	if !ok || top != models.ScenarioSleep {
		t.Errorf("top = %v, want sleep", top)
	}
}

func TestKeywordEmotion_Scores(t *testing.T) {
	e := NewKeywordEmotion()
	scores := e.Predict("I'm terrified and my heart racing won't stop")
	if scores["fear"] < 0.8 {
		t.Errorf("fear score = %v, want >= 0.8 for strong match", scores["fear"])
	}
	scores = e.Predict("just a bit worried")
	if scores["fear"] != 0.55 {
		t.Errorf("fear score = %v, want 0.55 for moderate match", scores["fear"])
	}
	if len(e.Predict("the weather is fine")) != 0 {
		t.Error("expected no emotion scores for neutral text")
	}
}

func TestRouter_PanicHighIntensity(t *testing.T) {
	r := NewRouter(NewIntentScorer(), NewKeywordEmotion())
	res := r.Route("I'm panicking, I can't breathe and my heart racing won't slow down")
	if res.Scenario != models.ScenarioPanic {
		t.Errorf("scenario = %v, want panic", res.Scenario)
	}
	if res.Intensity != models.IntensityHigh {
		t.Errorf("intensity = %v, want high", res.Intensity)
	}
	if res.FallbackUsed {
		t.Error("fallback should not be used")
	}
}

func TestRouter_Fallback(t *testing.T) {
	r := NewRouter(NewIntentScorer(), NewKeywordEmotion())
	res := r.Route("I just feel off today")
	if res.Scenario != models.ScenarioGeneralAnxiety {
		t.Errorf("scenario = %v, want general_anxiety", res.Scenario)
	}
	if res.Intensity != models.IntensityVariable {
		t.Errorf("intensity = %v, want variable", res.Intensity)
	}
	if !res.FallbackUsed {
		t.Error("fallback flag should be set")
	}
}

func TestIntensityThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  models.Intensity
	}{
		{0.9, models.IntensityHigh},
		{0.8, models.IntensityHigh},
		{0.79, models.IntensityMedium},
		{0.5, models.IntensityMedium},
		{0.49, models.IntensityLow},
		{0, models.IntensityLow},
	}
	for _, c := range cases {
		if got := models.IntensityFromScore(c.score); got != c.want {
			t.Errorf("IntensityFromScore(%v) = %v, want %v", c.score, got, c.want)
		}
	}
}
