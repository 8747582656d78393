package genai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/StillwaterLabs/SteadyPath/internal/content"
	"github.com/StillwaterLabs/SteadyPath/internal/models"
)

type fakeGenerator struct {
	out string
	err error
}

func (f *fakeGenerator) GeneratePrompt(_ context.Context, _, _ string) (string, error) {
	return f.out, f.err
}

func newTestEnhancer(gen generator) *Enhancer {
	return &Enhancer{base: content.NewLibrary(), gen: gen, timeout: time.Second}
}

func TestEnhancerRewritesContent(t *testing.T) {
	e := newTestEnhancer(&fakeGenerator{out: "rewritten technique"})
	got := e.Technique(models.ScenarioPanic, models.IntensityHigh, "breathing")
	if got != "rewritten technique" {
		t.Errorf("Technique = %q, want rewritten output", got)
	}
}

func TestEnhancerFallsBackOnError(t *testing.T) {
	lib := content.NewLibrary()
	e := newTestEnhancer(&fakeGenerator{err: errors.New("api down")})
	want := lib.Education(models.ScenarioSleep, "20 minute rule")
	if got := e.Education(models.ScenarioSleep, "20 minute rule"); got != want {
		t.Errorf("Education on error = %q, want base content %q", got, want)
	}
}

func TestEnhancerFallsBackOnEmptyOutput(t *testing.T) {
	lib := content.NewLibrary()
	e := newTestEnhancer(&fakeGenerator{out: "  \n"})
	want := lib.Reassurance(models.ScenarioPanic, 0.9)
	if got := e.Reassurance(models.ScenarioPanic, 0.9); got != want {
		t.Errorf("Reassurance on empty output = %q, want base content", got)
	}
}

func TestEnhancerCrisisSupportBypassesGeneration(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("api down")}
	e := newTestEnhancer(gen)
	if len(e.CrisisSupport()) == 0 {
		t.Error("crisis resources must pass through even when generation fails")
	}
}
