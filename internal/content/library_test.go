package content

import (
	"testing"

	"github.com/StillwaterLabs/SteadyPath/internal/models"
)

func TestLibrary_TechniqueFallbacks(t *testing.T) {
	lib := NewLibrary()

	// Topic-specific entry.
	got := lib.Technique(models.ScenarioPanic, models.IntensityHigh, "breathing")
	if got == "" {
		t.Fatal("expected breathing technique for panic")
	}

	// Unknown topic falls back to the scenario default.
	def := lib.Technique(models.ScenarioPanic, models.IntensityHigh, "nonexistent_topic")
	if def == "" {
		t.Fatal("expected scenario default technique")
	}
	if def == got {
		t.Error("fallback should differ from the topic-specific entry")
	}

	// Unknown scenario still returns something usable.
	if lib.Technique(models.ScenarioID("bogus"), models.IntensityLow, "") == "" {
		t.Error("generic fallback must never be empty")
	}
}

func TestLibrary_ReassuranceBuckets(t *testing.T) {
	lib := NewLibrary()
	high := lib.Reassurance(models.ScenarioIsolation, 0.9)
	med := lib.Reassurance(models.ScenarioIsolation, 0.5)
	low := lib.Reassurance(models.ScenarioIsolation, 0.1)
	if high == "" || med == "" || low == "" {
		t.Fatal("reassurance must never be empty")
	}
	if high == med || med == low {
		t.Error("confidence buckets should select distinct tiers")
	}
}

func TestLibrary_EducationTopics(t *testing.T) {
	lib := NewLibrary()
	rule := lib.Education(models.ScenarioSleep, "20 minute rule")
	general := lib.Education(models.ScenarioSleep, "")
	if rule == "" || general == "" {
		t.Fatal("education must never be empty")
	}
	if rule == general {
		t.Error("topic entry should differ from general entry")
	}
}

func TestLibrary_AllScenariosCovered(t *testing.T) {
	lib := NewLibrary()
	for _, s := range models.Scenarios() {
		if lib.Reassurance(s, 0.5) == "" {
			t.Errorf("no reassurance for %s", s)
		}
		if lib.Education(s, "") == "" {
			t.Errorf("no education for %s", s)
		}
		if lib.Technique(s, models.IntensityMedium, "") == "" {
			t.Errorf("no technique for %s", s)
		}
	}
}

func TestLibrary_CrisisSupport(t *testing.T) {
	lib := NewLibrary()
	if len(lib.CrisisSupport()) == 0 {
		t.Error("expected at least one extra crisis resource")
	}
}
