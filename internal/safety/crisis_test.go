package safety

import "testing"

func TestAssess_HighRisk(t *testing.T) {
	cases := []struct {
		text     string
		category string
	}{
		{"I want to end my life", "suicidal_ideation"},
		{"sometimes I just WANT TO DIE", "suicidal_ideation"},
		{"I've been thinking about suicide", "suicidal_ideation"},
		{"I might hurt myself tonight", "self_harm"},
		{"everything is hopeless, nothing left", "hopelessness"},
		{"I just want to end it all", "hopelessness"},
	}
	for _, c := range cases {
		a := Assess(c.text)
		if a.Level != LevelHigh {
			t.Errorf("Assess(%q) level = %s, want high", c.text, a.Level)
		}
		found := false
		for _, cat := range a.Categories {
			if cat == c.category {
				found = true
			}
		}
		if !found {
			t.Errorf("Assess(%q) categories = %v, want to include %s", c.text, a.Categories, c.category)
		}
	}
}

func TestAssess_MediumRisk(t *testing.T) {
	a := Assess("I'm so overwhelmed, I can't take it anymore")
	if a.Level != LevelMedium {
		t.Errorf("level = %s, want medium", a.Level)
	}
	if len(a.Categories) != 1 || a.Categories[0] != "severe_distress" {
		t.Errorf("categories = %v, want [severe_distress]", a.Categories)
	}
}

func TestAssess_HighOverridesMedium(t *testing.T) {
	a := Assess("I'm overwhelmed and I want to die")
	if a.Level != LevelHigh {
		t.Errorf("level = %s, want high when both tiers match", a.Level)
	}
}

func TestAssess_None(t *testing.T) {
	cases := []string{
		"I can't breathe, my heart is racing",
		"I don't know what to do about this decision",
		"",
		"feeling a bit anxious before my exam tomorrow",
	}
	for _, text := range cases {
		if a := Assess(text); a.IsCrisis() {
			t.Errorf("Assess(%q) = %v, want none", text, a)
		}
	}
}

func TestAssess_WholeWordOnly(t *testing.T) {
	// "suicide" embedded inside another word must not match.
	if a := Assess("the suicidesquad movie was fun"); a.IsCrisis() {
		t.Errorf("partial word matched: %v", a)
	}
}
