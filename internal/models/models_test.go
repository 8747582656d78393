package models

import (
	"errors"
	"sort"
	"strings"
	"testing"
	"time"
)

func TestChatRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     ChatRequest
		wantErr error
	}{
		{name: "valid", req: ChatRequest{UserID: "u1", Message: "hello"}},
		{name: "empty user", req: ChatRequest{Message: "hello"}, wantErr: ErrEmptyUserID},
		{name: "long user", req: ChatRequest{UserID: strings.Repeat("a", MaxUserIDLength+1), Message: "hello"}, wantErr: ErrUserIDTooLong},
		{name: "empty message", req: ChatRequest{UserID: "u1"}, wantErr: ErrEmptyMessage},
		{name: "long message", req: ChatRequest{UserID: "u1", Message: strings.Repeat("a", MaxUserMessageLength+1)}, wantErr: ErrMessageTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveScenario(t *testing.T) {
	tests := []struct {
		name string
		want ScenarioID
		ok   bool
	}{
		{name: "panic", want: ScenarioPanic, ok: true},
		{name: "panic_flow", want: ScenarioPanic, ok: true},
		{name: "insomnia_flow", want: ScenarioSleep, ok: true},
		{name: "choice_paralysis_flow", want: ScenarioDecisionMaking, ok: true},
		{name: "  Panic_Flow  ", want: ScenarioPanic, ok: true},
		{name: "unknown_thing", ok: false},
		{name: "", ok: false},
	}
	for _, tt := range tests {
		got, ok := ResolveScenario(tt.name)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ResolveScenario(%q) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestEveryAliasResolvesToValidScenario(t *testing.T) {
	for _, name := range KnownFlowNames() {
		id, ok := ResolveScenario(name)
		if !ok {
			t.Errorf("known name %q failed to resolve", name)
			continue
		}
		if !IsValidScenario(id) {
			t.Errorf("name %q resolved to invalid scenario %q", name, id)
		}
	}
}

func TestKnownFlowNamesDeterministic(t *testing.T) {
	first := KnownFlowNames()
	for i := 0; i < 5; i++ {
		again := KnownFlowNames()
		if len(again) != len(first) {
			t.Fatalf("length changed between calls: %d vs %d", len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("order changed between calls at %d: %q vs %q", j, again[j], first[j])
			}
		}
	}

	aliases := first[len(Scenarios()):]
	if !sort.StringsAreSorted(aliases) {
		t.Errorf("alias block not sorted: %v", aliases)
	}
}

func TestSuggestFlowNames(t *testing.T) {
	got := SuggestFlowNames("panic_attack_flow", 3)
	if len(got) == 0 {
		t.Fatal("expected suggestions for panic_attack_flow")
	}
	for _, name := range got {
		if !strings.Contains(name, "panic") {
			t.Errorf("suggestion %q does not share a token with the request", name)
		}
	}
	if len(SuggestFlowNames("zzzz", 3)) != 0 {
		t.Error("expected no suggestions for an unrelated name")
	}
}

func TestIntensityFromScore(t *testing.T) {
	tests := []struct {
		score float64
		want  Intensity
	}{
		{0.9, IntensityHigh},
		{0.8, IntensityHigh},
		{0.6, IntensityMedium},
		{0.5, IntensityMedium},
		{0.2, IntensityLow},
	}
	for _, tt := range tests {
		if got := IntensityFromScore(tt.score); got != tt.want {
			t.Errorf("IntensityFromScore(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestComputeUserStats(t *testing.T) {
	if stats := ComputeUserStats(nil); stats.TotalSessions != 0 {
		t.Errorf("empty history stats = %+v", stats)
	}

	outcomes := []Outcome{
		{Status: StatusCompleted, Success: true, CompletionRate: 1.0, DurationSeconds: 120},
		{Status: StatusAbandoned, CompletionRate: 0.5, DurationSeconds: 60, SafetyFlags: []string{"crisis_high"}},
	}
	stats := ComputeUserStats(outcomes)
	if stats.TotalSessions != 2 || stats.CompletedSessions != 1 {
		t.Errorf("session counts = %d/%d, want 2/1", stats.TotalSessions, stats.CompletedSessions)
	}
	if stats.SuccessRate != 0.5 {
		t.Errorf("success rate = %v, want 0.5", stats.SuccessRate)
	}
	if stats.AvgCompletionRate != 0.75 {
		t.Errorf("avg completion rate = %v, want 0.75", stats.AvgCompletionRate)
	}
	if stats.AvgDurationSeconds != 90 {
		t.Errorf("avg duration = %v, want 90", stats.AvgDurationSeconds)
	}
	if stats.TotalSafetyFlags != 1 {
		t.Errorf("total safety flags = %d, want 1", stats.TotalSafetyFlags)
	}
}

func TestCoreCrisisResources(t *testing.T) {
	resources := CoreCrisisResources()
	contacts := make(map[string]bool, len(resources))
	for _, res := range resources {
		contacts[res.Contact] = true
	}
	for _, want := range []string{"911", "988", "Text HOME to 741741"} {
		if !contacts[want] {
			t.Errorf("core resources missing contact %q", want)
		}
	}
}

func TestReplyIsTerminal(t *testing.T) {
	if (&Reply{}).IsTerminal() {
		t.Error("in-progress reply reported terminal")
	}
	if !(&Reply{FlowCompleted: true}).IsTerminal() {
		t.Error("completed reply not terminal")
	}
	if !(&Reply{FlowType: FlowTypeCrisisOverride}).IsTerminal() {
		t.Error("crisis override reply not terminal")
	}
}

func TestOutcomeDurationConsistency(t *testing.T) {
	start := time.Now().Add(-2 * time.Minute)
	end := start.Add(90 * time.Second)
	out := Outcome{StartedAt: start, EndedAt: end, DurationSeconds: end.Sub(start).Seconds()}
	if out.DurationSeconds != 90 {
		t.Errorf("duration = %v, want 90", out.DurationSeconds)
	}
}
