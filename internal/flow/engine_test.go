package flow

import (
	"strings"
	"testing"

	"github.com/StillwaterLabs/SteadyPath/internal/content"
	"github.com/StillwaterLabs/SteadyPath/internal/models"
)

func newTestEngine() *Engine {
	return NewEngine(NewRegistry(), content.NewLibrary())
}

func mustStart(t *testing.T, e *Engine, scenario models.ScenarioID, ctx *models.StartContext) (*Instance, models.Reply) {
	t.Helper()
	inst, reply, err := e.Start(scenario, ctx)
	if err != nil {
		t.Fatalf("Start(%s) returned error: %v", scenario, err)
	}
	if inst == nil {
		t.Fatalf("Start(%s) returned nil instance: %s", scenario, reply.Message)
	}
	return inst, reply
}

func TestEngineStartPanic(t *testing.T) {
	e := newTestEngine()
	inst, reply := mustStart(t, e, models.ScenarioPanic, &models.StartContext{Text: "I can't breathe, my heart is racing"})

	if inst.CurrentStep != 0 {
		t.Errorf("fresh instance CurrentStep = %d, want 0", inst.CurrentStep)
	}
	if reply.StepInfo.CurrentStep != 1 {
		t.Errorf("opening reply step = %d, want 1", reply.StepInfo.CurrentStep)
	}
	if !reply.RequiresInput {
		t.Error("opening reply should require input")
	}
	if !strings.Contains(reply.Message, "Are you in a safe location?") {
		t.Errorf("opening reply missing safety question: %q", reply.Message)
	}
}

func TestEngineStartUnknownScenario(t *testing.T) {
	e := newTestEngine()
	if _, _, err := e.Start(models.ScenarioID("jazz"), nil); err != models.ErrUnknownScenario {
		t.Errorf("Start(unknown) error = %v, want ErrUnknownScenario", err)
	}
}

func TestEngineStartCrisisText(t *testing.T) {
	e := newTestEngine()
	inst, reply, err := e.Start(models.ScenarioPanic, &models.StartContext{Text: "I want to kill myself"})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if inst != nil {
		t.Fatal("crisis text at start must not create an instance")
	}
	if reply.FlowType != models.FlowTypeCrisisOverride {
		t.Errorf("flow_type = %q, want %q", reply.FlowType, models.FlowTypeCrisisOverride)
	}
	if !reply.ImmediateEscalation {
		t.Error("high-risk crisis must set immediate escalation")
	}
	assertCoreResources(t, reply)
}

func TestEngineAdvancesByOne(t *testing.T) {
	e := newTestEngine()
	inst, _ := mustStart(t, e, models.ScenarioPanic, nil)

	reply := e.Process(inst, "yes, I'm at home")
	if inst.CurrentStep != 1 {
		t.Errorf("CurrentStep after one turn = %d, want 1", inst.CurrentStep)
	}
	if reply.StepInfo.CurrentStep != 2 {
		t.Errorf("reply step = %d, want 2", reply.StepInfo.CurrentStep)
	}
	if inst.Responses[0].Input != "yes, I'm at home" {
		t.Error("turn input was not recorded against step 0")
	}
	if !inst.Responses[0].Screened {
		t.Error("recorded response must be marked screened")
	}
}

func TestEngineCrisisMidFlow(t *testing.T) {
	e := newTestEngine()
	inst, _ := mustStart(t, e, models.ScenarioSleep, nil)
	e.Process(inst, "about two hours now")

	reply := e.Process(inst, "honestly I just want to end it all")
	if reply.FlowType != models.FlowTypeCrisisOverride {
		t.Fatalf("flow_type = %q, want crisis override", reply.FlowType)
	}
	if inst.Status != models.StatusCrisisOverride {
		t.Errorf("instance status = %q, want crisis_override", inst.Status)
	}
	if !reply.DisableFreeForm {
		t.Error("crisis reply must disable free-form input")
	}
	if len(inst.SafetyFlags) == 0 {
		t.Error("crisis must flag the instance")
	}
	assertCoreResources(t, reply)
}

func assertCoreResources(t *testing.T, reply models.Reply) {
	t.Helper()
	contacts := make(map[string]bool)
	for _, r := range reply.CrisisResources {
		contacts[r.Contact] = true
	}
	for _, want := range []string{"911", "Text HOME to 741741", "988"} {
		if !contacts[want] {
			t.Errorf("crisis resources missing %q", want)
		}
	}
}

func TestEngineRatingStep(t *testing.T) {
	e := newTestEngine()
	inst, _ := mustStart(t, e, models.ScenarioPanic, nil)
	inst.CurrentStep = 6 // effectiveness assessment

	reply := e.Process(inst, "a bit better I think")
	if inst.CurrentStep != 6 {
		t.Errorf("unparseable rating advanced the step to %d", inst.CurrentStep)
	}
	if len(inst.Ratings) != 0 {
		t.Error("unparseable rating must never fabricate a value")
	}
	if !strings.Contains(reply.Message, "scale of 1-10") {
		t.Errorf("expected reprompt, got %q", reply.Message)
	}

	reply = e.Process(inst, "it's about a 3 now")
	if len(inst.Ratings) != 1 || inst.Ratings[0].Rating != 3 {
		t.Fatalf("ratings = %+v, want single rating of 3", inst.Ratings)
	}
	if !strings.Contains(reply.Message, "3/10") {
		t.Errorf("band message missing rating: %q", reply.Message)
	}
	if !reply.FlowCompleted {
		t.Error("final step should complete the flow")
	}
	if inst.Status != models.StatusCompleted {
		t.Errorf("status = %q, want completed", inst.Status)
	}
}

func TestEngineCompletionIdempotent(t *testing.T) {
	e := newTestEngine()
	inst, _ := mustStart(t, e, models.ScenarioPanic, nil)
	inst.CurrentStep = 6
	e.Process(inst, "2")

	before := inst.CurrentStep
	reply := e.Process(inst, "thanks")
	if !reply.FlowCompleted {
		t.Error("post-completion turn must return the completion reply")
	}
	if inst.CurrentStep != before {
		t.Errorf("post-completion turn mutated CurrentStep: %d -> %d", before, inst.CurrentStep)
	}
	if len(inst.Ratings) != 1 {
		t.Errorf("post-completion turn mutated ratings: %+v", inst.Ratings)
	}
}

func TestEngineOutOfRangeStepIsCompletion(t *testing.T) {
	e := newTestEngine()
	inst, _ := mustStart(t, e, models.ScenarioPanic, nil)
	inst.CurrentStep = 99

	reply := e.Process(inst, "hello")
	if !reply.FlowCompleted {
		t.Error("out-of-range step must be treated as completion")
	}
	if reply.StepInfo.CurrentStep != reply.StepInfo.TotalSteps {
		t.Errorf("completion step info = %d/%d, want final step", reply.StepInfo.CurrentStep, reply.StepInfo.TotalSteps)
	}
}

func TestEngineIsolationSafetyBranch(t *testing.T) {
	e := newTestEngine()
	inst, _ := mustStart(t, e, models.ScenarioIsolation, nil)
	e.Process(inst, "nobody ever calls me")

	if inst.CurrentStep != 1 {
		t.Fatalf("CurrentStep = %d, want 1", inst.CurrentStep)
	}
	reply := e.Process(inst, "yes")
	if inst.CurrentStep != 1 {
		t.Errorf("risk disclosure must hold the step, got %d", inst.CurrentStep)
	}
	if inst.Status != models.StatusInProgress {
		t.Errorf("risk disclosure must not tear down the flow, status = %q", inst.Status)
	}
	found := false
	for _, f := range inst.SafetyFlags {
		if f == "self_harm_risk_identified" {
			found = true
		}
	}
	if !found {
		t.Errorf("safety flags = %v, want self_harm_risk_identified", inst.SafetyFlags)
	}
	if !reply.SafetyConcern {
		t.Error("risk branch must mark the reply as a safety concern")
	}
	assertCoreResources(t, reply)
}

func TestEngineDecisionBranches(t *testing.T) {
	e := newTestEngine()
	inst, _ := mustStart(t, e, models.ScenarioDecisionMaking, nil)
	e.Process(inst, "whether to take the new job")

	reply := e.Process(inst, "I'm afraid of making the wrong choice")
	if !reply.Signals["perfectionism_identified"] {
		t.Errorf("signals = %v, want perfectionism_identified", reply.Signals)
	}

	// Time-limit step requires a concrete timeframe to advance.
	inst.CurrentStep = 5
	e.Process(inst, "I really don't know")
	if inst.CurrentStep != 5 {
		t.Errorf("vague answer advanced the time-limit step to %d", inst.CurrentStep)
	}
	reply = e.Process(inst, "by friday I guess")
	if inst.CurrentStep != 6 {
		t.Errorf("deadline answer should advance, CurrentStep = %d", inst.CurrentStep)
	}
	if !reply.Signals["deadline_set"] {
		t.Errorf("signals = %v, want deadline_set", reply.Signals)
	}
}

func TestEngineIndicatorWordBoundaries(t *testing.T) {
	tests := []struct {
		text   string
		phrase string
		want   bool
	}{
		{"i know it is fine", "no", false},
		{"no it is not", "no", true},
		{"i am not safe here", "not safe", true},
		{"i cannot do this", "can't", false},
		{"i can't do this", "can't", true},
		{"crowded trains", "crowd", false},
		{"the crowd was loud", "crowd", true},
	}
	for _, tt := range tests {
		if got := containsPhrase(tt.text, tt.phrase); got != tt.want {
			t.Errorf("containsPhrase(%q, %q) = %v, want %v", tt.text, tt.phrase, got, tt.want)
		}
	}
}

func TestEngineContentRetrievalsCounted(t *testing.T) {
	e := newTestEngine()
	inst, _ := mustStart(t, e, models.ScenarioPanic, nil)
	if inst.ContentRetrievals == 0 {
		t.Error("opening reply should have fetched reassurance content")
	}
	before := inst.ContentRetrievals
	e.Process(inst, "yes")
	if inst.ContentRetrievals <= before {
		t.Error("content-bearing step did not count its retrieval")
	}
}

func TestInstanceOutcomeSuccess(t *testing.T) {
	e := newTestEngine()
	inst, _ := mustStart(t, e, models.ScenarioGeneralAnxiety, nil)
	for _, msg := range []string{"feeling anxious", "ok", "done", "ok", "8"} {
		e.Process(inst, msg)
	}
	if inst.Status != models.StatusCompleted {
		t.Fatalf("status = %q, want completed", inst.Status)
	}

	out := inst.Outcome("sess-1", "user-1", inst.StartTime.Add(1))
	if out.CompletionRate != 1.0 {
		t.Errorf("completion rate = %v, want 1.0", out.CompletionRate)
	}
	if !out.Success {
		t.Errorf("completed flow with no flags should be a success: %+v", out)
	}

	inst.addSafetyFlag("self_harm_risk_identified")
	out = inst.Outcome("sess-1", "user-1", inst.StartTime.Add(1))
	if out.Success {
		t.Error("any safety flag must veto success")
	}
}

func TestInstanceOutcomePartial(t *testing.T) {
	e := newTestEngine()
	inst, _ := mustStart(t, e, models.ScenarioPanic, nil)
	e.Process(inst, "yes")
	e.Process(inst, "ok")
	inst.Status = models.StatusAbandoned

	out := inst.Outcome("sess-2", "user-2", inst.StartTime.Add(1))
	if out.Success {
		t.Error("abandoned flow at 2/7 steps must not be a success")
	}
	if len(out.InterventionsUsed) != 2 {
		t.Errorf("interventions used = %v, want the 2 passed steps", out.InterventionsUsed)
	}
}
