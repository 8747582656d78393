package flow

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/StillwaterLabs/SteadyPath/internal/content"
	"github.com/StillwaterLabs/SteadyPath/internal/models"
	"github.com/StillwaterLabs/SteadyPath/internal/safety"
)

// Engine advances flow instances through their definitions. The engine is
// stateless beyond its registry and content source; all mutable state lives
// on the Instance and is serialized by the caller.
type Engine struct {
	registry *Registry
	content  content.Source
}

// NewEngine creates a flow engine backed by the given registry and content source.
func NewEngine(registry *Registry, src content.Source) *Engine {
	return &Engine{registry: registry, content: src}
}

// Registry exposes the engine's flow definitions.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Start instantiates a new flow for the scenario and produces its opening
// reply. When the start context text trips the crisis screen, no instance is
// created and the returned reply is a crisis override. Callers must check
// for a nil instance before storing it.
func (e *Engine) Start(scenario models.ScenarioID, ctx *models.StartContext) (*Instance, models.Reply, error) {
	def, ok := e.registry.Get(scenario)
	if !ok {
		return nil, models.Reply{}, models.ErrUnknownScenario
	}

	var text string
	var intensity models.Intensity
	if ctx != nil {
		text = ctx.Text
		intensity = ctx.Intensity
	}

	if text != "" {
		if a := safety.Assess(text); a.IsCrisis() {
			slog.Warn("Crisis detected at flow start", "scenario", scenario, "level", a.Level, "categories", a.Categories)
			return nil, e.crisisReply(a, models.StepInfo{CurrentStep: 1, TotalSteps: def.TotalSteps()}), nil
		}
	}

	inst := newInstance(def, intensity)
	reply := e.openingReply(inst, strings.ToLower(strings.TrimSpace(text)))
	slog.Debug("Flow started", "scenario", scenario, "flow", def.Name, "intensity", inst.Intensity, "total_steps", def.TotalSteps())
	return inst, reply, nil
}

// Process records one user turn against the instance's current step and
// advances by at most one step. Crisis text overrides branch logic on every
// turn. Processing a finished or out-of-range instance returns the
// completion reply again without mutating state.
func (e *Engine) Process(inst *Instance, text string) models.Reply {
	if inst.Finished() || inst.CurrentStep >= inst.TotalSteps() {
		return e.completionReply(inst, "")
	}

	inst.recordResponse(text)

	if a := safety.Assess(text); a.IsCrisis() {
		inst.Status = models.StatusCrisisOverride
		inst.addSafetyFlag("crisis_" + string(a.Level))
		slog.Warn("Crisis detected mid-flow", "scenario", inst.Scenario, "step", inst.CurrentStep, "level", a.Level, "categories", a.Categories)
		return e.crisisReply(a, inst.StepInfo())
	}

	step := inst.def.Steps[inst.CurrentStep]
	normalized := strings.ToLower(strings.TrimSpace(text))

	if step.Rating != nil {
		return e.processRating(inst, step, normalized)
	}
	return e.processRules(inst, step, normalized)
}

func (e *Engine) processRating(inst *Instance, step Step, text string) models.Reply {
	value, ok := ExtractRating(text)
	if !ok {
		slog.Debug("No parseable rating, reprompting", "scenario", inst.Scenario, "step", inst.CurrentStep)
		return models.Reply{
			Message:       step.Rating.Reprompt,
			Scenario:      inst.Scenario,
			RequiresInput: true,
			StepInfo:      inst.StepInfo(),
		}
	}

	inst.addRating(value)
	message := step.Rating.Reprompt
	for _, band := range step.Rating.Bands {
		if value >= band.Min && value <= band.Max {
			message = strings.ReplaceAll(band.Template, "{rating}", strconv.Itoa(value))
			break
		}
	}
	return e.advance(inst, models.Reply{Message: message, Scenario: inst.Scenario})
}

func (e *Engine) processRules(inst *Instance, step Step, text string) models.Reply {
	rule := selectRule(step.Rules, text)
	reply := models.Reply{
		Message:       e.render(inst, rule.Template, rule.Content),
		Scenario:      inst.Scenario,
		Signals:       rule.Signals,
		SafetyConcern: rule.SafetyConcern,
	}
	if rule.SafetyFlag != "" {
		inst.addSafetyFlag(rule.SafetyFlag)
		reply.SafetyConcern = true
		slog.Warn("Safety flag raised in flow", "scenario", inst.Scenario, "step", inst.CurrentStep, "flag", rule.SafetyFlag)
	}
	if rule.IncludeCrisisResources {
		reply.CrisisResources = e.crisisResources()
	}
	if !rule.Advance {
		reply.RequiresInput = true
		reply.StepInfo = inst.StepInfo()
		return reply
	}
	return e.advance(inst, reply)
}

// advance moves the instance forward one step and finishes the flow when the
// final step has been passed, folding the step message into the completion
// reply so no extra empty turn is needed.
func (e *Engine) advance(inst *Instance, reply models.Reply) models.Reply {
	inst.CurrentStep++
	if inst.CurrentStep >= inst.TotalSteps() {
		inst.Status = models.StatusCompleted
		done := e.completionReply(inst, reply.Message)
		done.Signals = reply.Signals
		done.SafetyConcern = reply.SafetyConcern
		if reply.CrisisResources != nil {
			done.CrisisResources = reply.CrisisResources
		}
		return done
	}
	reply.RequiresInput = true
	reply.StepInfo = inst.StepInfo()
	return reply
}

func (e *Engine) completionReply(inst *Instance, lead string) models.Reply {
	if inst.Status == models.StatusInProgress {
		inst.Status = models.StatusCompleted
	}
	message := fmt.Sprintf("You've completed the %s. These evidence-based techniques become more effective with practice.", inst.def.Name)
	if lead != "" {
		message = lead + "\n\n" + message
	}
	return models.Reply{
		Message:           message,
		Scenario:          inst.Scenario,
		RequiresInput:     false,
		StepInfo:          inst.StepInfo(),
		FlowCompleted:     true,
		FollowUpResources: inst.def.Resources,
	}
}

func (e *Engine) openingReply(inst *Instance, text string) models.Reply {
	def := inst.def
	if def.Opening != "" {
		return models.Reply{
			Message:       e.render(inst, def.Opening, def.OpeningContent),
			Scenario:      inst.Scenario,
			RequiresInput: true,
			StepInfo:      inst.StepInfo(),
		}
	}
	// The opening reuses the step-0 branch templates as the first prompt
	// without consuming the step.
	step := def.Steps[0]
	rule := selectRule(step.Rules, text)
	return models.Reply{
		Message:       e.render(inst, rule.Template, rule.Content),
		Scenario:      inst.Scenario,
		RequiresInput: true,
		StepInfo:      inst.StepInfo(),
		Signals:       rule.Signals,
	}
}

// CrisisReply builds a standalone crisis override reply for callers that
// screen text outside any flow.
func (e *Engine) CrisisReply(a safety.Assessment) models.Reply {
	return e.crisisReply(a, models.StepInfo{})
}

func (e *Engine) crisisReply(a safety.Assessment, info models.StepInfo) models.Reply {
	resources := e.crisisResources()

	var b strings.Builder
	b.WriteString("I'm very concerned about what you've shared. Your safety is the most important thing right now.\n\nPlease reach out for immediate support:\n")
	for _, r := range resources {
		fmt.Fprintf(&b, "\n%s: %s (%s)", r.Name, r.Contact, r.Availability)
	}
	b.WriteString("\n\nIf you are in immediate danger, please call 911 or go to your nearest emergency room. You don't have to go through this alone.")

	return models.Reply{
		Message:             b.String(),
		FlowType:            models.FlowTypeCrisisOverride,
		RequiresInput:       false,
		StepInfo:            info,
		CrisisResources:     resources,
		SafetyMessage:       "Your safety matters. Please use the resources above to connect with trained crisis support.",
		DisableFreeForm:     true,
		ImmediateEscalation: a.Level == safety.LevelHigh,
		SafetyConcern:       true,
	}
}

// crisisResources returns the fixed core list plus any extras the content
// source offers. The core list never depends on the content source.
func (e *Engine) crisisResources() []models.CrisisResource {
	resources := models.CoreCrisisResources()
	if e.content != nil {
		resources = append(resources, e.content.CrisisSupport()...)
	}
	return resources
}

// render substitutes the {content} placeholder in a rule template with the
// requested content, counting the retrieval against the instance.
func (e *Engine) render(inst *Instance, template string, req ContentRequest) string {
	if !strings.Contains(template, "{content}") {
		return template
	}
	return strings.ReplaceAll(template, "{content}", e.fetch(inst, req))
}

func (e *Engine) fetch(inst *Instance, req ContentRequest) string {
	if req.Kind == ContentNone || e.content == nil {
		return ""
	}
	inst.ContentRetrievals++
	switch req.Kind {
	case ContentTechnique:
		intensity := req.Intensity
		if intensity == "" {
			intensity = inst.Intensity
		}
		return e.content.Technique(inst.Scenario, intensity, req.Topic)
	case ContentEducation:
		return e.content.Education(inst.Scenario, req.Topic)
	case ContentReassurance:
		return e.content.Reassurance(inst.Scenario, req.Confidence)
	}
	return ""
}

// selectRule returns the first rule whose indicators match the normalized
// input. A rule with no indicators always matches.
func selectRule(rules []BranchRule, text string) BranchRule {
	for _, rule := range rules {
		if len(rule.Indicators) == 0 {
			return rule
		}
		for _, indicator := range rule.Indicators {
			if containsPhrase(text, indicator) {
				return rule
			}
		}
	}
	// Definitions always end in a default rule; this is a safety net for
	// malformed hand-edited definitions.
	return BranchRule{Template: "Thank you for sharing. Let's continue.", Advance: true}
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// containsPhrase reports whether phrase occurs in text on word boundaries,
// so "no" never matches inside "know".
func containsPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for from := 0; ; {
		i := strings.Index(text[from:], phrase)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(phrase)
		leftOK := start == 0 || !isWordByte(text[start-1])
		rightOK := end == len(text) || !isWordByte(text[end])
		if leftOK && rightOK {
			return true
		}
		from = start + 1
	}
}
