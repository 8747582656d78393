package genai

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/StillwaterLabs/SteadyPath/internal/content"
	"github.com/StillwaterLabs/SteadyPath/internal/models"
)

// generator is the slice of Client the enhancer needs; tests substitute a fake.
type generator interface {
	GeneratePrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const enhanceSystemPrompt = "You rewrite short anxiety-support texts to sound warmer and more natural " +
	"while preserving every instruction, number, and safety detail exactly. " +
	"Return only the rewritten text, no preamble, under 120 words."

// Enhancer is a content.Source decorator that rewrites library content through
// the GenAI client for a warmer register. Any generation failure falls back
// to the unmodified base content, and crisis resources are passed through
// untouched so safety never depends on an external call.
type Enhancer struct {
	base    content.Source
	gen     generator
	timeout time.Duration
}

// NewEnhancer wraps a base content source with GenAI rewriting.
func NewEnhancer(base content.Source, client *Client) *Enhancer {
	return &Enhancer{base: base, gen: client, timeout: 10 * time.Second}
}

func (e *Enhancer) enhance(kind, base string) string {
	if base == "" {
		return base
	}
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	out, err := e.gen.GeneratePrompt(ctx, enhanceSystemPrompt, base)
	if err != nil {
		slog.Debug("GenAI enhancement failed, using base content", "kind", kind, "error", err)
		return base
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return base
	}
	return out
}

// Technique returns the base technique, rewritten when generation succeeds.
func (e *Enhancer) Technique(scenario models.ScenarioID, intensity models.Intensity, topic string) string {
	return e.enhance("technique", e.base.Technique(scenario, intensity, topic))
}

// Education returns the base psychoeducation, rewritten when generation succeeds.
func (e *Enhancer) Education(scenario models.ScenarioID, topic string) string {
	return e.enhance("education", e.base.Education(scenario, topic))
}

// Reassurance returns the base reassurance, rewritten when generation succeeds.
func (e *Enhancer) Reassurance(scenario models.ScenarioID, confidence float64) string {
	return e.enhance("reassurance", e.base.Reassurance(scenario, confidence))
}

// CrisisSupport passes the base resources through unmodified.
func (e *Enhancer) CrisisSupport() []models.CrisisResource {
	return e.base.CrisisSupport()
}
