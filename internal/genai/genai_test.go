package genai

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type fakeCompletions struct {
	resp   *openai.ChatCompletion
	err    error
	params openai.ChatCompletionNewParams
}

func (f *fakeCompletions) New(_ context.Context, body openai.ChatCompletionNewParams, _ ...option.RequestOption) (*openai.ChatCompletion, error) {
	f.params = body
	return f.resp, f.err
}

func TestGeneratePrompt(t *testing.T) {
	fake := &fakeCompletions{
		resp: &openai.ChatCompletion{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "a warmer rewrite"}},
			},
		},
	}
	c := &Client{completions: fake}

	got, err := c.GeneratePrompt(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("GeneratePrompt returned error: %v", err)
	}
	if got != "a warmer rewrite" {
		t.Errorf("GeneratePrompt = %q, want first choice content", got)
	}
	if fake.params.Model != openai.ChatModelGPT4oMini {
		t.Errorf("model = %q, want gpt-4o-mini", fake.params.Model)
	}
	if len(fake.params.Messages) != 2 {
		t.Errorf("messages = %d, want system plus user", len(fake.params.Messages))
	}
}

func TestGeneratePromptError(t *testing.T) {
	c := &Client{completions: &fakeCompletions{err: errors.New("api down")}}
	if _, err := c.GeneratePrompt(context.Background(), "system", "user"); err == nil {
		t.Error("expected error from failing completion service")
	}
}

func TestGeneratePromptNoChoices(t *testing.T) {
	c := &Client{completions: &fakeCompletions{resp: &openai.ChatCompletion{}}}
	if _, err := c.GeneratePrompt(context.Background(), "system", "user"); err == nil {
		t.Error("expected error when the response carries no choices")
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewClient(); err == nil {
		t.Error("expected error when OPENAI_API_KEY is unset")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	c, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient with key set returned error: %v", err)
	}
	if c.completions == nil {
		t.Error("client completion service not wired")
	}
}
