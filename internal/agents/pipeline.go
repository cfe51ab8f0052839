// Package agents implements the multi-agent recommendation pipeline:
// producer agents create output, reviewer agents check and improve it.
package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/autopm-ai/autopm/internal/llm"
)

// Temperatures per role. The analyst gets a little more freedom; review and
// revision passes stay conservative.
const (
	analystTemperature = 0.3
	criticTemperature  = 0.2
	reviserTemperature = 0.2
)

// Outcome is the result of one pipeline run.
type Outcome struct {
	// Final is the markdown delivered to the user.
	Final string

	// Critique is the reviewer's feedback on the first draft. Empty when
	// the review loop is disabled.
	Critique string

	// IsSpec reports whether the spec pipeline produced this outcome.
	IsSpec bool
}

// Pipeline chains producer and reviewer agents over a single LLM adapter.
type Pipeline struct {
	adapter llm.Adapter
	config  llm.Config

	// SkipReview runs only the producer agent, without the critic and
	// reviser passes. Cheaper and faster, lower quality.
	SkipReview bool
}

// NewPipeline creates a pipeline over the given adapter.
func NewPipeline(adapter llm.Adapter, config llm.Config) *Pipeline {
	return &Pipeline{adapter: adapter, config: config}
}

// specTriggers are phrases that indicate the user wants an implementation
// spec rather than a conversational answer.
var specTriggers = []string{
	"generate spec", "create spec", "write spec", "spec for",
	"implementation spec", "implementation plan", "dev spec",
	"break down", "break this down", "task list", "dev tasks",
	"for coding", "ready for implementation",
}

// WantsSpec detects whether the query is asking for an implementation spec.
func WantsSpec(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, t := range specTriggers {
		if strings.Contains(q, t) {
			return true
		}
	}
	return false
}

// Recommend runs the appropriate pipeline for the query: the spec pipeline
// when the query asks for one, the chat pipeline otherwise. dataContext is
// the combined uploaded-document text, empty when nothing was uploaded.
func (p *Pipeline) Recommend(ctx context.Context, dataContext, query string) (*Outcome, error) {
	if WantsSpec(query) {
		return p.Spec(ctx, dataContext, query)
	}
	return p.Chat(ctx, dataContext, query)
}

// Chat runs Analyst -> Critic -> Reviser and returns the improved response.
func (p *Pipeline) Chat(ctx context.Context, dataContext, query string) (*Outcome, error) {
	if p.SkipReview {
		final, err := p.run(ctx, "analyst", withData(SinglePassSystem, dataContext, false), userTurn(query), analystTemperature)
		if err != nil {
			return nil, err
		}
		return &Outcome{Final: final}, nil
	}

	system := withData(AnalystSystem, dataContext, false)
	original, err := p.run(ctx, "analyst", system, userTurn(query), analystTemperature)
	if err != nil {
		return nil, err
	}

	critique, err := p.run(ctx, "critic", CriticSystem,
		fmt.Sprintf("## Original response\n\n%s\n\n## Your critique", original), criticTemperature)
	if err != nil {
		return nil, err
	}

	final, err := p.run(ctx, "reviser", ReviserSystem,
		fmt.Sprintf("## Original response\n\n%s\n\n## Critique\n\n%s\n\n## Produce improved response", original, critique),
		reviserTemperature)
	if err != nil {
		return nil, err
	}

	return &Outcome{Final: final, Critique: critique}, nil
}

// Spec runs SpecWriter -> SpecCritic -> SpecReviser and returns the
// improved spec.
func (p *Pipeline) Spec(ctx context.Context, dataContext, query string) (*Outcome, error) {
	system := withData(SpecWriterSystem, dataContext, true)
	writerInput := fmt.Sprintf("## Conversation\n\n**user:** %s\n\nProduce the implementation spec.", query)

	original, err := p.run(ctx, "analyst", system, writerInput, criticTemperature)
	if err != nil {
		return nil, err
	}

	if p.SkipReview {
		return &Outcome{Final: original, IsSpec: true}, nil
	}

	critique, err := p.run(ctx, "critic", SpecCriticSystem,
		fmt.Sprintf("## Original spec\n\n%s\n\n## Your critique", original), criticTemperature)
	if err != nil {
		return nil, err
	}

	final, err := p.run(ctx, "reviser", SpecReviserSystem,
		fmt.Sprintf("## Original spec\n\n%s\n\n## Critique\n\n%s\n\n## Produce improved spec", original, critique),
		reviserTemperature)
	if err != nil {
		return nil, err
	}

	return &Outcome{Final: final, Critique: critique, IsSpec: true}, nil
}

// run executes a single agent call with the model configured for its role.
func (p *Pipeline) run(ctx context.Context, role, system, user string, temperature float32) (string, error) {
	out, err := p.adapter.Complete(ctx, llm.Request{
		Model:       p.config.ModelForRole(role),
		System:      system,
		User:        user,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s agent failed: %w", role, err)
	}
	return out, nil
}

// withData appends the uploaded-document context to a system prompt.
func withData(system, dataContext string, spec bool) string {
	if dataContext != "" {
		return system + "\n\n## Available data\n" + dataContext
	}
	if spec {
		return system + "\n\n## Available data\nNone. Use the conversation context to infer the feature."
	}
	return system + "\n\n## Available data\nNone. If the user asks for analysis, ask them to upload documents."
}

// userTurn formats the single-turn conversation for the analyst.
func userTurn(query string) string {
	return fmt.Sprintf("## Conversation\n\n**user:** %s\n\nRespond to the latest user message.", query)
}
