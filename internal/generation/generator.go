package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wellness-chatter/internal/knowledge"
	"wellness-chatter/internal/llm"
)

var (
	ErrNoPassages    = errors.New("no relevant passages")
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// Outcome is the result of one generation attempt. A usable outcome has a nil
// Err and non-blank Text.
type Outcome struct {
	Text     string
	Model    string
	Passages []knowledge.Passage
	Err      error
}

func (o Outcome) OK() bool {
	return o.Err == nil && strings.TrimSpace(o.Text) != ""
}

func Failed(err error) Outcome { return Outcome{Err: err} }

type Generator interface {
	Generate(ctx context.Context, input string, history []llm.Message) Outcome
}

// Conversation answers from the system prompt and recent history alone.
type Conversation struct {
	client       llm.Client
	systemPrompt string
	counter      TokenCounter
	budget       int
}

func NewConversation(client llm.Client, systemPrompt string, counter TokenCounter, budget int) *Conversation {
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = SystemPrompt
	}
	return &Conversation{client: client, systemPrompt: systemPrompt, counter: counter, budget: budget}
}

func (c *Conversation) Generate(ctx context.Context, input string, history []llm.Message) Outcome {
	msgs := buildMessages(c.systemPrompt, TrimHistory(history, c.counter, c.budget), input)
	return complete(ctx, c.client, msgs)
}

type PassageRetriever interface {
	Available() bool
	Retrieve(ctx context.Context, query string) ([]knowledge.Passage, error)
}

// Augmented grounds the answer in passages from the wellness guides.
type Augmented struct {
	client    llm.Client
	retriever PassageRetriever
	counter   TokenCounter
	budget    int
}

func NewAugmented(client llm.Client, retriever PassageRetriever, counter TokenCounter, budget int) *Augmented {
	return &Augmented{client: client, retriever: retriever, counter: counter, budget: budget}
}

// Generate returns ErrNoPassages when the guides are unavailable or nothing
// relevant was found.
func (a *Augmented) Generate(ctx context.Context, input string, history []llm.Message) Outcome {
	if a.retriever == nil || !a.retriever.Available() {
		return Failed(fmt.Errorf("%w: %w", ErrNoPassages, knowledge.ErrUnavailable))
	}
	passages, err := a.retriever.Retrieve(ctx, input)
	if err != nil {
		return Failed(fmt.Errorf("retrieve passages: %w", err))
	}
	if len(passages) == 0 {
		return Failed(ErrNoPassages)
	}

	system := fmt.Sprintf(ragSystemPrompt, FormatContext(passages))
	out := complete(ctx, a.client, buildMessages(system, TrimHistory(history, a.counter, a.budget), input))
	out.Passages = passages
	return out
}

// FormatContext renders passages as numbered source blocks.
func FormatContext(passages []knowledge.Passage) string {
	parts := make([]string, len(passages))
	for i, p := range passages {
		label := p.Source
		if label == "" {
			label = "Unknown"
		}
		if p.Page > 0 {
			label = fmt.Sprintf("%s, page %d", label, p.Page)
		}
		parts[i] = fmt.Sprintf("[Source %d: %s]\n%s\n", i+1, label, strings.TrimSpace(p.Content))
	}
	return strings.Join(parts, "\n")
}

func buildMessages(system string, history []llm.Message, input string) []llm.Message {
	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: system})
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: input})
	return msgs
}

func complete(ctx context.Context, client llm.Client, msgs []llm.Message) Outcome {
	resp, err := client.Generate(ctx, msgs)
	if err != nil {
		return Failed(fmt.Errorf("generate: %w", err))
	}
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return Outcome{Model: resp.Model, Err: ErrEmptyResponse}
	}
	return Outcome{Text: text, Model: resp.Model}
}
