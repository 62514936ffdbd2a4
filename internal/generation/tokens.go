package generation

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"wellness-chatter/internal/llm"
)

// Per-message overhead for role and separators.
const messageOverhead = 4

type TokenCounter interface {
	Count(text string) int
}

// TiktokenCounter counts cl100k_base tokens.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func NewTiktokenCounter() (*TiktokenCounter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load cl100k_base: %w", err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

func (c *TiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// ApproxCounter estimates four bytes per token. Used when the tiktoken
// vocabulary cannot be loaded.
type ApproxCounter struct{}

func (ApproxCounter) Count(text string) int {
	return (len(text) + 3) / 4
}

// TrimHistory keeps the most recent messages whose combined cost fits in
// budget. The result never starts with an assistant message. A non-positive
// budget or nil counter disables trimming.
func TrimHistory(history []llm.Message, counter TokenCounter, budget int) []llm.Message {
	if budget <= 0 || counter == nil {
		return history
	}
	used := 0
	start := len(history)
	for i := len(history) - 1; i >= 0; i-- {
		cost := messageOverhead + counter.Count(history[i].Content)
		if used+cost > budget {
			break
		}
		used += cost
		start = i
	}
	for start < len(history) && history[start].Role == llm.RoleAssistant {
		start++
	}
	return history[start:]
}
