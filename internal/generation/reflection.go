package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wellness-chatter/internal/llm"
)

const (
	DefaultReflectionInterval = 6
	DefaultReflectionTimeout  = 45 * time.Second
	minReflectionHistory      = 4
	minSummaryHistory         = 2
)

var ErrShortHistory = errors.New("not enough history to reflect on")

// Reflection produces periodic check-ins and end-of-session closings.
type Reflection struct {
	client   llm.Client
	interval int
	timeout  time.Duration
}

func NewReflection(client llm.Client, interval int) *Reflection {
	if interval <= 0 {
		interval = DefaultReflectionInterval
	}
	return &Reflection{client: client, interval: interval, timeout: DefaultReflectionTimeout}
}

// WithTimeout bounds every model call made by r. Non-positive values keep the
// default.
func (r *Reflection) WithTimeout(d time.Duration) *Reflection {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// ShouldReflect reports whether the n-th user message warrants a check-in.
func (r *Reflection) ShouldReflect(n int) bool {
	return n > 0 && n%r.interval == 0
}

func (r *Reflection) Reflect(ctx context.Context, history []llm.Message) (string, error) {
	if len(history) < minReflectionHistory {
		return "", ErrShortHistory
	}
	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: reflectionPrompt})
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: reflectionRequest})

	out := r.complete(ctx, msgs)
	if out.Err != nil {
		return "", fmt.Errorf("reflect: %w", out.Err)
	}
	return out.Text, nil
}

// SessionSummary always returns a closing line; model failures fall back to
// a fixed message.
func (r *Reflection) SessionSummary(ctx context.Context, history []llm.Message, tone string) string {
	if len(history) < minSummaryHistory {
		return ShortSessionClosing
	}
	prompt := fmt.Sprintf(summaryPrompt, tone, len(history)/2)
	out := r.complete(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
	if !out.OK() {
		return FallbackClosing
	}
	return strings.TrimSpace(out.Text)
}

func (r *Reflection) complete(ctx context.Context, msgs []llm.Message) (out Outcome) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	defer func() {
		if p := recover(); p != nil {
			out = Failed(fmt.Errorf("reflection panic: %v", p))
		}
	}()
	return complete(ctx, r.client, msgs)
}
