package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"wellness-chatter/internal/crisis"
	"wellness-chatter/internal/generation"
	"wellness-chatter/internal/history"
	"wellness-chatter/internal/knowledge"
	"wellness-chatter/internal/llm"
	"wellness-chatter/internal/sentiment"
)

// DegradedResponse is sent when no generator produced a usable reply.
const DegradedResponse = "I'm having trouble processing that right now. Could you try rephrasing?"

const DefaultTimeout = 45 * time.Second

func DefaultTopics() []string {
	return []string{"anxiety", "depression", "stress", "sleep", "meditation", "breathing", "mindfulness"}
}

func DefaultTriggers() []string {
	return []string{
		"how to", "what is", "help with", "strategies for",
		"tips", "advice", "techniques", "exercises",
		"cope", "manage", "deal with", "overcome",
	}
}

type Config struct {
	Topics   []string
	Triggers []string
	// Timeout bounds each generation call.
	Timeout time.Duration
}

type Analyzer interface {
	Analyze(text string) sentiment.Result
}

type Memory interface {
	Messages() []llm.Message
	RecordExchange(ex history.Exchange)
}

// Result is everything a caller needs to render one reply.
type Result struct {
	Response       string
	Sentiment      sentiment.Result
	CrisisDetected bool
	UsedRetrieval  bool
	Severity       int
	Degraded       bool
	Passages       []knowledge.Passage
}

type Deps struct {
	Screen    *crisis.Screen
	Sentiment Analyzer
	Plain     generation.Generator
	Augmented generation.Generator
	// RetrievalAvailable is decided once at startup.
	RetrievalAvailable bool
	Config             Config
	Logger             *log.Logger
}

// Router decides how each message is answered. It holds no conversation
// state and may be shared across sessions.
type Router struct {
	screen    *crisis.Screen
	analyzer  Analyzer
	plain     generation.Generator
	augmented generation.Generator
	available bool
	topics    []string
	triggers  []string
	timeout   time.Duration
	logger    *log.Logger
}

func New(d Deps) *Router {
	cfg := d.Config
	if cfg.Topics == nil {
		cfg.Topics = DefaultTopics()
	}
	if cfg.Triggers == nil {
		cfg.Triggers = DefaultTriggers()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Router{
		screen:    d.Screen,
		analyzer:  d.Sentiment,
		plain:     d.Plain,
		augmented: d.Augmented,
		available: d.RetrievalAvailable && d.Augmented != nil,
		topics:    lowerAll(cfg.Topics),
		triggers:  lowerAll(cfg.Triggers),
		timeout:   cfg.Timeout,
		logger:    d.Logger,
	}
}

func (r *Router) RetrievalAvailable() bool { return r.available }

// Process screens, scores, answers and records one user message. It never
// fails: generation problems end in DegradedResponse. Crisis replies are not
// written to mem.
func (r *Router) Process(ctx context.Context, mem Memory, input string) Result {
	verdict := r.screen.Evaluate(input)
	if verdict.IsCrisis {
		s := r.analyzer.Analyze(input)
		r.logger.Warn("crisis detected", "severity", verdict.Severity, "signals", verdict.Signals, "polarity", s.Polarity)
		return Result{
			Response:       verdict.Response,
			Sentiment:      s,
			CrisisDetected: true,
			Severity:       verdict.Severity,
		}
	}

	s := r.analyzer.Analyze(input)
	wants := r.WantsRetrieval(input)
	past := mem.Messages()

	var (
		out  generation.Outcome
		used bool
	)
	if wants && r.available {
		out = r.call(ctx, "augmented", r.augmented, input, past)
		if out.OK() {
			used = true
		} else {
			r.logger.Info("falling back to plain generation", "reason", out.Err)
		}
	}
	if !used {
		out = r.call(ctx, "plain", r.plain, input, past)
	}

	res := Result{
		Response:      out.Text,
		Sentiment:     s,
		UsedRetrieval: used,
		Severity:      verdict.Severity,
	}
	if used {
		res.Passages = out.Passages
	}
	if !out.OK() {
		r.logger.Error("generation failed, sending degraded reply", "error", out.Err)
		res.Response = DegradedResponse
		res.Degraded = true
	}

	mem.RecordExchange(historyExchange(input, res))
	r.logger.Debug("processed message",
		"label", s.Label, "wants_retrieval", wants, "used_retrieval", used, "degraded", res.Degraded)
	return res
}

// WantsRetrieval reports whether input names a wellness topic or asks for
// practical help. Availability is not considered.
func (r *Router) WantsRetrieval(input string) bool {
	lower := strings.ToLower(input)
	return containsAny(lower, r.topics) || containsAny(lower, r.triggers)
}

// ShouldUseRetrieval is WantsRetrieval gated by index availability.
func (r *Router) ShouldUseRetrieval(input string) bool {
	return r.available && r.WantsRetrieval(input)
}

func (r *Router) call(ctx context.Context, name string, g generation.Generator, input string, past []llm.Message) (out generation.Outcome) {
	if g == nil {
		return generation.Failed(fmt.Errorf("%s generator not configured", name))
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("generator panicked", "generator", name, "panic", p)
			out = generation.Failed(fmt.Errorf("%s generator panic: %v", name, p))
		}
	}()

	start := time.Now()
	out = g.Generate(ctx, input, past)
	r.logger.Debug("generator finished", "generator", name, "ok", out.OK(), "took", time.Since(start))
	return out
}

func historyExchange(input string, res Result) history.Exchange {
	s := res.Sentiment
	return history.Exchange{
		Input:         input,
		Response:      res.Response,
		Sentiment:     &s,
		UsedRetrieval: res.UsedRetrieval,
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
