package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"wellness-chatter/internal/crisis"
	"wellness-chatter/internal/knowledge"
	"wellness-chatter/internal/sentiment"
)

const maxK = 10

type SearchParams struct {
	Query string `json:"query" mcp:"what to look for in the wellness guides"`
	K     int    `json:"k,omitempty" mcp:"number of passages to return (default: configured k, max: 10)"`
}

type ScreenParams struct {
	Message string `json:"message" mcp:"the user message to screen for crisis signals"`
}

type SentimentParams struct {
	Text string `json:"text" mcp:"the text to analyze"`
}

// GuideSearcher is the subset of knowledge.Retriever the server needs.
type GuideSearcher interface {
	Available() bool
	K() int
	Search(ctx context.Context, query string, k int) ([]knowledge.Passage, error)
}

type Analyzer interface {
	Analyze(text string) sentiment.Result
}

// WellnessMCPServer exposes the guide index and the screening and
// sentiment components as MCP tools for diagnostics.
type WellnessMCPServer struct {
	guides   GuideSearcher
	screen   *crisis.Screen
	analyzer Analyzer
	logger   *log.Logger
}

func New(guides GuideSearcher, screen *crisis.Screen, analyzer Analyzer, logger *log.Logger) *WellnessMCPServer {
	return &WellnessMCPServer{guides: guides, screen: screen, analyzer: analyzer, logger: logger}
}

// Register adds every tool to server.
func (s *WellnessMCPServer) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_wellness_guides",
		Description: "Searches the wellness guide library and returns the most relevant passages with their source",
	}, s.SearchGuides)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "screen_message",
		Description: "Scores a message for self-harm and suicide risk and returns the crisis verdict",
	}, s.ScreenMessage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_sentiment",
		Description: "Returns polarity, label, emotions and confidence for a piece of text",
	}, s.AnalyzeSentiment)
}

func (s *WellnessMCPServer) SearchGuides(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[SearchParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return errorResult("❌ query is required"), nil
	}
	if s.guides == nil || !s.guides.Available() {
		return errorResult("❌ wellness guide index is not available, run build-index first"), nil
	}

	k := args.K
	if k <= 0 {
		k = s.guides.K()
	}
	k = min(k, maxK)

	passages, err := s.guides.Search(ctx, query, k)
	if err != nil {
		s.logger.Error("guide search failed", "query", query, "err", err)
		return errorResult(fmt.Sprintf("❌ Search failed: %v", err)), nil
	}
	s.logger.Info("guide search", "query", query, "k", k, "found", len(passages))

	if len(passages) == 0 {
		return textResult(fmt.Sprintf("No passages found for %q", query)), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d passages for %q:\n", len(passages), query)
	for _, p := range passages {
		fmt.Fprintf(&b, "\n[%d] %s, page %d (score %.3f)\n%s\n", p.Rank, p.Source, p.Page, p.Score, p.Content)
	}
	return textResult(b.String()), nil
}

type screenResult struct {
	IsCrisis bool     `json:"is_crisis"`
	Severity int      `json:"severity"`
	Signals  []string `json:"signals"`
	Response string   `json:"response,omitempty"`
}

func (s *WellnessMCPServer) ScreenMessage(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ScreenParams]) (*mcp.CallToolResultFor[any], error) {
	v := s.screen.Evaluate(params.Arguments.Message)
	out := screenResult{IsCrisis: v.IsCrisis, Severity: v.Severity, Signals: make([]string, len(v.Signals)), Response: v.Response}
	for i, sig := range v.Signals {
		out.Signals[i] = string(sig)
	}
	if v.IsCrisis {
		s.logger.Warn("screened message is a crisis", "severity", v.Severity)
	}
	return jsonResult(out)
}

func (s *WellnessMCPServer) AnalyzeSentiment(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[SentimentParams]) (*mcp.CallToolResultFor[any], error) {
	return jsonResult(s.analyzer.Analyze(params.Arguments.Text))
}

func jsonResult(v any) (*mcp.CallToolResultFor[any], error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return textResult(string(data)), nil
}

func textResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
