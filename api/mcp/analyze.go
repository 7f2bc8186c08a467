package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/scorer"
)

var (
	analyzeToolName    = "analyze_text"
	analyzeDescription = "Estimate the probability that a passage of text was written by AI. Returns a score between 0 and 1, the rounded percentage and a verdict. Uses the server's configured provider unless one is named."

	listProvidersToolName    = "list_providers"
	listProvidersDescription = "List the AI detection providers that analyze_text can use, with the default marked."
)

// AnalyzeInput represents the input arguments for the analyze_text tool.
type AnalyzeInput struct {
	Text     string `json:"text" jsonschema:"the text to analyze"`
	Provider string `json:"provider,omitempty" jsonschema:"detection provider id, e.g. gptzero or sapling (default: server configured)"`
}

// AnalyzeOutput represents the output of the analyze_text tool.
type AnalyzeOutput struct {
	Provider  string  `json:"provider"`
	AIScore   float64 `json:"ai_score"`
	Percent   int     `json:"percent"`
	Verdict   string  `json:"verdict"`
	WordCount int     `json:"word_count"`
	CharCount int     `json:"char_count"`
}

// ProviderInfo describes one detection provider.
type ProviderInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	KeyURL  string `json:"key_url"`
	Default bool   `json:"default"`
}

// ListProvidersInput is empty; the tool takes no arguments.
type ListProvidersInput struct{}

// ListProvidersOutput represents the output of the list_providers tool.
type ListProvidersOutput struct {
	Providers []ProviderInfo `json:"providers"`
}

// handleAnalyze runs one detection. Detection failures are reported as tool
// errors carrying the user facing message.
func (s *Server) handleAnalyze(ctx context.Context, _ *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, AnalyzeOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP analyze request",
		"provider", input.Provider,
		"chars", len(input.Text),
	)

	result, err := s.config.Analyzer.Analyze(ctx, scorer.Input{
		Text:     input.Text,
		Provider: input.Provider,
		Surface:  "mcp",
	})
	if err != nil {
		logger.Warn("MCP analyze failed", "error", err)
		return errorResult(err), AnalyzeOutput{}, nil
	}

	return nil, AnalyzeOutput{
		Provider:  string(result.Provider),
		AIScore:   result.AIScore,
		Percent:   result.Percent(),
		Verdict:   string(result.Verdict()),
		WordCount: result.WordCount,
		CharCount: result.CharCount,
	}, nil
}

func (s *Server) handleListProviders(_ context.Context, _ *mcp.CallToolRequest, _ ListProvidersInput) (*mcp.CallToolResult, ListProvidersOutput, error) {
	def := s.config.Analyzer.DefaultProvider()
	specs := s.config.Analyzer.Providers()

	out := ListProvidersOutput{Providers: make([]ProviderInfo, 0, len(specs))}
	for _, spec := range specs {
		out.Providers = append(out.Providers, ProviderInfo{
			ID:      string(spec.ID),
			Name:    spec.DisplayName,
			KeyURL:  spec.KeyURL,
			Default: spec.ID == def,
		})
	}

	return nil, out, nil
}

func errorResult(err error) *mcp.CallToolResult {
	msg := err.Error()
	if detect.KindOf(err) != detect.KindUnknown {
		msg = detect.Message(err)
	}

	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}
