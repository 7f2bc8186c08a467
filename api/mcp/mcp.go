// Package mcp provides an MCP (Model Context Protocol) server that exposes
// AI-text detection as tools.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/scorer"
	"github.com/papercomputeco/aiscore/pkg/utils"
)

// Analyzer is the detection service the tools delegate to.
// *scorer.Service implements it.
type Analyzer interface {
	Analyze(ctx context.Context, in scorer.Input) (*detect.Result, error)
	Providers() []detect.Spec
	DefaultProvider() detect.ProviderID
}

type Config struct {
	// Analyzer runs detections for the analyze_text tool
	Analyzer Analyzer

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the detection tools.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "aiscore",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)
	s.mcpServer = mcpServer

	if !c.Noop {
		if c.Analyzer == nil {
			return nil, errors.New("analyzer is required")
		}
		if c.Logger == nil {
			return nil, errors.New("logger is required")
		}

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        analyzeToolName,
			Description: analyzeDescription,
		}, s.handleAnalyze)

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        listProvidersToolName,
			Description: listProvidersDescription,
		}, s.handleListProviders)
	}

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}
