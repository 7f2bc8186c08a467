package api

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/aiscore/api/mcp"
	"github.com/papercomputeco/aiscore/pkg/history"
	"github.com/papercomputeco/aiscore/pkg/scorer"
)

// Server is the API server for the aiscore detection service
type Server struct {
	config  Config
	service *scorer.Service
	history history.Driver
	logger  *slog.Logger
	app     *fiber.App
}

// NewServer creates a new API server.
// The history driver is optional; without it /v1/history reports that
// history is disabled.
func NewServer(config Config, service *scorer.Service, hist history.Driver, logger *slog.Logger) (*Server, error) {
	if service == nil {
		return nil, errors.New("scorer service is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:  config,
		service: service,
		history: hist,
		logger:  logger,
		app:     app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/v1/providers", s.handleProviders)
	app.Post("/v1/analyze", s.handleAnalyze)
	app.Post("/v1/test", s.handleTestConnection)
	app.Get("/v1/history", s.handleListHistory)
	app.Get("/v1/history/:id", s.handleGetHistory)

	if !config.DisableMCP {
		mcpServer, err := mcp.NewServer(mcp.Config{
			Analyzer: service,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating MCP server: %w", err)
		}
		app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))
	}

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
		"mcp", !s.config.DisableMCP,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
