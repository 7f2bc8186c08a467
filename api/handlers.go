package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/history"
	"github.com/papercomputeco/aiscore/pkg/scorer"
)

// AnalyzeRequest is the body of POST /v1/analyze.
type AnalyzeRequest struct {
	Text     string `json:"text"`
	Provider string `json:"provider,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
}

// AnalyzeResponse wraps a detection result with its derived fields.
type AnalyzeResponse struct {
	*detect.Result
	Percent int            `json:"percent"`
	Verdict detect.Verdict `json:"verdict"`
}

// TestRequest is the body of POST /v1/test.
type TestRequest struct {
	Provider string `json:"provider,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
}

// TestResponse reports a successful connection test.
type TestResponse struct {
	Provider detect.ProviderID `json:"provider"`
	OK       bool              `json:"ok"`
}

// ProviderResponse describes one detection provider.
type ProviderResponse struct {
	ID      detect.ProviderID `json:"id"`
	Name    string            `json:"name"`
	KeyURL  string            `json:"key_url"`
	Scale   string            `json:"scale"`
	Default bool              `json:"default"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleProviders lists the registered providers in display order.
func (s *Server) handleProviders(c *fiber.Ctx) error {
	def := s.service.DefaultProvider()
	specs := s.service.Providers()

	providers := make([]ProviderResponse, 0, len(specs))
	for _, spec := range specs {
		providers = append(providers, ProviderResponse{
			ID:      spec.ID,
			Name:    spec.DisplayName,
			KeyURL:  spec.KeyURL,
			Scale:   spec.Scale.String(),
			Default: spec.ID == def,
		})
	}

	return c.JSON(map[string]any{
		"default":   def,
		"providers": providers,
	})
}

// handleAnalyze scores the posted text.
func (s *Server) handleAnalyze(c *fiber.Ctx) error {
	var req AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return badRequest(c, "text is required")
	}

	result, err := s.service.Analyze(c.Context(), scorer.Input{
		Text:     req.Text,
		Provider: req.Provider,
		APIKey:   req.APIKey,
		Surface:  "api",
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(AnalyzeResponse{
		Result:  result,
		Percent: result.Percent(),
		Verdict: result.Verdict(),
	})
}

// handleTestConnection checks a provider credential with the canned text.
func (s *Server) handleTestConnection(c *fiber.Ctx) error {
	var req TestRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	id, err := s.service.TestConnection(c.Context(), req.Provider, req.APIKey)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(TestResponse{Provider: id, OK: true})
}

// handleListHistory returns the most recent analyses, newest first.
func (s *Server) handleListHistory(c *fiber.Ctx) error {
	if s.history == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "history is disabled"})
	}

	limit := c.QueryInt("limit", history.DefaultListLimit)
	if limit < 0 {
		return badRequest(c, "limit must not be negative")
	}

	records, err := s.history.List(c.Context(), limit)
	if err != nil {
		s.logger.Error("listing history failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list history"})
	}

	return c.JSON(map[string]any{
		"count":   len(records),
		"records": records,
	})
}

// handleGetHistory returns a single analysis record by id.
func (s *Server) handleGetHistory(c *fiber.Ctx) error {
	if s.history == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "history is disabled"})
	}

	rec, err := s.history.Get(c.Context(), c.Params("id"))
	if err != nil {
		if history.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "record not found"})
		}
		s.logger.Error("loading history record failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to load record"})
	}

	return c.JSON(rec)
}
