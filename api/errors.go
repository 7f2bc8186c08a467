package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/scorer"
)

const kindBadInput = "bad_input"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error      string `json:"error"`
	Kind       string `json:"kind,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
}

// httpStatusFor maps a detection error kind to the response status.
func httpStatusFor(kind detect.Kind) int {
	switch kind {
	case detect.KindMissingCredential, detect.KindUnknownProvider:
		return fiber.StatusBadRequest
	case detect.KindInvalidCredential:
		return fiber.StatusUnauthorized
	case detect.KindRateLimited:
		return fiber.StatusTooManyRequests
	case detect.KindUpstream, detect.KindNetwork:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg, Kind: kindBadInput})
}

// writeError renders err as an ErrorResponse. Detection errors carry their
// kind and upstream status; anything else is an internal error.
func (s *Server) writeError(c *fiber.Ctx, err error) error {
	if scorer.IsTooShort(err) {
		return badRequest(c, err.Error())
	}

	kind := detect.KindOf(err)
	if kind == detect.KindUnknown {
		s.logger.Error("request failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal error"})
	}

	return c.Status(httpStatusFor(kind)).JSON(ErrorResponse{
		Error:      detect.Message(err),
		Kind:       kind.String(),
		StatusCode: detect.StatusCodeOf(err),
	})
}
