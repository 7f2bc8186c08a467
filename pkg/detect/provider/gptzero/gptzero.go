// Package gptzero implements the detect.Spec for GPTZero's text prediction API.
package gptzero

import (
	"net/http"

	"github.com/papercomputeco/aiscore/pkg/detect"
)

const (
	endpoint = "https://api.gptzero.me/v2/predict/text"
	keyURL   = "https://gptzero.me/api"
)

// Spec returns the GPTZero wire spec.
func Spec() detect.Spec {
	return detect.Spec{
		ID:          detect.GPTZero,
		DisplayName: "GPTZero",
		Endpoint:    endpoint,
		Method:      http.MethodPost,
		Auth:        detect.Auth{Header: "x-api-key", Format: detect.AuthRaw},
		Scale:       detect.ScaleUnit,
		KeyURL:      keyURL,
		BuildBody: func(text, _ string) any {
			return gptzeroRequest{Document: text}
		},
		ExtractScore: extractScore,
	}
}

// extractScore prefers the per-document probability and falls back to the
// top-level field returned by older API versions.
func extractScore(body []byte) (float64, error) {
	var resp gptzeroResponse
	if err := detect.DecodeResponse(body, &resp); err != nil {
		return 0, err
	}

	var first detect.Float
	if len(resp.Documents) > 0 {
		first = resp.Documents[0].CompletelyGeneratedProb
	}

	return detect.FirstValid(first, resp.CompletelyGeneratedProb), nil
}
