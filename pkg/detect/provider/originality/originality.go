// Package originality implements the detect.Spec for Originality.ai's AI scan API.
package originality

import (
	"net/http"

	"github.com/papercomputeco/aiscore/pkg/detect"
)

const (
	endpoint = "https://api.originality.ai/api/v1/scan/ai"
	keyURL   = "https://originality.ai/api"
)

// Spec returns the Originality.ai wire spec.
func Spec() detect.Spec {
	return detect.Spec{
		ID:          detect.Originality,
		DisplayName: "Originality.ai",
		Endpoint:    endpoint,
		Method:      http.MethodPost,
		Auth:        detect.Auth{Header: "X-OAI-API-KEY", Format: detect.AuthRaw},
		Scale:       detect.ScaleUnit,
		KeyURL:      keyURL,
		BuildBody: func(text, _ string) any {
			return originalityRequest{Content: text}
		},
		ExtractScore: extractScore,
	}
}

func extractScore(body []byte) (float64, error) {
	var resp originalityResponse
	if err := detect.DecodeResponse(body, &resp); err != nil {
		return 0, err
	}

	if resp.Score == nil {
		return 0, nil
	}
	return detect.FirstValid(resp.Score.AI), nil
}
