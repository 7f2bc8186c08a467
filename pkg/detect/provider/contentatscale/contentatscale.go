// Package contentatscale implements the detect.Spec for the Content at Scale
// AI detector. Its probability may arrive as 0-1 or 0-100.
package contentatscale

import (
	"net/http"

	"github.com/papercomputeco/aiscore/pkg/detect"
)

const (
	endpoint = "https://api.contentatscale.ai/v1/detect"
	keyURL   = "https://contentatscale.ai/ai-content-detector"
)

// Spec returns the Content at Scale wire spec.
func Spec() detect.Spec {
	return detect.Spec{
		ID:          detect.ContentAtScale,
		DisplayName: "Content at Scale",
		Endpoint:    endpoint,
		Method:      http.MethodPost,
		Auth:        detect.Auth{Header: "x-api-key", Format: detect.AuthRaw},
		Scale:       detect.ScaleAmbiguous,
		KeyURL:      keyURL,
		BuildBody: func(text, _ string) any {
			return contentAtScaleRequest{Content: text}
		},
		ExtractScore: extractScore,
	}
}

func extractScore(body []byte) (float64, error) {
	var resp contentAtScaleResponse
	if err := detect.DecodeResponse(body, &resp); err != nil {
		return 0, err
	}
	return detect.FirstValid(resp.Probability, resp.AIProbability, resp.Score), nil
}
