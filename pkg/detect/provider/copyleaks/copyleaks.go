// Package copyleaks implements the detect.Spec for the Copyleaks writer detector.
package copyleaks

import (
	"net/http"

	"github.com/papercomputeco/aiscore/pkg/detect"
)

const (
	endpoint = "https://api.copyleaks.com/v2/writer-detector/check"
	keyURL   = "https://copyleaks.com/ai-content-detector"
)

// Spec returns the Copyleaks wire spec.
func Spec() detect.Spec {
	return detect.Spec{
		ID:          detect.Copyleaks,
		DisplayName: "Copyleaks",
		Endpoint:    endpoint,
		Method:      http.MethodPost,
		Auth:        detect.Auth{Header: "Authorization", Format: detect.AuthBearer},
		Scale:       detect.ScaleUnit,
		KeyURL:      keyURL,
		BuildBody: func(text, _ string) any {
			return copyleaksRequest{Text: text}
		},
		ExtractScore: extractScore,
	}
}

func extractScore(body []byte) (float64, error) {
	var resp copyleaksResponse
	if err := detect.DecodeResponse(body, &resp); err != nil {
		return 0, err
	}

	var summary, results detect.Float
	if resp.Summary != nil {
		summary = resp.Summary.AI
	}
	if resp.Results != nil {
		results = resp.Results.AI
	}

	return detect.FirstValid(summary, results), nil
}
