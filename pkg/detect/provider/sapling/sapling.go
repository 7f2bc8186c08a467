// Package sapling implements the detect.Spec for Sapling's AI detector.
// Sapling authenticates with the key inside the JSON body rather than a header.
package sapling

import (
	"net/http"

	"github.com/papercomputeco/aiscore/pkg/detect"
)

const (
	endpoint = "https://api.sapling.ai/api/v1/aidetect"
	keyURL   = "https://sapling.ai/api"
)

// Spec returns the Sapling wire spec.
func Spec() detect.Spec {
	return detect.Spec{
		ID:          detect.Sapling,
		DisplayName: "Sapling",
		Endpoint:    endpoint,
		Method:      http.MethodPost,
		Auth:        detect.Auth{Format: detect.AuthBody},
		Scale:       detect.ScaleUnit,
		KeyURL:      keyURL,
		BuildBody: func(text, credential string) any {
			return saplingRequest{Key: credential, Text: text}
		},
		ExtractScore: extractScore,
	}
}

func extractScore(body []byte) (float64, error) {
	var resp saplingResponse
	if err := detect.DecodeResponse(body, &resp); err != nil {
		return 0, err
	}
	return detect.FirstValid(resp.Score), nil
}
