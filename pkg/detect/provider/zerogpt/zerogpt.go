// Package zerogpt implements the detect.Spec for ZeroGPT. ZeroGPT reports a
// 0-100 percentage.
package zerogpt

import (
	"net/http"

	"github.com/papercomputeco/aiscore/pkg/detect"
)

const (
	endpoint = "https://api.zerogpt.com/api/detect/detectText"
	keyURL   = "https://zerogpt.com/api"
)

// Spec returns the ZeroGPT wire spec.
func Spec() detect.Spec {
	return detect.Spec{
		ID:          detect.ZeroGPT,
		DisplayName: "ZeroGPT",
		Endpoint:    endpoint,
		Method:      http.MethodPost,
		Auth:        detect.Auth{Header: "ApiKey", Format: detect.AuthRaw},
		Scale:       detect.ScalePercent,
		KeyURL:      keyURL,
		BuildBody: func(text, _ string) any {
			return zerogptRequest{InputText: text}
		},
		ExtractScore: extractScore,
	}
}

func extractScore(body []byte) (float64, error) {
	var resp zerogptResponse
	if err := detect.DecodeResponse(body, &resp); err != nil {
		return 0, err
	}

	var nested detect.Float
	if resp.Data != nil {
		nested = resp.Data.FakePercentage
	}

	return detect.FirstValid(nested, resp.FakePercentage), nil
}
