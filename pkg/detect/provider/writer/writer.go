// Package writer implements the detect.Spec for Writer.com's content detector.
// Writer's score scale is undocumented, so it is registered as ambiguous.
package writer

import (
	"net/http"

	"github.com/papercomputeco/aiscore/pkg/detect"
)

const (
	endpoint = "https://enterprise-api.writer.com/content/organization/detect"
	keyURL   = "https://writer.com/api"
)

// Spec returns the Writer.com wire spec.
func Spec() detect.Spec {
	return detect.Spec{
		ID:          detect.Writer,
		DisplayName: "Writer.com",
		Endpoint:    endpoint,
		Method:      http.MethodPost,
		Auth:        detect.Auth{Header: "Authorization", Format: detect.AuthBearer},
		Scale:       detect.ScaleAmbiguous,
		KeyURL:      keyURL,
		BuildBody: func(text, _ string) any {
			return writerRequest{Input: text}
		},
		ExtractScore: extractScore,
	}
}

func extractScore(body []byte) (float64, error) {
	var resp writerResponse
	if err := detect.DecodeResponse(body, &resp); err != nil {
		return 0, err
	}
	return detect.FirstValid(resp.Score, resp.AIScore), nil
}
