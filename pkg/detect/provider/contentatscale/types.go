package contentatscale

import "github.com/papercomputeco/aiscore/pkg/detect"

type contentAtScaleRequest struct {
	Content string `json:"content"`
}

type contentAtScaleResponse struct {
	Probability   detect.Float `json:"probability"`
	AIProbability detect.Float `json:"ai_probability"`
	Score         detect.Float `json:"score"`
}
