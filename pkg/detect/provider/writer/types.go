package writer

import "github.com/papercomputeco/aiscore/pkg/detect"

type writerRequest struct {
	Input string `json:"input"`
}

type writerResponse struct {
	Score   detect.Float `json:"score"`
	AIScore detect.Float `json:"aiScore"`
}
