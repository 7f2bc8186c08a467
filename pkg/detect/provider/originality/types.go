package originality

import "github.com/papercomputeco/aiscore/pkg/detect"

type originalityRequest struct {
	Content string `json:"content"`
}

type originalityResponse struct {
	Score *struct {
		AI       detect.Float `json:"ai"`
		Original detect.Float `json:"original"`
	} `json:"score"`
}
