package copyleaks

import "github.com/papercomputeco/aiscore/pkg/detect"

type copyleaksRequest struct {
	Text string `json:"text"`
}

type copyleaksBreakdown struct {
	AI    detect.Float `json:"ai"`
	Human detect.Float `json:"human"`
}

type copyleaksResponse struct {
	Summary *copyleaksBreakdown `json:"summary"`
	Results *copyleaksBreakdown `json:"results"`
}
