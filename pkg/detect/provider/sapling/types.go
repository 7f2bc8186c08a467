package sapling

import "github.com/papercomputeco/aiscore/pkg/detect"

type saplingRequest struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

type saplingResponse struct {
	Score detect.Float `json:"score"`
}
