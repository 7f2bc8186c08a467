package zerogpt

import "github.com/papercomputeco/aiscore/pkg/detect"

type zerogptRequest struct {
	InputText string `json:"input_text"`
}

type zerogptResponse struct {
	Success bool `json:"success"`
	Data    *struct {
		FakePercentage detect.Float `json:"fakePercentage"`
	} `json:"data"`
	FakePercentage detect.Float `json:"fakePercentage"`
}
