package gptzero

import "github.com/papercomputeco/aiscore/pkg/detect"

// gptzeroRequest is the request body for /v2/predict/text.
type gptzeroRequest struct {
	Document string `json:"document"`
}

type gptzeroDocument struct {
	CompletelyGeneratedProb detect.Float `json:"completely_generated_prob"`
}

// gptzeroResponse covers both the documents array and the legacy flat shape.
type gptzeroResponse struct {
	Documents               []gptzeroDocument `json:"documents"`
	CompletelyGeneratedProb detect.Float      `json:"completely_generated_prob"`
}
