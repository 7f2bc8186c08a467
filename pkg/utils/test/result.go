package testutils

import (
	"time"

	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/history"
)

// NewTestResult creates a detection result for testing.
func NewTestResult(provider detect.ProviderID, score float64) *detect.Result {
	return &detect.Result{
		Provider:  provider,
		AIScore:   score,
		WordCount: 12,
		CharCount: 64,
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// NewTestRecord creates a history record with the given id and creation time.
func NewTestRecord(id string, score float64, createdAt time.Time) *history.Record {
	return &history.Record{
		ID:        id,
		Provider:  detect.GPTZero,
		AIScore:   score,
		WordCount: 12,
		CharCount: 64,
		Duration:  250 * time.Millisecond,
		CreatedAt: createdAt.UTC(),
	}
}
