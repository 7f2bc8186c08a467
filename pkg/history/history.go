// Package history defines the durable log of successful analyses.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/aiscore/pkg/detect"
)

// DefaultListLimit bounds List when callers pass a non-positive limit.
const DefaultListLimit = 20

// ErrNilRecord is returned when a nil record is stored.
var ErrNilRecord = errors.New("cannot store nil record")

// Record is a stored analysis result.
type Record struct {
	ID        string            `json:"id"`
	Provider  detect.ProviderID `json:"provider"`
	AIScore   float64           `json:"ai_score"`
	WordCount int               `json:"word_count"`
	CharCount int               `json:"char_count"`

	// Duration is how long the provider call took.
	Duration time.Duration `json:"duration_ns"`

	CreatedAt time.Time `json:"created_at"`
}

// NewRecord builds a Record with a fresh id from a detection result.
func NewRecord(r *detect.Result, took time.Duration) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Provider:  r.Provider,
		AIScore:   r.AIScore,
		WordCount: r.WordCount,
		CharCount: r.CharCount,
		Duration:  took,
		CreatedAt: r.Timestamp.UTC(),
	}
}

// Verdict classifies the stored score.
func (r *Record) Verdict() detect.Verdict {
	return detect.VerdictFor(r.AIScore)
}

// Driver persists and retrieves analysis records.
type Driver interface {
	// Put stores a record. Records are immutable once written.
	Put(ctx context.Context, rec *Record) error

	// Get retrieves a record by id. Returns NotFoundError when absent.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, most recent first.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Close releases any resources held by the driver.
	Close() error
}

// NotFoundError is returned when a record doesn't exist in the store.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return "record not found"
	}

	return "record not found: " + e.ID
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// NormalizeLimit applies DefaultListLimit to non-positive limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
