package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/aiscore/pkg/detect"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeAnalysisCompleted is emitted after a provider returns a score.
	EventTypeAnalysisCompleted = "aiscore.analysis.completed"
)

// AnalysisCompletedEvent is a transport-neutral event payload for a
// successful analysis. It never carries the analyzed text or the credential.
type AnalysisCompletedEvent struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	EventID       string      `json:"event_id"`
	EmittedAt     time.Time   `json:"emitted_at"`
	Source        EventSource `json:"source"`
	Result        EventResult `json:"result"`
	RequestMeta   RequestMeta `json:"request_meta"`
}

// EventSource identifies which surface and provider produced the result.
type EventSource struct {
	// Surface is the entry point, e.g. "cli", "api" or "mcp".
	Surface  string `json:"surface"`
	Provider string `json:"provider"`
}

// EventResult is the normalized outcome.
type EventResult struct {
	AIScore   float64 `json:"ai_score"`
	Percent   int     `json:"percent"`
	Verdict   string  `json:"verdict"`
	WordCount int     `json:"word_count"`
	CharCount int     `json:"char_count"`
}

// RequestMeta captures request lifecycle metadata for the event.
type RequestMeta struct {
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMs  int64     `json:"duration_ms"`
}

// NewAnalysisCompletedEvent builds an event for result. startedAt is when the
// provider call began.
func NewAnalysisCompletedEvent(surface string, result *detect.Result, startedAt time.Time) *AnalysisCompletedEvent {
	completed := result.Timestamp
	return &AnalysisCompletedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeAnalysisCompleted,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source: EventSource{
			Surface:  surface,
			Provider: string(result.Provider),
		},
		Result: EventResult{
			AIScore:   result.AIScore,
			Percent:   result.Percent(),
			Verdict:   string(result.Verdict()),
			WordCount: result.WordCount,
			CharCount: result.CharCount,
		},
		RequestMeta: RequestMeta{
			StartedAt:   startedAt.UTC(),
			CompletedAt: completed.UTC(),
			DurationMs:  completed.Sub(startedAt).Milliseconds(),
		},
	}
}
