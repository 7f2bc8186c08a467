package testutils

import (
	"context"
	"errors"
	"sync"

	"github.com/papercomputeco/aiscore/pkg/eventstream"
)

// MockPublisher records published events.
type MockPublisher struct {
	mu     sync.Mutex
	events []*eventstream.AnalysisCompletedEvent

	// Fail causes PublishAnalysis to return an error.
	Fail bool
}

func (m *MockPublisher) PublishAnalysis(_ context.Context, event *eventstream.AnalysisCompletedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	if m.Fail {
		return errors.New("mock publish failure")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

// Events returns a copy of the published events.
func (m *MockPublisher) Events() []*eventstream.AnalysisCompletedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*eventstream.AnalysisCompletedEvent, len(m.events))
	copy(out, m.events)
	return out
}
