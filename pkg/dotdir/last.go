package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/papercomputeco/aiscore/pkg/detect"
)

const (
	lastFile = "last.json"
)

// LastAnalysis is the persisted outcome of the most recent analysis. Exactly
// one of Result or Error is set.
type LastAnalysis struct {
	Result *detect.Result `json:"result,omitempty"`

	// Error is the user facing message for a failed analysis.
	Error string `json:"error,omitempty"`

	// Kind is the detection error kind, when Error is set.
	Kind string `json:"kind,omitempty"`

	RecordedAt time.Time `json:"recorded_at"`
}

// LoadLastAnalysis reads last.json from the target directory.
// Returns nil, nil if nothing has been recorded yet.
func (m *Manager) LoadLastAnalysis(overrideDir string) (*LastAnalysis, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return nil, nil
	}

	data, err := os.ReadFile(filepath.Join(dir, lastFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading last analysis: %w", err)
	}

	state := &LastAnalysis{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing last analysis: %w", err)
	}

	return state, nil
}

// SaveLastResult records a successful analysis, replacing any previous state.
func (m *Manager) SaveLastResult(result *detect.Result, overrideDir string) error {
	if result == nil {
		return errors.New("cannot save nil result")
	}
	return m.saveLast(&LastAnalysis{Result: result, RecordedAt: time.Now()}, overrideDir)
}

// SaveLastError records a failed analysis, replacing any previous state.
func (m *Manager) SaveLastError(analysisErr error, overrideDir string) error {
	if analysisErr == nil {
		return errors.New("cannot save nil error")
	}
	return m.saveLast(&LastAnalysis{
		Error:      detect.Message(analysisErr),
		Kind:       detect.KindOf(analysisErr).String(),
		RecordedAt: time.Now(),
	}, overrideDir)
}

func (m *Manager) saveLast(state *LastAnalysis, overrideDir string) error {
	dir, err := m.Ensure(overrideDir)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling last analysis: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, lastFile), data, 0o600); err != nil {
		return fmt.Errorf("writing last analysis: %w", err)
	}

	return nil
}

// ClearLastAnalysis removes last.json. Returns nil if it does not exist.
func (m *Manager) ClearLastAnalysis(overrideDir string) error {
	dir, err := m.Target(overrideDir)
	if err != nil || dir == "" {
		return err
	}

	if err := os.Remove(filepath.Join(dir, lastFile)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing last analysis: %w", err)
	}

	return nil
}
