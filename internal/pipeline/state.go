// Package pipeline implements the orchestration manager: a DAG of named
// stages with declared inputs/outputs, a persisted per-stage status
// table, and cache-aware resumability. The state-tracking shape follows
// a long-running, cancellable worker-pool/batch-writer idiom re-purposed
// around a stage table instead of a row buffer.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/komapc/ido-esperanto-extractor/internal/domain"
)

// Status is the closed set a stage's State.Status can hold.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// StageState is the persisted record for one stage.
type StageState struct {
	Status    Status     `yaml:"status"`
	StartTime *time.Time `yaml:"start_time,omitempty"`
	EndTime   *time.Time `yaml:"end_time,omitempty"`
	Error     string     `yaml:"error,omitempty"`
}

// State is the whole document persisted to StateFile. Unknown stage names
// are retained verbatim across loads, since a state file
// written by a newer pipeline revision may carry stages this binary
// doesn't define.
type State struct {
	Stages     map[string]StageState `yaml:"stages"`
	LastUpdate *time.Time            `yaml:"last_update,omitempty"`
}

// LoadState reads a state file, returning an empty State if path does not
// exist yet (a fresh pipeline has no history). A present-but-unreadable
// file is reported rather than swallowed, so the caller does not silently
// start over; a file that cannot be parsed yields an error wrapping
// domain.ErrStateCorrupted.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &State{Stages: map[string]StageState{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pipeline: read state %s: %w", path, err)
	}
	var s State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("pipeline: state %s: %w: %v", path, domain.ErrStateCorrupted, err)
	}
	if s.Stages == nil {
		s.Stages = map[string]StageState{}
	}
	return &s, nil
}

// Save writes the state file atomically: write to a temp file in the same
// directory, then rename over the target.
func (s *State) Save(path string) error {
	now := time.Now()
	s.LastUpdate = &now

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("pipeline: marshal state: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("pipeline: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*.yaml.tmp")
	if err != nil {
		return fmt.Errorf("pipeline: create temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("pipeline: write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("pipeline: close temp state file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("pipeline: rename state file: %w", err)
	}
	return nil
}
