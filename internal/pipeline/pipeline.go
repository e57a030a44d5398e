package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// Stage is one DAG node: a named unit of work with declared input/output
// artifact paths and a pure-function body. Run receives
// ctx so long stages can be cancelled at page boundaries.
type Stage struct {
	Name    string
	Inputs  []string
	Outputs []string
	Run     func(ctx context.Context) error
}

// Manager runs a fixed, topologically-ordered list of Stages against a
// persisted State file, implementing skip/force/resume semantics: a
// stage already completed with fresher outputs than inputs is skipped
// unless forced.
type Manager struct {
	stages    []Stage
	statePath string
	log       *zap.Logger
}

// New builds a Manager over stages in declared (topological) order. The
// caller is responsible for declaring stages in an order consistent with
// their Inputs/Outputs; the pipeline is single-process and
// stage-sequential, so no separate topological sort is performed here —
// declaration order is execution order.
func New(stages []Stage, statePath string, log *zap.Logger) *Manager {
	return &Manager{stages: stages, statePath: statePath, log: log}
}

// RunOptions configures one invocation of Run.
type RunOptions struct {
	// Force reruns every stage regardless of cache.
	Force bool
	// FromStage forces the named stage and every declared stage from it
	// onward to rerun, regardless of cache.
	FromStage string
}

// Run executes the DAG once under opts, persisting state after every
// stage. On a stage failure it aborts immediately without touching any
// downstream stage; a subsequent Run with no FromStage/Force resumes
// from the failed stage because its state is left as StatusFailed.
func (m *Manager) Run(ctx context.Context, opts RunOptions) error {
	state, err := LoadState(m.statePath)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	forcing := opts.Force
	for _, stage := range m.stages {
		if opts.FromStage != "" && stage.Name == opts.FromStage {
			forcing = true
		}

		skip, reason := m.decide(stage, state, forcing)
		switch reason {
		case decisionSkipMissingInputs:
			state.Stages[stage.Name] = StageState{Status: StatusSkipped}
			m.log.Info("stage skipped: inputs missing", zap.String("stage", stage.Name))
			if err := state.Save(m.statePath); err != nil {
				return err
			}
			continue
		case decisionSkipCached:
			m.log.Info("stage skipped: cached", zap.String("stage", stage.Name))
			continue
		}
		if skip {
			continue
		}

		start := time.Now()
		state.Stages[stage.Name] = StageState{Status: StatusRunning, StartTime: &start}
		if err := state.Save(m.statePath); err != nil {
			return err
		}

		m.log.Info("stage starting", zap.String("stage", stage.Name))
		runErr := stage.Run(ctx)
		end := time.Now()

		if runErr != nil {
			state.Stages[stage.Name] = StageState{
				Status:    StatusFailed,
				StartTime: &start,
				EndTime:   &end,
				Error:     runErr.Error(),
			}
			if saveErr := state.Save(m.statePath); saveErr != nil {
				m.log.Error("failed to persist failure state", zap.Error(saveErr))
			}
			m.log.Error("stage failed", zap.String("stage", stage.Name), zap.Error(runErr))
			return fmt.Errorf("pipeline: stage %s: %w", stage.Name, runErr)
		}

		state.Stages[stage.Name] = StageState{Status: StatusCompleted, StartTime: &start, EndTime: &end}
		if err := state.Save(m.statePath); err != nil {
			return err
		}
		m.log.Info("stage completed", zap.String("stage", stage.Name), zap.Duration("elapsed", end.Sub(start)))
	}
	return nil
}

type skipDecision int

const (
	decisionRun skipDecision = iota
	decisionSkipCached
	decisionSkipMissingInputs
)

// decide implements the skip rule: a stage is skipped when all
// its declared outputs exist and are newer than all its declared inputs
// and the stage is marked completed in the state; a stage whose declared
// inputs are missing is marked skipped without propagating failure.
func (m *Manager) decide(stage Stage, state *State, forcing bool) (bool, skipDecision) {
	if !inputsPresent(stage.Inputs) {
		return true, decisionSkipMissingInputs
	}
	if forcing {
		return false, decisionRun
	}
	prev, known := state.Stages[stage.Name]
	if !known || prev.Status != StatusCompleted {
		return false, decisionRun
	}
	if !outputsNewerThanInputs(stage.Outputs, stage.Inputs) {
		return false, decisionRun
	}
	return true, decisionSkipCached
}

func inputsPresent(paths []string) bool {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

func outputsNewerThanInputs(outputs, inputs []string) bool {
	if len(outputs) == 0 {
		return false
	}
	var oldestOutput, newestInput time.Time
	for i, p := range outputs {
		info, err := os.Stat(p)
		if err != nil {
			return false
		}
		if i == 0 || info.ModTime().Before(oldestOutput) {
			oldestOutput = info.ModTime()
		}
	}
	for _, p := range inputs {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if info.ModTime().After(newestInput) {
			newestInput = info.ModTime()
		}
	}
	return oldestOutput.After(newestInput) || oldestOutput.Equal(newestInput)
}

// Status returns the current per-stage table).
func (m *Manager) Status(ctx context.Context) (map[string]StageState, error) {
	state, err := LoadState(m.statePath)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	out := make(map[string]StageState, len(m.stages))
	for _, stage := range m.stages {
		if st, ok := state.Stages[stage.Name]; ok {
			out[stage.Name] = st
		} else {
			out[stage.Name] = StageState{Status: StatusPending}
		}
	}
	return out, nil
}
