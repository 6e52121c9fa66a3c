// Package transaction guards install directories with a lock file and keeps
// a small journal of the most recent install attempt.
//
// Installs have no rollback. The journal records how far the last attempt
// got, so a later run can report an interrupted or failed install.
package transaction

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// JournalName is the journal file kept in the install directory.
const JournalName = ".qjsup-install.json"

// State represents the current state of an install or one of its steps.
type State string

const (
	StatePending    State = "pending"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateSkipped    State = "skipped"
	StateFailed     State = "failed"
)

// Step names one stage of an install.
type Step string

const (
	StepDownload Step = "download"
	StepVerify   Step = "verify"
	StepExtract  Step = "extract"
	StepChmod    Step = "chmod"
)

// Steps lists the install stages in execution order.
var Steps = []Step{StepDownload, StepVerify, StepExtract, StepChmod}

// InstallTxn records one install attempt.
type InstallTxn struct {
	Version     int       `json:"version"` // Schema version for future evolution
	ID          string    `json:"id"`      // UUID for unique identification
	Timestamp   time.Time `json:"timestamp"`
	Target      string    `json:"target"`
	FromVersion string    `json:"from_version,omitempty"` // empty for a fresh install
	ToVersion   string    `json:"to_version"`
	URL         string    `json:"url"`
	Steps       []StepTxn `json:"steps"`
}

// StepTxn represents the state of a single install step.
type StepTxn struct {
	Step      Step   `json:"step"`
	State     State  `json:"state"`
	LastError string `json:"last_error,omitempty"`
}

// New creates a journal entry with every step pending.
func New(target, fromVersion, toVersion, url string) *InstallTxn {
	steps := make([]StepTxn, 0, len(Steps))
	for _, s := range Steps {
		steps = append(steps, StepTxn{Step: s, State: StatePending})
	}

	return &InstallTxn{
		Version:     1,
		ID:          uuid.New().String(),
		Timestamp:   time.Now().UTC(),
		Target:      target,
		FromVersion: fromVersion,
		ToVersion:   toVersion,
		URL:         url,
		Steps:       steps,
	}
}

// Save writes the journal to dir atomically.
// Uses write-then-rename pattern for atomicity.
func (t *InstallTxn) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create journal directory: %w", err)
	}

	finalPath := filepath.Join(dir, JournalName)
	tmpPath := finalPath + ".tmp"

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal journal: %w", err)
	}

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write temporary journal file: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath) // Clean up temp file on error
		return fmt.Errorf("rename journal file: %w", err)
	}

	return nil
}

// Load reads the journal from dir. A missing journal returns an error
// satisfying errors.Is(err, fs.ErrNotExist).
func Load(dir string) (*InstallTxn, error) {
	data, err := os.ReadFile(filepath.Join(dir, JournalName))
	if err != nil {
		return nil, fmt.Errorf("read journal file: %w", err)
	}

	var txn InstallTxn
	if err := json.Unmarshal(data, &txn); err != nil {
		return nil, fmt.Errorf("unmarshal journal: %w", err)
	}

	return &txn, nil
}

// UpdateStep sets the state of step, recording err when non-nil.
func (t *InstallTxn) UpdateStep(step Step, state State, err error) {
	for i := range t.Steps {
		if t.Steps[i].Step == step {
			t.Steps[i].State = state
			if err != nil {
				t.Steps[i].LastError = err.Error()
			} else {
				t.Steps[i].LastError = ""
			}
			return
		}
	}
}

// FailedStep returns the first failed step, if any.
func (t *InstallTxn) FailedStep() (StepTxn, bool) {
	for _, s := range t.Steps {
		if s.State == StateFailed {
			return s, true
		}
	}
	return StepTxn{}, false
}

// State summarizes the install: failed if any step failed, completed when
// every step completed or was skipped, pending when nothing has started,
// and in progress otherwise.
func (t *InstallTxn) State() State {
	if len(t.Steps) == 0 {
		return StatePending
	}

	if _, failed := t.FailedStep(); failed {
		return StateFailed
	}

	done, pending := 0, 0
	for _, s := range t.Steps {
		switch s.State {
		case StateCompleted, StateSkipped:
			done++
		case StatePending:
			pending++
		}
	}

	switch {
	case done == len(t.Steps):
		return StateCompleted
	case pending == len(t.Steps):
		return StatePending
	default:
		return StateInProgress
	}
}
