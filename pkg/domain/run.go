package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunID uniquely identifies a scan run.
type RunID uuid.UUID

// NewRunID returns a random RunID.
func NewRunID() RunID { return RunID(uuid.New()) }

func (id RunID) String() string { return uuid.UUID(id).String() }

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	// RunStatusRunning marks a run still scanning.
	RunStatusRunning RunStatus = "RUNNING"
	// RunStatusCompleted marks a run that finished both ranges.
	RunStatusCompleted RunStatus = "COMPLETED"
	// RunStatusInterrupted marks a run stopped by a signal; progress was saved.
	RunStatusInterrupted RunStatus = "INTERRUPTED"
	// RunStatusFailed marks a run aborted by a fatal error.
	RunStatusFailed RunStatus = "FAILED"
)

// RangeReport summarises the scan of one range within a run.
type RangeReport struct {
	Kind         RangeKind
	Start        int64
	Final        int64
	Checkpoint   int64
	Hits         int
	Empties      int
	Inconclusive int
}

// Run describes one invocation of the scan over all ranges.
type Run struct {
	ID         RunID
	Status     RunStatus
	Ranges     []RangeReport
	LastError  string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Hits returns the number of rows emitted across all ranges.
func (r *Run) Hits() int {
	n := 0
	for _, rr := range r.Ranges {
		n += rr.Hits
	}

	return n
}

// Report returns the report of range k, or nil when k was not scanned.
func (r *Run) Report(k RangeKind) *RangeReport {
	for i := range r.Ranges {
		if r.Ranges[i].Kind == k {
			return &r.Ranges[i]
		}
	}

	return nil
}
