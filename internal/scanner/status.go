package scanner

import (
	"sync"
	"time"

	"companyscan/pkg/domain"
)

// RangeStatus is a point-in-time view of one range scan.
type RangeStatus struct {
	Kind         domain.RangeKind
	Start        int64
	Cursor       int64
	EmptyRun     int
	Hits         int
	Empties      int
	Inconclusive int
	Running      bool
	UpdatedAt    time.Time
}

// Status tracks the live state of every range so that it can be served while
// a run is in progress. A nil *Status ignores updates.
type Status struct {
	mu     sync.RWMutex
	ranges map[domain.RangeKind]RangeStatus
}

// NewStatus returns an empty Status.
func NewStatus() *Status {
	return &Status{ranges: make(map[domain.RangeKind]RangeStatus)}
}

// Snapshot returns the state of every range seen so far, in scan order.
func (s *Status) Snapshot() []RangeStatus {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]RangeStatus, 0, len(s.ranges))
	for _, kind := range domain.Ranges {
		if rs, ok := s.ranges[kind]; ok {
			out = append(out, rs)
		}
	}

	return out
}

func (s *Status) begin(kind domain.RangeKind, start int64) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ranges[kind] = RangeStatus{Kind: kind, Start: start, Cursor: start, Running: true, UpdatedAt: time.Now()}
}

func (s *Status) update(kind domain.RangeKind, sess *session) {
	s.set(kind, sess, true)
}

func (s *Status) finish(kind domain.RangeKind, sess *session) {
	s.set(kind, sess, false)
}

func (s *Status) set(kind domain.RangeKind, sess *session, running bool) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ranges[kind] = RangeStatus{
		Kind:         kind,
		Start:        sess.result.Start,
		Cursor:       sess.cursor,
		EmptyRun:     sess.emptyRun,
		Hits:         sess.result.Hits,
		Empties:      sess.result.Empties,
		Inconclusive: sess.result.Inconclusive,
		Running:      running,
		UpdatedAt:    time.Now(),
	}
}
