package scanner

import (
	"companyscan/pkg/domain"
)

type outcomeKind int

const (
	outcomeInconclusive outcomeKind = iota
	outcomeEmpty
	outcomeHit
)

func (k outcomeKind) String() string {
	switch k {
	case outcomeHit:
		return "hit"
	case outcomeEmpty:
		return "empty"
	default:
		return "inconclusive"
	}
}

// outcome is the classification of one identifier. row is set for hits only.
type outcome struct {
	kind outcomeKind
	row  *domain.Row
}

// session is the state of one range scan: a cursor that only moves forward
// and the length of the current run of empty identifiers.
type session struct {
	kind       domain.RangeKind
	emptyLimit int
	cursor     int64
	emptyRun   int
	result     Result
}

func newSession(kind domain.RangeKind, start int64, emptyLimit int) *session {
	return &session{
		kind:       kind,
		emptyLimit: emptyLimit,
		cursor:     start,
		result:     Result{Start: start, Final: start},
	}
}

// advance moves the cursor to the next number and returns its identifier.
func (s *session) advance() string {
	s.cursor++

	return s.kind.Identifier(s.cursor)
}

// settle applies the outcome of the identifier under the cursor and reports
// whether the empty limit has been reached.
func (s *session) settle(o outcome) bool {
	switch o.kind {
	case outcomeHit:
		s.emptyRun = 0
		s.result.Hits++
	case outcomeEmpty:
		s.emptyRun++
		s.result.Empties++
	case outcomeInconclusive:
		s.result.Inconclusive++
	}

	if s.emptyRun >= s.emptyLimit {
		s.result.Final = s.cursor - 1
		s.result.Terminated = true

		return true
	}
	s.result.Final = s.cursor

	return false
}

// abandon records that the identifier under the cursor was not settled.
func (s *session) abandon() {
	s.result.Final = s.cursor - 1
}
