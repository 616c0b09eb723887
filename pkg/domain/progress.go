package domain

// Progress is the last confirmed position of every range. It is loaded before
// a run and rewritten whenever a range finishes or the run is interrupted.
type Progress struct {
	BritishLastNumber  int64 `json:"british_company_last_number"`
	ScottishLastNumber int64 `json:"scottish_company_last_number"`
}

// Last returns the stored position of range k.
func (p Progress) Last(k RangeKind) int64 {
	if k == RangeScottish {
		return p.ScottishLastNumber
	}

	return p.BritishLastNumber
}

// Set stores n as the position of range k. Negative positions are clamped to 0.
func (p *Progress) Set(k RangeKind, n int64) {
	n = max(n, 0)
	if k == RangeScottish {
		p.ScottishLastNumber = n
	} else {
		p.BritishLastNumber = n
	}
}

// Checkpoint returns the position to persist for a range that started at
// start and whose last settled number is final. It steps back so that the
// emptyLimit numbers after the checkpoint are looked at again next run, which
// for a range ended by the empty limit is exactly the last hit. It never
// moves behind start or below zero.
func Checkpoint(start, final int64, emptyLimit int) int64 {
	return max(start, final+1-int64(emptyLimit), 0)
}
