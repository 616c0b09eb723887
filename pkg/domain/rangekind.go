package domain

import (
	"fmt"
)

// RangeKind selects an identifier space of the registry.
type RangeKind string

const (
	// RangeBritish covers England and Wales numbers: eight zero-padded digits.
	RangeBritish RangeKind = "british"
	// RangeScottish covers Scottish numbers: "SC" followed by six zero-padded digits.
	RangeScottish RangeKind = "scottish"
)

// Ranges lists every range in the order a run scans them.
var Ranges = []RangeKind{RangeBritish, RangeScottish} //nolint: gochecknoglobals

// Identifier formats n as a registry identifier of kind k.
func (k RangeKind) Identifier(n int64) string {
	if k == RangeScottish {
		return fmt.Sprintf("SC%06d", n)
	}

	return fmt.Sprintf("%08d", n)
}

// Valid reports whether k is a known range.
func (k RangeKind) Valid() bool {
	return k == RangeBritish || k == RangeScottish
}

func (k RangeKind) String() string { return string(k) }
