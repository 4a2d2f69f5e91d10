package container

import (
	"math/bits"

	"github.com/pkg/errors"
)

// LoadFactor is the maximum ratio of occupied plus removed slots to total slots.
type LoadFactor struct {
	Num, Den int
}

// DefaultLoadFactor keeps at least half of the slots empty.
var DefaultLoadFactor = LoadFactor{Num: 1, Den: 2}

// Validate requires 0 < Num < Den.
func (lf LoadFactor) Validate() error {
	if lf.Num <= 0 || lf.Num >= lf.Den {
		return errors.Errorf("container: invalid load factor %d/%d", lf.Num, lf.Den)
	}
	return nil
}

// slots returns the total slot count, a power of two of at least minTotal,
// and the usable count for holding minUsable entries.
func (lf LoadFactor) slots(minTotal, minUsable int) (total, usable int) {
	need := ceilDiv(minUsable*lf.Den, lf.Num)
	total = max(minTotal, pow2Ceil(need))
	usable = total * lf.Num / lf.Den
	return total, usable
}

func ceilDiv(x, y int) int {
	return (x + y - 1) / y
}

func pow2Ceil(x int) int {
	if x <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(x-1))
}
