// Package scheduling is the availability and conflict engine: pure functions
// over minute-of-day integers, weekly schedules and appointment windows.
// Nothing here touches I/O or shared state, so everything is safe to call
// concurrently with immutable inputs.
package scheduling

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// RangesOverlap reports whether [aStart,aEnd) and [bStart,bEnd) intersect.
// Strict overlap: touching endpoints (aEnd == bStart) do not count.
func RangesOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// Contains reports whether [innerStart,innerEnd] lies entirely within
// [outerStart,outerEnd].
func Contains(outerStart, outerEnd, innerStart, innerEnd int) bool {
	return innerStart >= outerStart && innerEnd <= outerEnd
}

// UnionRange returns the minimal start and maximal end across the blocks.
// Disjoint blocks collapse into a single span; a lunch-break split location
// day therefore bounds edits by its outer envelope, which is deliberately
// permissive (the gap is not excluded). ok is false for an empty list.
func UnionRange(blocks []domain.TimeBlock) (min, max int, ok bool) {
	if len(blocks) == 0 {
		return 0, 0, false
	}

	min, max = blocks[0].Start.Minutes(), blocks[0].End.Minutes()
	for _, b := range blocks[1:] {
		if s := b.Start.Minutes(); s < min {
			min = s
		}
		if e := b.End.Minutes(); e > max {
			max = e
		}
	}
	return min, max, true
}

// blockRange returns the minute-of-day bounds of a block.
func blockRange(b domain.TimeBlock) (start, end int) {
	return b.Start.Minutes(), b.End.Minutes()
}

// containedInAny reports whether [start,end] fits inside at least one block.
func containedInAny(blocks []domain.TimeBlock, start, end int) bool {
	for _, b := range blocks {
		bs, be := blockRange(b)
		if Contains(bs, be, start, end) {
			return true
		}
	}
	return false
}
