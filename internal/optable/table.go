package optable

import (
	"errors"
	"fmt"

	"github.com/vk/dagprof/internal/stats"
)

// ErrLengthMismatch signals that the table no longer matches the live
// graph's node count. The graph is immutable after construction, so a
// mismatch is a programming error and unwinds the whole run.
var ErrLengthMismatch = errors.New("timing table length mismatch")

// Table is a fixed-size, index-aligned sequence of accumulators, one
// per graph node. The length is set at construction and never changes.
type Table struct {
	slots []stats.Accumulator
}

// New creates a table with exactly n zero-valued slots.
func New(n int) *Table {
	return &Table{slots: make([]stats.Accumulator, n)}
}

// Len returns the number of slots.
func (t *Table) Len() int {
	return len(t.slots)
}

// CheckLen verifies the table still covers exactly nodeCount nodes.
func (t *Table) CheckLen(nodeCount int) error {
	if len(t.slots) != nodeCount {
		return fmt.Errorf("%w: data collected for %d ops, expected %d ops",
			ErrLengthMismatch, len(t.slots), nodeCount)
	}
	return nil
}

// Record folds an elapsed-time measurement into slot idx.
func (t *Table) Record(idx int, elapsedMs float64) error {
	if idx < 0 || idx >= len(t.slots) {
		return fmt.Errorf("%w: expecting %d ops, but op #%d was given",
			ErrLengthMismatch, len(t.slots), idx)
	}
	t.slots[idx].Record(elapsedMs)
	return nil
}

// At returns the accumulator for slot idx.
func (t *Table) At(idx int) *stats.Accumulator {
	return &t.slots[idx]
}

// Snapshot returns a value copy of every slot. Mutating the live table
// after the copy does not affect the snapshot, which is what lets the
// orchestrator diff one run's contribution out of cumulative state.
func (t *Table) Snapshot() *Table {
	slots := make([]stats.Accumulator, len(t.slots))
	copy(slots, t.slots)
	return &Table{slots: slots}
}

// DeltaSums returns, per slot, the difference between this table's sum
// and the snapshot's sum. Only the sum field is diffed: count and
// sum-of-squares bookkeeping already happened inside Record and must
// not be double counted.
func (t *Table) DeltaSums(before *Table) ([]float64, error) {
	if len(before.slots) != len(t.slots) {
		return nil, fmt.Errorf("%w: snapshot has %d slots, table has %d",
			ErrLengthMismatch, len(before.slots), len(t.slots))
	}
	deltas := make([]float64, len(t.slots))
	for i := range t.slots {
		deltas[i] = t.slots[i].Sum() - before.slots[i].Sum()
	}
	return deltas, nil
}
