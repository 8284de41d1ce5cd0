package optable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableIsZeroValued(t *testing.T) {
	tbl := New(4)
	require.Equal(t, 4, tbl.Len())
	for i := 0; i < 4; i++ {
		assert.Equal(t, int64(0), tbl.At(i).Count())
		assert.Equal(t, 0.0, tbl.At(i).Sum())
	}
}

func TestRecordOutOfRange(t *testing.T) {
	tbl := New(2)

	err := tbl.Record(2, 1.0)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	err = tbl.Record(-1, 1.0)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	// No partial mutation happened.
	assert.Equal(t, int64(0), tbl.At(0).Count())
	assert.Equal(t, int64(0), tbl.At(1).Count())
}

func TestCheckLen(t *testing.T) {
	tbl := New(3)
	assert.NoError(t, tbl.CheckLen(3))
	assert.ErrorIs(t, tbl.CheckLen(4), ErrLengthMismatch)
	assert.ErrorIs(t, tbl.CheckLen(0), ErrLengthMismatch)
}

func TestSnapshotIsIsolatedFromLiveTable(t *testing.T) {
	tbl := New(2)
	require.NoError(t, tbl.Record(0, 10))

	snap := tbl.Snapshot()
	require.NoError(t, tbl.Record(0, 5))
	require.NoError(t, tbl.Record(1, 7))

	// The snapshot keeps its pre-run values.
	assert.Equal(t, 10.0, snap.At(0).Sum())
	assert.Equal(t, 0.0, snap.At(1).Sum())
	assert.Equal(t, 15.0, tbl.At(0).Sum())
}

func TestDeltaSums(t *testing.T) {
	tbl := New(3)
	require.NoError(t, tbl.Record(0, 10))
	require.NoError(t, tbl.Record(2, 3))

	snap := tbl.Snapshot()
	require.NoError(t, tbl.Record(0, 2))
	require.NoError(t, tbl.Record(1, 20))

	deltas, err := tbl.DeltaSums(snap)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 20, 0}, deltas)
}

func TestDeltaSumsLengthMismatch(t *testing.T) {
	tbl := New(3)
	other := New(2)
	_, err := tbl.DeltaSums(other)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}
