package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reference recomputes mean and population stddev directly from the
// sample list, independent of the accumulator's running sums.
func reference(samples []float64) (mean, stddev float64) {
	var sum float64
	for _, v := range samples {
		sum += v
	}
	mean = sum / float64(len(samples))
	var sqDiff float64
	for _, v := range samples {
		sqDiff += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sqDiff / float64(len(samples)))
}

func TestAccumulatorMatchesDirectRecomputation(t *testing.T) {
	cases := []struct {
		name    string
		samples []float64
	}{
		{"single value", []float64{42.5}},
		{"uniform values", []float64{10, 10, 10, 10}},
		{"two values", []float64{5, 7}},
		{"spread", []float64{1.5, 2.25, 100, 0, 33.3}},
		{"zeros", []float64{0, 0, 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var a Accumulator
			for _, v := range tc.samples {
				a.Record(v)
			}
			wantMean, wantStdDev := reference(tc.samples)

			mean, err := a.Mean()
			require.NoError(t, err)
			assert.InDelta(t, wantMean, mean, 1e-9)

			stddev, err := a.StdDev()
			require.NoError(t, err)
			assert.InDelta(t, wantStdDev, stddev, 1e-9)

			assert.Equal(t, int64(len(tc.samples)), a.Count())
		})
	}
}

func TestEmptyAccumulator(t *testing.T) {
	var a Accumulator

	_, err := a.Mean()
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = a.StdDev()
	assert.ErrorIs(t, err, ErrNoSamples)

	assert.Equal(t, int64(0), a.Count())
	assert.Equal(t, 0.0, a.Sum())
}

func TestStdDevClampsNegativeVariance(t *testing.T) {
	// Many identical large values make sumSq/n - mean^2 land a hair
	// below zero in floating point. The result must be 0, never NaN.
	var a Accumulator
	for i := 0; i < 1000; i++ {
		a.Record(10000.1)
	}
	stddev, err := a.StdDev()
	require.NoError(t, err)
	assert.False(t, math.IsNaN(stddev))
	assert.InDelta(t, 0, stddev, 1e-3)
}

func TestMeanOverNormalizesByRuns(t *testing.T) {
	// Two samples but three measured runs: a node that did not execute
	// in one run still averages over all three.
	var a Accumulator
	a.Record(10)
	a.Record(20)

	assert.InDelta(t, 10.0, a.MeanOver(3), 1e-9)
	assert.InDelta(t, 15.0, a.MeanOver(2), 1e-9)
}

func TestRecordAcceptsZero(t *testing.T) {
	var a Accumulator
	a.Record(0)
	mean, err := a.Mean()
	require.NoError(t, err)
	assert.Equal(t, 0.0, mean)
	assert.Equal(t, int64(1), a.Count())
}
