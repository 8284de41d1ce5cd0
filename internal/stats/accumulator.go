package stats

import (
	"errors"
	"math"
)

// ErrNoSamples is returned when a derived statistic is requested from
// an accumulator that has never recorded a value.
var ErrNoSamples = errors.New("no samples recorded")

// Accumulator aggregates a stream of non-negative measurements into
// {sum, sum of squares, count}. The zero value is ready to use.
//
// Accumulator is not internally synchronized. Callers that share one
// instance across goroutines must arrange exclusive ownership (the
// profiler does this by partitioning table slots per chain).
type Accumulator struct {
	sum   float64
	sumSq float64
	count int64
}

// Record folds a single measurement into the accumulator. Any value is
// accepted, including zero.
func (a *Accumulator) Record(v float64) {
	a.sum += v
	a.sumSq += v * v
	a.count++
}

// Count reports how many values have been recorded.
func (a *Accumulator) Count() int64 {
	return a.count
}

// Sum reports the running total of all recorded values.
func (a *Accumulator) Sum() float64 {
	return a.sum
}

// Mean returns the arithmetic mean of the recorded values. It fails
// with ErrNoSamples when nothing has been recorded yet.
func (a *Accumulator) Mean() (float64, error) {
	if a.count == 0 {
		return 0, ErrNoSamples
	}
	return a.sum / float64(a.count), nil
}

// StdDev returns the population standard deviation of the recorded
// values. It fails with ErrNoSamples when nothing has been recorded.
func (a *Accumulator) StdDev() (float64, error) {
	if a.count == 0 {
		return 0, ErrNoSamples
	}
	return a.StdDevOver(int(a.count)), nil
}

// MeanOver returns sum/n. Reports are normalized by the number of
// measured runs rather than the sample count, so a node skipped by a
// partially failed run still averages over every measured run.
func (a *Accumulator) MeanOver(n int) float64 {
	return a.sum / float64(n)
}

// StdDevOver returns the population standard deviation over n
// observations. Floating-point cancellation can drive the variance of
// a near-constant distribution slightly negative; it is clamped to
// zero before the square root so callers never see NaN.
func (a *Accumulator) StdDevOver(n int) float64 {
	mean := a.sum / float64(n)
	variance := a.sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}
