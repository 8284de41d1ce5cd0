// Package profiler is the instrumentation overlay on top of the
// engine. It times every operator invocation, accumulates per-operator
// and per-operator-type statistics across repeated full-graph runs,
// discards the first (warm-up) run, and exposes the aggregates as
// reports and as a teardown summary.
//
// The first run is excluded to avoid cold-start bias; statistics exist
// only once at least one measured run has completed.
package profiler
