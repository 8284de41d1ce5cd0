// Package typeagg aggregates one run's per-node timing deltas into
// per-operator-type statistics. Aggregation is two-level: node deltas
// are first summed into a per-run total for each type, and only that
// run total is recorded into the type's cross-run accumulator. The
// resulting variance therefore describes run-to-run noise of the
// type's total cost, not node-to-node noise within a run.
package typeagg
