// Package optable holds the per-operator timing table: one stats
// accumulator per graph node, index-aligned with the node list fixed
// at graph construction. Slots are written concurrently by chain
// executors, which is safe because the scheduler guarantees that
// concurrently running chains own disjoint index sets.
package optable
