// Package engine is the execution layer underneath the profiler. It
// owns graph topology (a fixed set of operator nodes plus dependency
// edges), collapses linear runs of nodes into chains, and dispatches
// independent chains concurrently across a worker pool. The profiler
// plugs in as the ChainFunc that actually executes each chain's nodes.
package engine
