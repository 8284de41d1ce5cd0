// Package hclgraph loads operator graph definitions from HCL files.
// A definition consists of one optional `profile` block (network name,
// run count, worker count) and any number of `operator` blocks wired
// together through depends_on references. Operators carry a simulated
// work duration so a defined graph is directly runnable under the
// profiler without any real compute backend.
package hclgraph
