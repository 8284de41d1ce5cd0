// Package stats provides a constant-memory online accumulator for
// timing samples. It stores only {sum, sum of squares, count}, so
// mean and population standard deviation can be derived at any point
// without keeping per-sample history.
package stats
