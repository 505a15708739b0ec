// Package metrics implements [sim.Metric] reductions over the per-step
// samples of a run. The experiment registry builds them by name.
package metrics
