// Package diag holds the minimal per-run counters the batch driver needs
// to compute its exit status. Full diagnostic and comparison tooling is
// out of scope for this module.
package diag

// Counters tallies per-file outcomes across one batch run.
type Counters struct {
	Succeeded int
	Partial   int
	Failed    int
	Skipped   int
}

// AnyFailed reports whether any file in the run failed outright.
func (c Counters) AnyFailed() bool {
	return c.Failed > 0
}

// Total returns the number of files the run touched, including skips.
func (c Counters) Total() int {
	return c.Succeeded + c.Partial + c.Failed + c.Skipped
}
