// Package leaktest checks that code under test does not leave goroutines
// behind. Timers, workers and retry loops in this repo all own goroutines,
// so their shutdown tests use it.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// settleTimeout is how long Check waits for goroutines to exit
const settleTimeout = 500 * time.Millisecond

// GoroutineChecker remembers the goroutine count at creation
type GoroutineChecker struct {
	t        testing.TB
	baseline int
}

func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	return &GoroutineChecker{t: t, baseline: runtime.NumGoroutine()}
}

// Check fails the test if, after a short settle period, more than
// tolerance goroutines exist beyond the baseline.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	limit := g.baseline + tolerance
	deadline := time.Now().Add(settleTimeout)
	n := runtime.NumGoroutine()
	for n > limit && time.Now().Before(deadline) {
		runtime.Gosched()
		time.Sleep(10 * time.Millisecond)
		n = runtime.NumGoroutine()
	}

	if n > limit {
		g.t.Errorf("goroutine leak: baseline=%d now=%d tolerance=%d", g.baseline, n, tolerance)
	}
}

// Run executes fn and checks that it leaves no goroutines behind
func Run(t testing.TB, fn func()) {
	t.Helper()
	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}
