package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// GoroutineChecker snapshots the goroutine count so tests can assert that
// pools and workers shut down without leaving goroutines behind.
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker records the current goroutine count.
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()

	runtime.Gosched()
	time.Sleep(10 * time.Millisecond)

	return &GoroutineChecker{
		before: runtime.NumGoroutine(),
		t:      t,
	}
}

// Check fails the test when more than tolerance goroutines remain above the
// snapshot. It polls for up to a second before declaring a leak, since
// exiting goroutines are not observable instantly.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	deadline := time.Now().Add(time.Second)
	leaked := 0
	for time.Now().Before(deadline) {
		runtime.Gosched()
		leaked = runtime.NumGoroutine() - g.before
		if leaked <= tolerance {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}

	g.t.Errorf("Potential goroutine leak: before=%d, leaked=%d (tolerance=%d)",
		g.before, leaked, tolerance)
}

// CheckNoGoroutineLeak runs fn and fails the test if it leaks any goroutines.
func CheckNoGoroutineLeak(t *testing.T, fn func()) {
	t.Helper()

	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}
