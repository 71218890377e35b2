package carousel

import "sync/atomic"

const (
	idle int32 = iota
	running
)

// Guard lets at most one cycle run at a time. A trigger that finds the guard
// taken is dropped, never queued.
type Guard struct {
	state atomic.Int32
}

// TryAcquire moves the guard from idle to running. It never blocks.
func (g *Guard) TryAcquire() bool {
	return g.state.CompareAndSwap(idle, running)
}

// Release returns the guard to idle.
func (g *Guard) Release() {
	g.state.Store(idle)
}

// Running reports whether a cycle currently holds the guard.
func (g *Guard) Running() bool {
	return g.state.Load() == running
}

// Do runs fn if the guard could be acquired and reports whether it ran.
// The guard is released on every exit path, including a panic in fn.
func (g *Guard) Do(fn func()) bool {
	if !g.TryAcquire() {
		return false
	}
	defer g.Release()
	fn()
	return true
}
