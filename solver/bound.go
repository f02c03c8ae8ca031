package solver

import "sync/atomic"

// A Bound is the shared best-known solution length. Every worker reads it
// to prune and tries to lower it when it finds a full solution. It only
// ever moves down: Lower is a read-decide-install loop that retries on
// conflict and never replaces a value with a larger one, so the bound is
// monotonically non-increasing for its whole lifetime.
type Bound struct {
	v atomic.Int64
}

// NewBound returns a bound initialized to the given sentinel, which must be
// larger than any reachable solution length.
func NewBound(sentinel int) *Bound {
	b := &Bound{}
	b.v.Store(int64(sentinel))
	return b
}

// Load returns a snapshot of the bound. A stale snapshot only costs a
// little pruning; it never makes a result wrong.
func (b *Bound) Load() int {
	return int(b.v.Load())
}

// Lower installs n if it is strictly smaller than the current bound,
// retrying if another goroutine raced an update in between. It reports
// whether n was installed.
func (b *Bound) Lower(n int) bool {
	for {
		cur := b.v.Load()
		if int64(n) >= cur {
			return false
		}
		if b.v.CompareAndSwap(cur, int64(n)) {
			return true
		}
	}
}
