package chaos

import "github.com/san-kum/chaoseq/internal/projection"

// History keeps the final (x, y) at each iteration depth of the most recent
// sub-step. Reads during a sub-step see the previous sub-step; writes go to
// a separate snapshot that becomes the reference on Commit.
type History struct {
	ref    []projection.Point
	cur    []projection.Point
	filled bool
}

// NewHistory allocates a history for n iteration depths.
func NewHistory(n int) *History {
	return &History{
		ref: make([]projection.Point, n),
		cur: make([]projection.Point, n),
	}
}

// Len returns the number of iteration depths.
func (h *History) Len() int { return len(h.cur) }

// Reference returns the previous sample at depth i. ok is false until the
// first Commit.
func (h *History) Reference(i int) (projection.Point, bool) {
	if !h.filled {
		return projection.Point{}, false
	}
	return h.ref[i], true
}

// Record stores the sample at depth i for the sub-step in progress.
func (h *History) Record(i int, x, y float64) {
	h.cur[i] = projection.Point{X: x, Y: y}
}

// Commit publishes the recorded sub-step as the new reference.
func (h *History) Commit() {
	h.ref, h.cur = h.cur, h.ref
	h.filled = true
}

// Snapshot copies the reference samples. It is empty before the first
// Commit.
func (h *History) Snapshot() []projection.Point {
	if !h.filled {
		return nil
	}
	out := make([]projection.Point, len(h.ref))
	copy(out, h.ref)
	return out
}
