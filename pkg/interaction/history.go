package interaction

import "github.com/teslashibe/go-grasp/pkg/math3"

// History is a bounded FIFO of recent hand world positions. The vector
// from its oldest to newest sample approximates the hand's motion over
// the last few ticks and drives throw inference.
type History struct {
	samples  []math3.Vec3
	capacity int
	minStep  float64
}

// NewHistory returns an empty history. minStep is the jitter gate:
// pushes closer than this to the newest sample are dropped.
func NewHistory(capacity int, minStep float64) *History {
	return &History{capacity: capacity, minStep: minStep}
}

// Push records a sample. A push within minStep of the newest sample is
// ignored; at capacity the oldest sample is evicted.
func (h *History) Push(p math3.Vec3) {
	if n := len(h.samples); n > 0 && h.samples[n-1].Distance(p) <= h.minStep {
		return
	}
	h.samples = append(h.samples, p)
	if len(h.samples) > h.capacity {
		h.samples = h.samples[1:]
	}
}

// Len returns the number of recorded samples.
func (h *History) Len() int {
	return len(h.samples)
}

// First returns the oldest sample, or zero when empty.
func (h *History) First() math3.Vec3 {
	if len(h.samples) == 0 {
		return math3.Vec3{}
	}
	return h.samples[0]
}

// Last returns the newest sample, or zero when empty.
func (h *History) Last() math3.Vec3 {
	if len(h.samples) == 0 {
		return math3.Vec3{}
	}
	return h.samples[len(h.samples)-1]
}

// Clear drops all samples.
func (h *History) Clear() {
	h.samples = h.samples[:0]
}
