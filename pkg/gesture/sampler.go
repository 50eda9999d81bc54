package gesture

import "github.com/teslashibe/go-grasp/pkg/math3"

// Pinch and depth calibration constants. The thresholds are in normalized
// landmark units and were calibrated against MediaPipe hand output; the
// browser capture page must use the same landmark convention.
const (
	// DefaultPinchThreshold is the thumb-tip to index-tip 3D distance
	// below which the hand counts as pinching.
	DefaultPinchThreshold = 0.07

	// Landmark spread bounds: a hand filling the frame measures ~0.30
	// mean knuckle spread, a hand at arm's length ~0.05.
	spreadNear = 0.30
	spreadFar  = 0.05

	// NeutralDepth is reported when the spread cannot be measured.
	NeutralDepth = 0.5
)

// Frame is one normalized gesture sample, recomputed every tick.
// When Present is false only Grabbing and Movement are meaningful;
// callers must check Present before reading Position or Depth.
type Frame struct {
	Position  math3.Vec2 // index fingertip, X mirrored, in [0,1]x[0,1]
	Movement  math3.Vec2 // delta vs the previous frame's Position
	Grabbing  bool
	Depth     float64 // 0 = close to camera, 1 = far
	Present   bool
	Timestamp int64 // capture time, unix milliseconds
}

// Sampler derives gesture frames from raw hand landmarks. It holds only
// calibration constants; all per-tick state travels through the
// caller-supplied previous frame.
type Sampler struct {
	PinchThreshold float64
}

// NewSampler returns a sampler with default calibration.
func NewSampler() *Sampler {
	return &Sampler{PinchThreshold: DefaultPinchThreshold}
}

// Sample computes the gesture frame for one sensor sample. hand is nil
// when no hand is tracked. timestamp is the video presentation time of
// the sample; a sample carrying the same timestamp as the previous frame
// is a duplicate and returns the previous frame unchanged.
func (s *Sampler) Sample(hand *Hand, timestamp int64, prev Frame) Frame {
	if timestamp != 0 && timestamp == prev.Timestamp {
		return prev
	}

	// A sample without the index tip carries no usable position; treat
	// it the same as an absent hand.
	if hand == nil || len(hand.Landmarks) <= IndexTip {
		return Frame{
			Grabbing:  false,
			Movement:  math3.Vec2{},
			Present:   false,
			Timestamp: timestamp,
		}
	}

	frame := Frame{Present: true, Timestamp: timestamp}

	tip := hand.Landmarks[IndexTip]
	// Mirror X so the user's right maps to screen-right.
	frame.Position = math3.V2(1-tip.X, tip.Y)

	if prev.Present {
		frame.Movement = frame.Position.Sub(prev.Position)
	}

	pinch := distance3D(hand.Landmarks[ThumbTip], hand.Landmarks[IndexTip])
	frame.Grabbing = pinch < s.PinchThreshold

	frame.Depth = estimateDepth(hand.Landmarks)

	return frame
}

// estimateDepth maps the mean pairwise knuckle spread onto [0,1], where 0
// is close to the camera and 1 is far. This is a proxy, not metric depth:
// a larger hand image means a closer hand.
func estimateDepth(landmarks []Landmark) float64 {
	if len(landmarks) <= spreadLandmarks[len(spreadLandmarks)-1] {
		return NeutralDepth
	}

	var total float64
	var pairs int
	for i := 0; i < len(spreadLandmarks); i++ {
		for j := i + 1; j < len(spreadLandmarks); j++ {
			total += distance2D(landmarks[spreadLandmarks[i]], landmarks[spreadLandmarks[j]])
			pairs++
		}
	}
	avgSize := total / float64(pairs)

	normalized := (avgSize - spreadFar) / (spreadNear - spreadFar)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}
	return 1 - normalized
}
