// Package gesture converts raw hand-landmark samples into normalized
// per-tick hand frames for the interaction controller.
package gesture

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// spreadLandmarks are the reference points used for the depth estimate:
// the wrist plus the four finger-base knuckles. Their mutual spread
// shrinks as the hand moves away from the camera.
var spreadLandmarks = [5]int{Wrist, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}

// Landmark is a normalized 3D hand landmark. X and Y are in [0,1] image
// coordinates; Z is relative depth in the same normalized scale.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand is one detected hand: 21 landmarks plus the detector's metadata.
type Hand struct {
	Landmarks  []Landmark `json:"landmarks"`
	Handedness string     `json:"handedness"` // "Left" or "Right"
	Score      float64    `json:"score"`
}

// distance3D returns the Euclidean distance between two landmarks.
func distance3D(a, b Landmark) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// distance2D returns the image-plane distance between two landmarks.
func distance2D(a, b Landmark) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
