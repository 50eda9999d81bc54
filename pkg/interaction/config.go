package interaction

import "github.com/teslashibe/go-grasp/pkg/math3"

// Config holds all tunable parameters for gesture-driven manipulation
type Config struct {
	// Candidate selection
	GrabRadius float64 // Bodies within this of the hand point are grabbable

	// Motion history
	HistoryCapacity int     // Samples kept for throw inference
	HistoryMinStep  float64 // Ignore hand moves smaller than this (jitter)

	// Throw inference
	MinThrowDistance      float64    // Below this the motion counts as a drop, not a throw
	ThrowAmplifyXZ        float64    // Horizontal/depth exaggeration of the motion vector
	ThrowMinLift          float64    // Floor on the vertical component, guarantees an arc
	BaseThrowForce        float64    // Force of a default (no-motion) throw
	ForceFloor            float64    // Min force as a fraction of base
	ForceCeil             float64    // Max force as a fraction of base
	DefaultThrowDirection math3.Vec3 // Used when there is no usable motion
}

// DefaultConfig returns the parameters the interaction feel was tuned with.
func DefaultConfig() Config {
	return Config{
		GrabRadius: 1.2,

		HistoryCapacity: 5,
		HistoryMinStep:  0.01,

		MinThrowDistance:      0.05,
		ThrowAmplifyXZ:        2.5,
		ThrowMinLift:          0.2,
		BaseThrowForce:        15,
		ForceFloor:            0.7,
		ForceCeil:             1.5,
		DefaultThrowDirection: math3.V3(0, 0.3, -1),
	}
}
