package physics

import "time"

// BaseTickRate is the tick frequency the per-tick damping factors were
// tuned at. Frame-rate-independent damping converts the factors to
// continuous decay rates calibrated against this rate.
const BaseTickRate = 60.0

// Config holds all tunable parameters for the simulation
type Config struct {
	// Forces
	Gravity float64 // Downward acceleration in units/s²

	// Arena
	GroundY         float64 // Height of the ground plane
	ArenaHalfExtent float64 // Walls sit at ±this on X and Z

	// Damping (per tick at BaseTickRate)
	LinearDamping  float64 // Velocity retained each tick
	AngularDamping float64 // Spin retained each tick

	// FrameRateIndependentDamping converts the per-tick damping factors
	// to continuous exponential decay so behavior no longer depends on
	// tick rate. Changes numeric results versus per-tick damping.
	FrameRateIndependentDamping bool

	// Restitution (energy retained on bounce)
	BodyRestitution   float64 // Body-body impulse
	GroundRestitution float64 // Vertical bounce off the ground
	WallRestitution   float64 // Horizontal bounce off arena walls

	// Ground contact
	GroundFriction       float64 // Horizontal velocity retained on ground hit
	GroundAngularDamping float64 // Spin retained on ground hit

	// Collision response
	PositionalCorrection float64       // Fraction of penetration pushed apart
	CollisionDebounce    time.Duration // Minimum gap between a body's collisions
	CollisionSpin        float64       // Max random spin kick per axis on impact

	// Hand follow
	HeldLerpFactor float64 // Fraction of the gap to the hand closed per tick

	// Release
	ReleaseSpinMax float64 // Max random spin per axis on release
}

// DefaultConfig returns the parameters the interaction feel was tuned with.
func DefaultConfig() Config {
	return Config{
		Gravity: 9.81,

		GroundY:         0,
		ArenaHalfExtent: 10,

		LinearDamping:  0.98,
		AngularDamping: 0.95,

		BodyRestitution:   0.7,
		GroundRestitution: 0.5,
		WallRestitution:   0.5,

		GroundFriction:       0.85,
		GroundAngularDamping: 0.85,

		PositionalCorrection: 0.6,
		CollisionDebounce:    100 * time.Millisecond,
		CollisionSpin:        0.5,

		HeldLerpFactor: 0.8,

		ReleaseSpinMax: 2.5,
	}
}

// VariableRateConfig returns a configuration for engines not locked to
// BaseTickRate: damping decays continuously instead of per tick.
func VariableRateConfig() Config {
	cfg := DefaultConfig()
	cfg.FrameRateIndependentDamping = true
	return cfg
}
