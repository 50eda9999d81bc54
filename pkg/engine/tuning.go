package engine

import (
	"encoding/json"
	"fmt"
)

// TuningParams holds the real-time adjustable simulation parameters.
// These can be modified via the tuning API without restarting the
// engine.
type TuningParams struct {
	// Gesture
	PinchThreshold float64 `json:"pinch_threshold"` // Thumb-index distance that counts as a pinch

	// Interaction
	GrabRadius     float64 `json:"grab_radius"`      // Proximity radius for grab candidates
	BaseThrowForce float64 `json:"base_throw_force"` // Force used when motion is too small to infer
	ThrowAmplifyXZ float64 `json:"throw_amplify_xz"` // Horizontal exaggeration of inferred throws

	// Physics
	Gravity           float64 `json:"gravity"`            // Downward acceleration
	LinearDamping     float64 `json:"linear_damping"`     // Per-tick velocity retention
	AngularDamping    float64 `json:"angular_damping"`    // Per-tick spin retention
	BodyRestitution   float64 `json:"body_restitution"`   // Bounciness of body-body impacts
	GroundRestitution float64 `json:"ground_restitution"` // Bounciness of floor impacts
	HeldLerpFactor    float64 `json:"held_lerp_factor"`   // How hard a held body tracks the hand
}

// GetTuningParams returns the current tuning parameters.
func (a *App) GetTuningParams() TuningParams {
	a.mu.Lock()
	defer a.mu.Unlock()

	icfg := a.controller.Config()
	pcfg := a.world.Config()

	return TuningParams{
		PinchThreshold:    a.sampler.PinchThreshold,
		GrabRadius:        icfg.GrabRadius,
		BaseThrowForce:    icfg.BaseThrowForce,
		ThrowAmplifyXZ:    icfg.ThrowAmplifyXZ,
		Gravity:           pcfg.Gravity,
		LinearDamping:     pcfg.LinearDamping,
		AngularDamping:    pcfg.AngularDamping,
		BodyRestitution:   pcfg.BodyRestitution,
		GroundRestitution: pcfg.GroundRestitution,
		HeldLerpFactor:    pcfg.HeldLerpFactor,
	}
}

// SetTuningParams updates tuning parameters at runtime. Only non-zero
// values are applied.
func (a *App) SetTuningParams(params TuningParams) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Gesture
	if params.PinchThreshold > 0 {
		a.sampler.PinchThreshold = clamp(params.PinchThreshold, 0.01, 0.3)
	}

	// Interaction
	icfg := a.controller.Config()
	if params.GrabRadius > 0 {
		icfg.GrabRadius = clamp(params.GrabRadius, 0.1, 5)
	}
	if params.BaseThrowForce > 0 {
		icfg.BaseThrowForce = clamp(params.BaseThrowForce, 1, 100)
	}
	if params.ThrowAmplifyXZ > 0 {
		icfg.ThrowAmplifyXZ = clamp(params.ThrowAmplifyXZ, 0.5, 10)
	}
	a.controller.SetConfig(icfg)

	// Physics
	pcfg := a.world.Config()
	if params.Gravity > 0 {
		pcfg.Gravity = clamp(params.Gravity, 0.1, 50)
	}
	if params.LinearDamping > 0 {
		pcfg.LinearDamping = clamp(params.LinearDamping, 0.5, 1)
	}
	if params.AngularDamping > 0 {
		pcfg.AngularDamping = clamp(params.AngularDamping, 0.5, 1)
	}
	if params.BodyRestitution > 0 {
		pcfg.BodyRestitution = clamp(params.BodyRestitution, 0, 1)
	}
	if params.GroundRestitution > 0 {
		pcfg.GroundRestitution = clamp(params.GroundRestitution, 0, 1)
	}
	if params.HeldLerpFactor > 0 {
		pcfg.HeldLerpFactor = clamp(params.HeldLerpFactor, 0.05, 1)
	}
	a.world.SetConfig(pcfg)
}

// applyTuningJSON decodes a partial tuning update and returns the
// resulting full parameter set.
func (a *App) applyTuningJSON(body []byte) (interface{}, error) {
	var params TuningParams
	if err := json.Unmarshal(body, &params); err != nil {
		return nil, fmt.Errorf("decode tuning: %w", err)
	}
	a.SetTuningParams(params)
	return a.GetTuningParams(), nil
}

// clamp bounds value to [min, max].
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
