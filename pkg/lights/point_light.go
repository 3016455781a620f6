package lights

import (
	"math"

	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PointLight is an isotropic light at a position. Intensity is not
// attenuated with distance.
type PointLight struct {
	Position  core.Vec3
	Intensity float64
}

// LightSample describes a light as seen from a shading point
type LightSample struct {
	Direction core.Vec3 // Unit direction from shading point to light
	Distance  float64   // Distance to light
	Intensity float64
}

// NewPointLight creates a new point light
func NewPointLight(position core.Vec3, intensity float64) *PointLight {
	return &PointLight{Position: position, Intensity: intensity}
}

// Sample returns the direction and distance from point to the light
func (pl *PointLight) Sample(point core.Vec3) LightSample {
	toLight := pl.Position.Subtract(point)
	return LightSample{
		Direction: toLight.Normalize(),
		Distance:  toLight.Length(),
		Intensity: pl.Intensity,
	}
}

// Validate checks the light intensity
func (pl *PointLight) Validate() error {
	if pl.Intensity < 0 || math.IsNaN(pl.Intensity) {
		return errorsmod.Wrapf(core.ErrInvalidLight, "intensity must be non-negative, got %g", pl.Intensity)
	}
	return nil
}
