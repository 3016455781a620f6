package material

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Material describes how a surface responds to light.
// Albedo weights the diffuse, specular, reflected and refracted
// contributions (X, Y, Z, W). The weights need not sum to one.
type Material struct {
	DiffuseColor     core.Vec3
	Albedo           core.Vec4
	SpecularExponent float64
	RefractiveIndex  float64 // only meaningful when Albedo.W > 0
}

// NewMaterial creates a new material
func NewMaterial(diffuse core.Vec3, albedo core.Vec4, specularExponent, refractiveIndex float64) Material {
	return Material{
		DiffuseColor:     diffuse,
		Albedo:           albedo,
		SpecularExponent: specularExponent,
		RefractiveIndex:  refractiveIndex,
	}
}

// NewDiffuse creates a purely diffuse material of the given color
func NewDiffuse(color core.Vec3) Material {
	return NewMaterial(color, core.NewVec4(1, 0, 0, 0), 0, 1.0)
}

// Presets used by the builtin scenes
var (
	Ivory     = NewMaterial(core.NewVec3(0.4, 0.4, 0.3), core.NewVec4(0.6, 0.3, 0.1, 0.0), 50, 1.0)
	Glass     = NewMaterial(core.NewVec3(0.6, 0.7, 0.8), core.NewVec4(0.0, 0.5, 0.1, 0.8), 125, 1.5)
	RedRubber = NewMaterial(core.NewVec3(0.3, 0.1, 0.1), core.NewVec4(0.9, 0.1, 0.0, 0.0), 10, 1.0)
	Mirror    = NewMaterial(core.NewVec3(1.0, 1.0, 1.0), core.NewVec4(0.0, 10.0, 0.8, 0.0), 1425, 1.0)
)

// Presets maps preset names to materials. Keys are lower case.
var Presets = map[string]Material{
	"ivory":      Ivory,
	"glass":      Glass,
	"red_rubber": RedRubber,
	"mirror":     Mirror,
}

// Validate checks that the material can be shaded
func (m Material) Validate() error {
	if m.RefractiveIndex <= 0 {
		return errorsmod.Wrapf(core.ErrInvalidMaterial, "refractive index must be positive, got %g", m.RefractiveIndex)
	}
	if m.SpecularExponent < 0 {
		return errorsmod.Wrapf(core.ErrInvalidMaterial, "specular exponent must be non-negative, got %g", m.SpecularExponent)
	}
	a := m.Albedo
	if a.X < 0 || a.Y < 0 || a.Z < 0 || a.W < 0 {
		return errorsmod.Wrapf(core.ErrInvalidMaterial, "albedo weights must be non-negative, got %v", a)
	}
	return nil
}
