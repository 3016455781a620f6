package geometry

import (
	"math"

	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Intersect returns the distance along the ray to the nearest intersection
// in front of the ray origin. The ray direction must be unit length.
func (s *Sphere) Intersect(ray core.Ray) (float64, bool) {
	// Vector from ray origin to sphere center
	l := s.Center.Subtract(ray.Origin)

	// Projection of the center onto the ray, and squared distance from the
	// center to the ray line
	tc := l.Dot(ray.Direction)
	d2 := l.Dot(l) - tc*tc

	radius2 := s.Radius * s.Radius
	if d2 > radius2 {
		return 0, false
	}

	halfChord := math.Sqrt(radius2 - d2)
	t := tc - halfChord
	if t < 0 {
		// Origin is inside the sphere or past the near intersection
		t = tc + halfChord
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// NormalAt returns the outward unit normal at a point on the surface
func (s *Sphere) NormalAt(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}

// Validate checks the sphere's radius and material
func (s *Sphere) Validate() error {
	if !(s.Radius > 0) {
		return errorsmod.Wrapf(core.ErrInvalidSphere, "radius must be positive, got %g", s.Radius)
	}
	if err := s.Material.Validate(); err != nil {
		return errorsmod.Wrapf(core.ErrInvalidSphere, "sphere at %v: %v", s.Center, err)
	}
	return nil
}
