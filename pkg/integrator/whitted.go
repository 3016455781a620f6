package integrator

import (
	"math"
	"sync/atomic"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// RayCounts reports how many rays an integrator has traced
type RayCounts struct {
	Casts       int64 // Calls to Cast, primary and secondary
	Shadow      int64 // Shadow rays
	TIRSkipped  int64 // Refraction branches skipped by total internal reflection
	Backgrounds int64 // Casts that returned the background color
}

// WhittedIntegrator implements recursive Whitted ray tracing: Phong local
// shading with hard shadows plus mirror reflection and refraction.
// It holds no per-render state and may be shared between goroutines.
type WhittedIntegrator struct {
	config Config

	casts       atomic.Int64
	shadow      atomic.Int64
	tirSkipped  atomic.Int64
	backgrounds atomic.Int64
}

// NewWhittedIntegrator creates a new Whitted integrator
func NewWhittedIntegrator(config Config) *WhittedIntegrator {
	return &WhittedIntegrator{config: config}
}

// Config returns the integrator settings
func (wi *WhittedIntegrator) Config() Config {
	return wi.config
}

// Counts returns a snapshot of the ray counters
func (wi *WhittedIntegrator) Counts() RayCounts {
	return RayCounts{
		Casts:       wi.casts.Load(),
		Shadow:      wi.shadow.Load(),
		TIRSkipped:  wi.tirSkipped.Load(),
		Backgrounds: wi.backgrounds.Load(),
	}
}

// ResetCounts zeroes the ray counters
func (wi *WhittedIntegrator) ResetCounts() {
	wi.casts.Store(0)
	wi.shadow.Store(0)
	wi.tirSkipped.Store(0)
	wi.backgrounds.Store(0)
}

// RayColor computes the color for a primary ray
func (wi *WhittedIntegrator) RayColor(ray core.Ray, s *scene.Scene) core.Vec3 {
	return wi.Cast(ray, s, 0)
}

// Cast traces ray at the given recursion depth. Past MaxDepth, or when
// nothing is hit, it returns the background color.
func (wi *WhittedIntegrator) Cast(ray core.Ray, s *scene.Scene, depth int) core.Vec3 {
	wi.casts.Add(1)

	if depth > wi.config.MaxDepth {
		wi.backgrounds.Add(1)
		return wi.config.Background
	}

	hit, isHit := s.Intersect(ray, wi.config.FarPlane)
	if !isHit {
		wi.backgrounds.Add(1)
		return wi.config.Background
	}

	albedo := hit.Material.Albedo

	reflectDir := material.Reflect(ray.Direction, hit.Normal).Normalize()
	reflectRay := core.NewRay(OffsetOrigin(hit.Point, hit.Normal, reflectDir, wi.config.Epsilon), reflectDir)
	reflectColor := wi.Cast(reflectRay, s, depth+1)

	// Total internal reflection leaves no transmitted ray to follow
	var refractColor core.Vec3
	if refractDir, ok := material.Refract(ray.Direction, hit.Normal, hit.Material.RefractiveIndex); ok {
		refractDir = refractDir.Normalize()
		refractRay := core.NewRay(OffsetOrigin(hit.Point, hit.Normal, refractDir, wi.config.Epsilon), refractDir)
		refractColor = wi.Cast(refractRay, s, depth+1)
	} else {
		wi.tirSkipped.Add(1)
	}

	local := wi.Shade(ray, hit, s)

	return local.
		Add(reflectColor.Multiply(albedo.Z)).
		Add(refractColor.Multiply(albedo.W))
}

// Shade computes the local Phong color at a hit: diffuse and specular
// contributions from every unshadowed light, weighted by the albedo's
// first two components.
func (wi *WhittedIntegrator) Shade(ray core.Ray, hit scene.HitRecord, s *scene.Scene) core.Vec3 {
	diffuse, specular := 0.0, 0.0

	for _, light := range s.Lights {
		sample := light.Sample(hit.Point)
		if wi.InShadow(hit, sample, s) {
			continue
		}

		diffuse += sample.Intensity * math.Max(0, sample.Direction.Dot(hit.Normal))

		highlight := math.Max(0, material.Reflect(sample.Direction, hit.Normal).Dot(ray.Direction))
		specular += sample.Intensity * math.Pow(highlight, hit.Material.SpecularExponent)
	}

	albedo := hit.Material.Albedo
	diffuseColor := hit.Material.DiffuseColor.Multiply(diffuse * albedo.X)
	specularColor := core.NewVec3(1, 1, 1).Multiply(specular * albedo.Y)
	return diffuseColor.Add(specularColor)
}

// InShadow reports whether another surface lies between the hit point and
// the sampled light
func (wi *WhittedIntegrator) InShadow(hit scene.HitRecord, sample lights.LightSample, s *scene.Scene) bool {
	wi.shadow.Add(1)

	origin := OffsetOrigin(hit.Point, hit.Normal, sample.Direction, wi.config.Epsilon)
	blocker, isHit := s.Intersect(core.NewRay(origin, sample.Direction), wi.config.FarPlane)
	if !isHit {
		return false
	}
	return blocker.Point.Subtract(origin).Length() < sample.Distance
}

// OffsetOrigin nudges point by eps along the normal, toward the side dir
// is heading, so that a secondary ray does not hit its own surface.
func OffsetOrigin(point, normal, dir core.Vec3, eps float64) core.Vec3 {
	if dir.Dot(normal) < 0 {
		return point.Subtract(normal.Multiply(eps))
	}
	return point.Add(normal.Multiply(eps))
}
