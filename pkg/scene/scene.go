package scene

import (
	"math"

	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// CameraConfig positions the eye for primary rays. The camera looks down -Z.
type CameraConfig struct {
	Origin core.Vec3
	VFov   float64 // Vertical field of view in degrees
}

// DefaultCameraConfig returns an eye at the origin with a 90 degree field of view
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin: core.NewVec3(0, 0, 0),
		VFov:   90.0,
	}
}

// Scene contains all the elements needed for rendering.
// It must not be modified while a render is in progress; concurrent
// renders may share it.
type Scene struct {
	Name    string
	Spheres []*geometry.Sphere   // Scanned in order; earlier spheres win ties
	Lights  []*lights.PointLight // Shaded in order
	Camera  CameraConfig
}

// HitRecord contains information about the nearest ray-scene intersection
type HitRecord struct {
	Point    core.Vec3 // Point of intersection
	Normal   core.Vec3 // Unit normal, from sphere center toward the hit point
	Material material.Material
	Distance float64 // Distance along the ray
}

// New creates an empty scene with the default camera
func New(name string) *Scene {
	return &Scene{
		Name:    name,
		Spheres: make([]*geometry.Sphere, 0),
		Lights:  make([]*lights.PointLight, 0),
		Camera:  DefaultCameraConfig(),
	}
}

// AddSphere appends a sphere to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) *Scene {
	s.Spheres = append(s.Spheres, geometry.NewSphere(center, radius, mat))
	return s
}

// AddLight appends a point light to the scene
func (s *Scene) AddLight(position core.Vec3, intensity float64) *Scene {
	s.Lights = append(s.Lights, lights.NewPointLight(position, intensity))
	return s
}

// Intersect finds the nearest sphere hit by the ray. The hit only counts when
// it is closer than farPlane.
func (s *Scene) Intersect(ray core.Ray, farPlane float64) (HitRecord, bool) {
	var hit HitRecord
	closest := math.MaxFloat64

	for _, sphere := range s.Spheres {
		dist, isHit := sphere.Intersect(ray)
		if !isHit || dist >= closest {
			continue
		}
		closest = dist
		hit.Distance = dist
		hit.Point = ray.At(dist)
		hit.Normal = sphere.NormalAt(hit.Point)
		hit.Material = sphere.Material
	}

	if closest >= farPlane {
		return HitRecord{}, false
	}
	return hit, true
}

// Validate checks every sphere and light in the scene
func (s *Scene) Validate() error {
	for i, sphere := range s.Spheres {
		if err := sphere.Validate(); err != nil {
			return errorsmod.Wrapf(err, "scene %q sphere %d", s.Name, i)
		}
	}
	for i, light := range s.Lights {
		if err := light.Validate(); err != nil {
			return errorsmod.Wrapf(err, "scene %q light %d", s.Name, i)
		}
	}
	if !(s.Camera.VFov > 0 && s.Camera.VFov < 180) {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "scene %q field of view must be in (0, 180), got %g", s.Name, s.Camera.VFov)
	}
	return nil
}

// GetPrimitiveCount returns the number of spheres in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Spheres)
}
