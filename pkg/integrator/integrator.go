package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the color seen along a primary ray
	RayColor(ray core.Ray, s *scene.Scene) core.Vec3
}

// Config holds the tunable constants of the Whitted integrator
type Config struct {
	MaxDepth   int       // Deepest recursion level that is still shaded
	FarPlane   float64   // Hits at or beyond this distance count as misses
	Epsilon    float64   // Offset along the normal for secondary ray origins
	Background core.Vec3 // Returned on miss or when depth is exhausted
}

// DefaultConfig returns the reference render settings
func DefaultConfig() Config {
	return Config{
		MaxDepth:   5,
		FarPlane:   1000.0,
		Epsilon:    1e-3,
		Background: core.NewVec3(0.2, 0.7, 0.8),
	}
}
