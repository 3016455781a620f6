package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

var testMaterial = material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))

func TestSphere_Intersect_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	if dist, isHit := sphere.Intersect(ray); isHit {
		t.Errorf("Expected miss, but got hit at t=%f", dist)
	}
}

func TestSphere_Intersect_Distances(t *testing.T) {
	tests := []struct {
		name         string
		center       core.Vec3
		radius       float64
		rayOrigin    core.Vec3
		rayDirection core.Vec3
		expectedT    float64
	}{
		{
			name:         "aimed at center",
			center:       core.NewVec3(0, 0, -10),
			radius:       2,
			rayOrigin:    core.NewVec3(0, 0, 0),
			rayDirection: core.NewVec3(0, 0, -1),
			expectedT:    8,
		},
		{
			name:         "aimed at offset center",
			center:       core.NewVec3(-3, 0, -16),
			radius:       2,
			rayOrigin:    core.NewVec3(0, 0, 0),
			rayDirection: core.NewVec3(-3, 0, -16).Normalize(),
			expectedT:    math.Sqrt(9+256) - 2,
		},
		{
			name:         "origin inside uses far intersection",
			center:       core.NewVec3(0, 0, 0),
			radius:       1,
			rayOrigin:    core.NewVec3(0, 0, 0),
			rayDirection: core.NewVec3(0, 0, 1),
			expectedT:    1,
		},
		{
			name:         "tangent ray",
			center:       core.NewVec3(0, 1, -5),
			radius:       1,
			rayOrigin:    core.NewVec3(0, 0, 0),
			rayDirection: core.NewVec3(0, 0, -1),
			expectedT:    5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sphere := NewSphere(tt.center, tt.radius, testMaterial)
			dist, isHit := sphere.Intersect(core.NewRay(tt.rayOrigin, tt.rayDirection))
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(dist-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, dist)
			}
		})
	}
}

func TestSphere_Intersect_Behind(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 5), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if dist, isHit := sphere.Intersect(ray); isHit {
		t.Errorf("Expected miss for sphere behind the ray, got t=%f", dist)
	}
}

// A ray from outside hits iff the line passes within the radius and the
// near intersection lies ahead of the origin.
func TestSphere_Intersect_MatchesLineDistance(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -10), 2.0, testMaterial)
	origin := core.NewVec3(0, 0, 0)

	for i := -20; i <= 20; i++ {
		for j := -20; j <= 20; j++ {
			dir := core.NewVec3(float64(i)*0.02, float64(j)*0.02, -1).Normalize()
			l := sphere.Center.Subtract(origin)
			tc := l.Dot(dir)
			perpendicular := math.Sqrt(math.Max(0, l.LengthSquared()-tc*tc))

			// Skip rays within rounding of tangency
			if math.Abs(perpendicular-sphere.Radius) < 1e-9 {
				continue
			}
			expected := perpendicular < sphere.Radius && tc > 0

			dist, isHit := sphere.Intersect(core.NewRay(origin, dir))
			if isHit != expected {
				t.Fatalf("dir %v: expected hit=%t, got %t (t=%f)", dir, expected, isHit, dist)
			}
			if isHit {
				point := origin.Add(dir.Multiply(dist))
				if math.Abs(point.Subtract(sphere.Center).Length()-sphere.Radius) > 1e-9 {
					t.Errorf("Hit point %v is not on the surface", point)
				}
			}
		}
	}
}

func TestSphere_NormalAt(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 2, 3), 2.0, testMaterial)
	normal := sphere.NormalAt(core.NewVec3(1, 4, 3))
	if normal != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected (0, 1, 0), got %v", normal)
	}
}

func TestSphere_Validate(t *testing.T) {
	if err := NewSphere(core.NewVec3(0, 0, 0), 1, testMaterial).Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	for _, radius := range []float64{0, -1, math.NaN()} {
		err := NewSphere(core.NewVec3(0, 0, 0), radius, testMaterial).Validate()
		if !errors.Is(err, core.ErrInvalidSphere) {
			t.Errorf("radius %f: expected ErrInvalidSphere, got %v", radius, err)
		}
	}

	bad := material.NewMaterial(core.NewVec3(1, 1, 1), core.NewVec4(1, 0, 0, 0), 0, -1)
	if err := NewSphere(core.NewVec3(0, 0, 0), 1, bad).Validate(); !errors.Is(err, core.ErrInvalidSphere) {
		t.Errorf("Expected ErrInvalidSphere for bad material, got %v", err)
	}
}
