package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func TestCamera_CenterPixelLooksForward(t *testing.T) {
	camera := NewCamera(scene.DefaultCameraConfig())

	ray := camera.GetRay(1, 1, 3, 3)
	expected := core.NewVec3(0, 0, -1)

	if math.Abs(ray.Direction.X-expected.X) > 1e-9 ||
		math.Abs(ray.Direction.Y-expected.Y) > 1e-9 ||
		math.Abs(ray.Direction.Z-expected.Z) > 1e-9 {
		t.Errorf("Expected direction %v, got %v", expected, ray.Direction)
	}
	if ray.Origin != camera.Origin() {
		t.Errorf("Expected ray to start at the eye %v, got %v", camera.Origin(), ray.Origin)
	}
}

func TestCamera_Projection(t *testing.T) {
	camera := NewCamera(scene.DefaultCameraConfig())

	tests := []struct {
		name     string
		col, row int
		expected core.Vec3
	}{
		// 4x2 image, 90 degree field of view, aspect 2
		{"top left", 0, 0, core.NewVec3(-1.5, 0.5, -1)},
		{"top right", 3, 0, core.NewVec3(1.5, 0.5, -1)},
		{"bottom left", 0, 1, core.NewVec3(-1.5, -0.5, -1)},
		{"bottom inner", 2, 1, core.NewVec3(0.5, -0.5, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GetRay(tt.col, tt.row, 4, 2)
			expected := tt.expected.Normalize()

			if math.Abs(ray.Direction.X-expected.X) > 1e-9 ||
				math.Abs(ray.Direction.Y-expected.Y) > 1e-9 ||
				math.Abs(ray.Direction.Z-expected.Z) > 1e-9 {
				t.Errorf("Expected direction %v, got %v", expected, ray.Direction)
			}
			if math.Abs(ray.Direction.Length()-1) > 1e-12 {
				t.Errorf("Expected unit direction, got length %f", ray.Direction.Length())
			}
		})
	}
}

func TestCamera_FieldOfView(t *testing.T) {
	narrow := NewCamera(scene.CameraConfig{VFov: 30})
	wide := NewCamera(scene.CameraConfig{VFov: 120})

	// Same pixel leans further off axis with the wider lens
	n := narrow.GetRay(0, 0, 10, 10).Direction
	w := wide.GetRay(0, 0, 10, 10).Direction
	if !(math.Abs(w.X) > math.Abs(n.X) && w.Y > n.Y) {
		t.Errorf("Expected wider field of view to spread rays further: narrow %v, wide %v", n, w)
	}
}

func TestCamera_Origin(t *testing.T) {
	origin := core.NewVec3(1, 2, 3)
	camera := NewCamera(scene.CameraConfig{Origin: origin, VFov: 60})

	ray := camera.GetRay(5, 5, 10, 10)
	if ray.Origin != origin {
		t.Errorf("Expected origin %v, got %v", origin, ray.Origin)
	}
}
