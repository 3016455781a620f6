package renderer

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Camera generates primary rays through the pixel centers of an image plane
// at distance 1 down -Z
type Camera struct {
	origin  core.Vec3
	tanHalf float64 // tan(vfov/2)
}

// NewCamera creates a pinhole camera from a scene's camera settings
func NewCamera(config scene.CameraConfig) *Camera {
	return &Camera{
		origin:  config.Origin,
		tanHalf: math.Tan(config.VFov * math.Pi / 180 / 2),
	}
}

// GetRay returns the primary ray for pixel (col, row) of a width x height
// image. Row 0 is the top of the image.
func (c *Camera) GetRay(col, row, width, height int) core.Ray {
	w, h := float64(width), float64(height)

	x := (2*(float64(col)+0.5)/w - 1) * c.tanHalf * w / h
	y := -(2*(float64(row)+0.5)/h - 1) * c.tanHalf

	return core.NewRay(c.origin, core.NewVec3(x, y, -1).Normalize())
}

// Origin returns the eye position
func (c *Camera) Origin() core.Vec3 {
	return c.origin
}
