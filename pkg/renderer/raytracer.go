package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// rayCounter is implemented by integrators that count traced rays
type rayCounter interface {
	Counts() integrator.RayCounts
}

// Raytracer drives an integrator over every pixel of a frame
type Raytracer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	camera     *Camera
	width      int
	height     int
	logger     core.Logger
}

// NewRaytracer creates a frame driver for the scene at the given resolution
func NewRaytracer(s *scene.Scene, integ integrator.Integrator, width, height int, logger core.Logger) (*Raytracer, error) {
	if width <= 0 || height <= 0 {
		return nil, errorsmod.Wrapf(core.ErrInvalidConfig, "image size must be positive, got %dx%d", width, height)
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	return &Raytracer{
		scene:      s,
		integrator: integ,
		camera:     NewCamera(s.Camera),
		width:      width,
		height:     height,
		logger:     logger,
	}, nil
}

// Width returns the frame width in pixels
func (rt *Raytracer) Width() int { return rt.width }

// Height returns the frame height in pixels
func (rt *Raytracer) Height() int { return rt.height }

// RenderFrame renders every pixel top row first. Cancellation is checked
// between rows; a cancelled render returns the context error.
func (rt *Raytracer) RenderFrame(ctx context.Context) (*Framebuffer, RenderStats, error) {
	start := time.Now()
	fb := NewFramebuffer(rt.width, rt.height)

	var before integrator.RayCounts
	counter, counts := rt.integrator.(rayCounter)
	if counts {
		before = counter.Counts()
	}

	rt.logger.Printf("Rendering %q at %dx%d (%d spheres, %d lights)\n",
		rt.scene.Name, rt.width, rt.height, rt.scene.GetPrimitiveCount(), len(rt.scene.Lights))

	for row := 0; row < rt.height; row++ {
		if err := ctx.Err(); err != nil {
			return nil, RenderStats{}, fmt.Errorf("render cancelled at row %d: %w", row, err)
		}
		rt.RenderBounds(image.Rect(0, row, rt.width, row+1), fb)
	}

	stats := ComputeStats(fb)
	stats.Elapsed = time.Since(start)
	if counts {
		after := counter.Counts()
		stats.Rays = integrator.RayCounts{
			Casts:       after.Casts - before.Casts,
			Shadow:      after.Shadow - before.Shadow,
			TIRSkipped:  after.TIRSkipped - before.TIRSkipped,
			Backgrounds: after.Backgrounds - before.Backgrounds,
		}
	}

	rt.logger.Printf("Rendered %d pixels in %v (mean luminance %.4f)\n",
		stats.TotalPixels, stats.Elapsed, stats.MeanLuminance)

	return fb, stats, nil
}

// RenderBounds renders the pixels inside bounds into fb. Bounds are clipped
// to the frame.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, fb *Framebuffer) {
	bounds = bounds.Intersect(image.Rect(0, 0, rt.width, rt.height))

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			ray := rt.camera.GetRay(i, j, rt.width, rt.height)
			fb.Set(i, j, rt.integrator.RayColor(ray, rt.scene))
		}
	}
}
