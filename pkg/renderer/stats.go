package renderer

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// RenderStats contains statistics about a rendered frame
type RenderStats struct {
	TotalPixels     int                  // Number of pixels rendered
	Elapsed         time.Duration        // Wall time spent in RenderFrame
	MeanLuminance   float64              // Mean linear luminance over all pixels
	StdDevLuminance float64              // Sample standard deviation of luminance
	MinLuminance    float64              // Darkest pixel
	MaxLuminance    float64              // Brightest pixel, may exceed 1 before clamping
	Rays            integrator.RayCounts // Rays traced for this frame, when the integrator counts them
}

// ComputeStats summarises the luminance of every pixel in fb
func ComputeStats(fb *Framebuffer) RenderStats {
	stats := RenderStats{TotalPixels: len(fb.Pixels)}
	if len(fb.Pixels) == 0 {
		return stats
	}

	lum := luminances(fb)
	if len(lum) > 1 {
		stats.MeanLuminance, stats.StdDevLuminance = stat.MeanStdDev(lum, nil)
	} else {
		stats.MeanLuminance = lum[0]
	}
	stats.MinLuminance = floats.Min(lum)
	stats.MaxLuminance = floats.Max(lum)

	return stats
}

// CalculateAverageLuminance returns the mean luminance of fb
func CalculateAverageLuminance(fb *Framebuffer) float64 {
	if len(fb.Pixels) == 0 {
		return 0
	}
	return stat.Mean(luminances(fb), nil)
}

func luminances(fb *Framebuffer) []float64 {
	lum := make([]float64, len(fb.Pixels))
	for i, c := range fb.Pixels {
		lum[i] = c.Luminance()
	}
	return lum
}
