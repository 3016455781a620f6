package renderer

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ClampMode selects how out-of-range colors are brought into [0, 1]
type ClampMode string

const (
	// ClampChannels clamps each channel independently
	ClampChannels ClampMode = "clamp"
	// ClampRescale divides a pixel by its largest channel when that exceeds 1,
	// keeping the hue of over-bright highlights
	ClampRescale ClampMode = "rescale"
)

// Image formats understood by Encode
const (
	FormatPPM = "ppm"
	FormatPNG = "png"
)

// ParseClampMode converts a config or flag value into a ClampMode
func ParseClampMode(s string) (ClampMode, error) {
	switch mode := ClampMode(strings.ToLower(s)); mode {
	case ClampChannels, ClampRescale:
		return mode, nil
	case "":
		return ClampChannels, nil
	default:
		return "", errorsmod.Wrapf(core.ErrInvalidConfig, "unknown clamp mode %q (want clamp or rescale)", s)
	}
}

// ToDisplay maps a linear color into [0, 1]
func ToDisplay(c core.Vec3, mode ClampMode) core.Vec3 {
	if mode == ClampRescale {
		if m := c.MaxComponent(); m > 1 {
			c = c.Multiply(1 / m)
		}
	}
	return c.Clamp(0, 1)
}

// vec3ToColor converts a color to 8-bit RGBA
func vec3ToColor(c core.Vec3, mode ClampMode) color.RGBA {
	c = ToDisplay(c, mode)
	return color.RGBA{
		R: uint8(255 * c.X),
		G: uint8(255 * c.Y),
		B: uint8(255 * c.Z),
		A: 255,
	}
}

// ToRGBA converts the framebuffer to an 8-bit image
func ToRGBA(fb *Framebuffer, mode ClampMode) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, vec3ToColor(fb.At(x, y), mode))
		}
	}
	return img
}

// WritePPM writes the framebuffer as a binary PPM (P6) image
func WritePPM(w io.Writer, fb *Framebuffer, mode ClampMode) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return fmt.Errorf("failed to write PPM header: %w", err)
	}

	for _, c := range fb.Pixels {
		rgba := vec3ToColor(c, mode)
		if _, err := bw.Write([]byte{rgba.R, rgba.G, rgba.B}); err != nil {
			return fmt.Errorf("failed to write PPM pixels: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write PPM pixels: %w", err)
	}
	return nil
}

// WritePNG writes the framebuffer as a PNG image
func WritePNG(w io.Writer, fb *Framebuffer, mode ClampMode) error {
	if err := png.Encode(w, ToRGBA(fb, mode)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// Encode writes the framebuffer in the named format
func Encode(w io.Writer, fb *Framebuffer, format string, mode ClampMode) error {
	switch strings.ToLower(format) {
	case FormatPPM:
		return WritePPM(w, fb, mode)
	case FormatPNG:
		return WritePNG(w, fb, mode)
	default:
		return errorsmod.Wrapf(core.ErrInvalidConfig, "unknown image format %q (want ppm or png)", format)
	}
}

// ContentType returns the MIME type for an image format
func ContentType(format string) string {
	if strings.ToLower(format) == FormatPPM {
		return "image/x-portable-pixmap"
	}
	return "image/png"
}
