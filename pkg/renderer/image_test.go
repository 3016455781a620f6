package renderer

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestToDisplay(t *testing.T) {
	tests := []struct {
		name     string
		color    core.Vec3
		mode     ClampMode
		expected core.Vec3
	}{
		{"in range clamp", core.NewVec3(0.25, 0.5, 0.75), ClampChannels, core.NewVec3(0.25, 0.5, 0.75)},
		{"in range rescale", core.NewVec3(0.25, 0.5, 0.75), ClampRescale, core.NewVec3(0.25, 0.5, 0.75)},
		{"bright clamp", core.NewVec3(2, 1, 0.5), ClampChannels, core.NewVec3(1, 1, 0.5)},
		{"bright rescale", core.NewVec3(2, 1, 0.5), ClampRescale, core.NewVec3(1, 0.5, 0.25)},
		{"negative", core.NewVec3(-1, 0.5, 0), ClampChannels, core.NewVec3(0, 0.5, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDisplay(tt.color, tt.mode)
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestParseClampMode(t *testing.T) {
	tests := []struct {
		input    string
		expected ClampMode
		wantErr  bool
	}{
		{"clamp", ClampChannels, false},
		{"RESCALE", ClampRescale, false},
		{"", ClampChannels, false},
		{"gamma", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClampMode(tt.input)
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidConfig) {
					t.Errorf("Expected ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestWritePPM(t *testing.T) {
	fb := NewFramebuffer(2, 1)
	fb.Set(0, 0, core.NewVec3(2, 1, 0.5))
	fb.Set(1, 0, core.NewVec3(0, 0, 0))

	tests := []struct {
		mode     ClampMode
		expected []byte
	}{
		{ClampChannels, []byte{255, 255, 127, 0, 0, 0}},
		{ClampRescale, []byte{255, 127, 63, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			var buf bytes.Buffer
			if err := WritePPM(&buf, fb, tt.mode); err != nil {
				t.Fatalf("WritePPM failed: %v", err)
			}

			header := "P6\n2 1\n255\n"
			out := buf.Bytes()
			if !bytes.HasPrefix(out, []byte(header)) {
				t.Fatalf("Expected header %q, got %q", header, out[:min(len(out), len(header))])
			}
			if pixels := out[len(header):]; !bytes.Equal(pixels, tt.expected) {
				t.Errorf("Expected pixels %v, got %v", tt.expected, pixels)
			}
		})
	}
}

func TestWritePNG(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.Set(2, 1, core.NewVec3(1, 0, 0.5))

	var buf bytes.Buffer
	if err := WritePNG(&buf, fb, ClampChannels); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("Expected 3x2 image, got %v", b)
	}

	r, g, b, a := img.At(2, 1).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 127 || a>>8 != 255 {
		t.Errorf("Expected (255,0,127,255), got (%d,%d,%d,%d)", r>>8, g>>8, b>>8, a>>8)
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r != 0 {
		t.Errorf("Expected black pixel, got red %d", r>>8)
	}
}

func TestEncode(t *testing.T) {
	fb := NewFramebuffer(1, 1)

	var ppm bytes.Buffer
	if err := Encode(&ppm, fb, "PPM", ClampChannels); err != nil {
		t.Fatalf("Encode ppm failed: %v", err)
	}
	if !bytes.HasPrefix(ppm.Bytes(), []byte("P6\n")) {
		t.Error("Expected PPM output")
	}

	var pngBuf bytes.Buffer
	if err := Encode(&pngBuf, fb, FormatPNG, ClampChannels); err != nil {
		t.Fatalf("Encode png failed: %v", err)
	}
	if !bytes.HasPrefix(pngBuf.Bytes(), []byte("\x89PNG")) {
		t.Error("Expected PNG signature")
	}

	if err := Encode(&bytes.Buffer{}, fb, "gif", ClampChannels); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for unknown format, got %v", err)
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType(FormatPPM); got != "image/x-portable-pixmap" {
		t.Errorf("Unexpected PPM content type %q", got)
	}
	if got := ContentType(FormatPNG); got != "image/png" {
		t.Errorf("Unexpected PNG content type %q", got)
	}
}
