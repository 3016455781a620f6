package material

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func vecNear(a, b core.Vec3, tolerance float64) bool {
	return a.Subtract(b).Length() <= tolerance
}

func TestReflect(t *testing.T) {
	incoming := core.NewVec3(1, -1, 0).Normalize()
	normal := core.NewVec3(0, 1, 0)

	reflected := Reflect(incoming, normal)
	expected := core.NewVec3(1, 1, 0).Normalize()
	if !vecNear(reflected, expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, reflected)
	}
}

func TestReflect_TwiceIsIdentity(t *testing.T) {
	vectors := []core.Vec3{
		core.NewVec3(1, -1, 0).Normalize(),
		core.NewVec3(0.3, 0.4, -0.5).Normalize(),
		core.NewVec3(0, 0, -1),
		core.NewVec3(-2, 7, 1).Normalize(),
	}
	normals := []core.Vec3{
		core.NewVec3(0, 1, 0),
		core.NewVec3(1, 1, 1).Normalize(),
		core.NewVec3(0, 0, 1),
		core.NewVec3(-0.2, 0.1, 0.9).Normalize(),
	}

	for _, v := range vectors {
		for _, n := range normals {
			twice := Reflect(Reflect(v, n), n)
			if !vecNear(twice, v, 1e-12) {
				t.Errorf("reflect(reflect(%v, %v)) = %v, want original", v, n, twice)
			}
		}
	}
}

func TestRefract_IndexOneKeepsDirection(t *testing.T) {
	tests := []struct {
		name      string
		direction core.Vec3
		normal    core.Vec3
	}{
		{"normal incidence", core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1)},
		{"oblique entering", core.NewVec3(1, 0, -1).Normalize(), core.NewVec3(0, 0, 1)},
		{"oblique exiting", core.NewVec3(0.2, 0.3, 1).Normalize(), core.NewVec3(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refracted, ok := Refract(tt.direction, tt.normal, 1.0)
			if !ok {
				t.Fatal("Expected transmission with index 1")
			}
			if !vecNear(refracted, tt.direction, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.direction, refracted)
			}
		})
	}
}

func TestRefract_SnellsLaw(t *testing.T) {
	const index = 1.5
	normal := core.NewVec3(0, 1, 0)

	// Entering: 45 degrees from above
	in := core.NewVec3(1, -1, 0).Normalize()
	out, ok := Refract(in, normal, index)
	if !ok {
		t.Fatal("Expected refraction when entering glass")
	}
	if math.Abs(out.Length()-1) > 1e-12 {
		t.Errorf("Refracted direction should be unit length, got %f", out.Length())
	}
	sinIn := math.Abs(in.X)
	sinOut := math.Abs(out.X)
	if math.Abs(sinIn-index*sinOut) > 1e-12 {
		t.Errorf("Snell's law violated: sin_in=%f, 1.5*sin_out=%f", sinIn, index*sinOut)
	}
	if out.Y >= 0 {
		t.Errorf("Refracted ray should continue into the surface, got %v", out)
	}

	// Exiting at a shallow angle: sin_out = 1.5 * sin_in
	exit := core.NewVec3(0.5, math.Sqrt(0.75), 0)
	out, ok = Refract(exit, normal, index)
	if !ok {
		t.Fatal("Expected refraction when exiting below the critical angle")
	}
	if math.Abs(math.Abs(out.X)-index*0.5) > 1e-12 {
		t.Errorf("Expected sin_out 0.75, got %f", math.Abs(out.X))
	}
	if out.Y <= 0 {
		t.Errorf("Exiting ray should leave through the surface, got %v", out)
	}
}

func TestRefract_TotalInternalReflection(t *testing.T) {
	// Leaving glass at 60 degrees from the normal exceeds the critical angle (~41.8)
	dir := core.NewVec3(math.Sqrt(0.75), 0.5, 0)
	out, ok := Refract(dir, core.NewVec3(0, 1, 0), 1.5)
	if ok {
		t.Fatalf("Expected total internal reflection, got %v", out)
	}
	if !out.IsZero() {
		t.Errorf("Expected zero vector on total internal reflection, got %v", out)
	}
}
