package core

import (
	"math"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"add", a.Add(b), NewVec3(5, -3, 9)},
		{"subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"multiply vec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"clamp", NewVec3(-1, 0.5, 2).Clamp(0, 1), NewVec3(0, 0.5, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestVec3_DotAndLength(t *testing.T) {
	v := NewVec3(3, 4, 12)
	if v.Dot(NewVec3(1, 1, 1)) != 19 {
		t.Errorf("Expected dot 19, got %f", v.Dot(NewVec3(1, 1, 1)))
	}
	if v.Length() != 13 {
		t.Errorf("Expected length 13, got %f", v.Length())
	}
	if v.LengthSquared() != 169 {
		t.Errorf("Expected squared length 169, got %f", v.LengthSquared())
	}
	if v.MaxComponent() != 12 {
		t.Errorf("Expected max component 12, got %f", v.MaxComponent())
	}
}

func TestVec3_Normalize(t *testing.T) {
	n := NewVec3(0, 3, -4).Normalize()
	if math.Abs(n.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", n.Length())
	}
	if math.Abs(n.Y-0.6) > 1e-12 || math.Abs(n.Z+0.8) > 1e-12 {
		t.Errorf("Expected (0, 0.6, -0.8), got %v", n)
	}

	zero := Vec3{}.Normalize()
	if !zero.IsZero() {
		t.Errorf("Expected zero vector to stay zero, got %v", zero)
	}
}

func TestVec4_Operations(t *testing.T) {
	a := NewVec4(0.5, 0.25, 0.125, 0.125)
	b := NewVec4(1, 1, 1, 1)

	if got := a.Dot(b); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("Expected dot 1.0, got %f", got)
	}
	if got := a.Add(b); got != NewVec4(1.5, 1.25, 1.125, 1.125) {
		t.Errorf("Unexpected sum %v", got)
	}
	if got := b.Multiply(0.5); got != NewVec4(0.5, 0.5, 0.5, 0.5) {
		t.Errorf("Unexpected scale %v", got)
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 0, 0), NewVec3(0, 0, -1))
	p := ray.At(2.5)
	if p != NewVec3(1, 0, -2.5) {
		t.Errorf("Expected (1, 0, -2.5), got %v", p)
	}
}
