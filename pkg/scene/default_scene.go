package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewDefaultScene creates the reference scene: ivory, glass, red rubber and
// mirror spheres lit by three point lights
func NewDefaultScene() *Scene {
	s := New("default")

	s.AddSphere(core.NewVec3(-3, 0, -16), 2, material.Ivory).
		AddSphere(core.NewVec3(-1.0, -1.5, -12), 2, material.Glass).
		AddSphere(core.NewVec3(1.5, -0.5, -18), 3, material.RedRubber).
		AddSphere(core.NewVec3(7, 5, -18), 4, material.Mirror)

	s.AddLight(core.NewVec3(-20, 20, 20), 1.5).
		AddLight(core.NewVec3(30, 50, -25), 1.8).
		AddLight(core.NewVec3(30, 20, 30), 1.7)

	return s
}

// NewDiffuseScene creates the same sphere layout with diffuse-only
// materials and a single light
func NewDiffuseScene() *Scene {
	s := New("diffuse")

	ivory := material.NewDiffuse(core.NewVec3(0.4, 0.4, 0.3))
	redRubber := material.NewDiffuse(core.NewVec3(0.3, 0.1, 0.1))

	s.AddSphere(core.NewVec3(-3, 0, -16), 2, ivory).
		AddSphere(core.NewVec3(-1.0, -1.5, -12), 2, redRubber).
		AddSphere(core.NewVec3(1.5, -0.5, -18), 3, redRubber).
		AddSphere(core.NewVec3(7, 5, -18), 4, ivory)

	s.AddLight(core.NewVec3(-20, 20, 20), 1.5)

	return s
}

// NewMirrorScene places a perfect mirror in front of the camera. A green
// sphere behind the eye is only visible in the mirror.
func NewMirrorScene() *Scene {
	s := New("mirror")

	mirror := material.NewMaterial(core.NewVec3(1, 1, 1), core.NewVec4(0, 0, 1, 0), 0, 1.0)
	green := material.NewDiffuse(core.NewVec3(0.1, 0.7, 0.2))

	s.AddSphere(core.NewVec3(0, 0, -12), 3, mirror).
		AddSphere(core.NewVec3(0, 0, 6), 2, green).
		AddSphere(core.NewVec3(4.5, -1, -14), 1.5, material.RedRubber)

	s.AddLight(core.NewVec3(0, 10, 0), 1.5).
		AddLight(core.NewVec3(-20, 20, 20), 1.0)

	return s
}

// NewEmptyScene has no geometry; every ray sees the background
func NewEmptyScene() *Scene {
	s := New("empty")
	s.AddLight(core.NewVec3(-20, 20, 20), 1.5)
	return s
}
