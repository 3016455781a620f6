package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Reflect calculates the reflection of a vector v off a surface with normal n
func Reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract bends the unit direction dir through a surface with unit normal n
// using Snell's law. The surrounding medium has index 1. If dir points out of
// the surface (dir·n > 0) the ray is leaving the material: the index ratio is
// inverted and the normal flipped.
//
// Refract returns false on total internal reflection; the returned vector is
// then zero and no transmitted ray exists.
func Refract(dir, n core.Vec3, refractiveIndex float64) (core.Vec3, bool) {
	cosIncidence := -math.Max(-1, math.Min(1, dir.Dot(n)))
	ratio := 1.0 / refractiveIndex
	normal := n
	if cosIncidence < 0 {
		cosIncidence = -cosIncidence
		ratio = refractiveIndex
		normal = n.Negate()
	}

	k := 1 - ratio*ratio*(1-cosIncidence*cosIncidence)
	if k < 0 {
		return core.Vec3{}, false
	}
	return dir.Multiply(ratio).Add(normal.Multiply(ratio*cosIncidence - math.Sqrt(k))), true
}
