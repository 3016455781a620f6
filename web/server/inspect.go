package server

import (
	"fmt"
	"net/http"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	SphereIndex  int                    `json:"sphereIndex"`
	MaterialType string                 `json:"materialType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Color        [3]float64             `json:"color"`
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult contains information about the sphere hit by an inspection ray
type InspectResult struct {
	Hit         bool
	HitRecord   scene.HitRecord
	Sphere      *geometry.Sphere
	SphereIndex int
	Color       core.Vec3
}

// materialType names the dominant contribution of a material's albedo
func materialType(m material.Material) string {
	switch {
	case m.Albedo.W > 0:
		return "refractive"
	case m.Albedo.Z > 0 && m.Albedo.X == 0:
		return "mirror"
	case m.Albedo.Z > 0:
		return "reflective"
	default:
		return "diffuse"
	}
}

func extractMaterialInfo(m material.Material) map[string]interface{} {
	c := m.DiffuseColor.Clamp(0, 1)
	return map[string]interface{}{
		"diffuse":          [3]float64{m.DiffuseColor.X, m.DiffuseColor.Y, m.DiffuseColor.Z},
		"albedo":           [4]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z, m.Albedo.W},
		"specularExponent": m.SpecularExponent,
		"refractiveIndex":  m.RefractiveIndex,
		"color":            fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255)),
	}
}

// inspectPixel casts the camera ray through a pixel center and reports the
// nearest sphere along with the traced color
func inspectPixel(sceneObj *scene.Scene, integ *integrator.WhittedIntegrator, width, height, pixelX, pixelY int) InspectResult {
	ray := renderer.NewCamera(sceneObj.Camera).GetRay(pixelX, pixelY, width, height)
	result := InspectResult{
		SphereIndex: -1,
		Color:       integ.RayColor(ray, sceneObj),
	}

	hit, isHit := sceneObj.Intersect(ray, integ.Config().FarPlane)
	if !isHit {
		return result
	}
	result.Hit = true
	result.HitRecord = hit

	// Intersect reports the hit, not the sphere; the first sphere at the
	// same distance is the one the nearest-hit scan kept
	for i, sphere := range sceneObj.Spheres {
		if dist, ok := sphere.Intersect(ray); ok && dist == hit.Distance {
			result.Sphere = sphere
			result.SphereIndex = i
			break
		}
	}
	return result
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limits := s.config.Server

	width, err := parseIntParam(query, "width", min(s.config.Render.Width, limits.MaxWidth), 1, limits.MaxWidth)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	height, err := parseIntParam(query, "height", min(s.config.Render.Height, limits.MaxHeight), 1, limits.MaxHeight)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if query.Get("x") == "" || query.Get("y") == "" {
		writeError(w, http.StatusBadRequest, "x and y are required")
		return
	}
	pixelX, err := parseIntParam(query, "x", 0, 0, width-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds: "+err.Error())
		return
	}
	pixelY, err := parseIntParam(query, "y", 0, 0, height-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds: "+err.Error())
		return
	}

	sceneName := query.Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}
	sceneObj, err := s.lookupScene(sceneName)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	integ := integrator.NewWhittedIntegrator(s.config.IntegratorConfig())
	result := inspectPixel(sceneObj, integ, width, height, pixelX, pixelY)

	response := InspectResponse{
		Hit:         result.Hit,
		SphereIndex: result.SphereIndex,
		Color:       [3]float64{result.Color.X, result.Color.Y, result.Color.Z},
	}
	if !result.Hit {
		writeJSON(w, http.StatusOK, response)
		return
	}

	hit := result.HitRecord
	response.MaterialType = materialType(hit.Material)
	response.Point = [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z}
	response.Normal = [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z}
	response.Distance = hit.Distance
	response.Properties = map[string]interface{}{
		"material": extractMaterialInfo(hit.Material),
	}
	if result.Sphere != nil {
		c := result.Sphere.Center
		response.Properties["geometry"] = map[string]interface{}{
			"center": [3]float64{c.X, c.Y, c.Z},
			"radius": result.Sphere.Radius,
		}
	}

	writeJSON(w, http.StatusOK, response)
}
