package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// SceneFile is the on-disk description of a scene. Vectors are written as
// three-element lists, albedo as four.
type SceneFile struct {
	Name      string                  `json:"name" yaml:"name" mapstructure:"name"`
	Camera    CameraFile              `json:"camera" yaml:"camera" mapstructure:"camera"`
	Materials map[string]MaterialFile `json:"materials,omitempty" yaml:"materials,omitempty" mapstructure:"materials"`
	Spheres   []SphereFile            `json:"spheres" yaml:"spheres" mapstructure:"spheres"`
	Lights    []LightFile             `json:"lights" yaml:"lights" mapstructure:"lights"`
}

// CameraFile describes the eye
type CameraFile struct {
	Origin []float64 `json:"origin" yaml:"origin" mapstructure:"origin"`
	VFov   float64   `json:"vfov" yaml:"vfov" mapstructure:"vfov"`
}

// MaterialFile describes a material inline or in the materials table.
// An omitted refractive index means 1.
type MaterialFile struct {
	Diffuse          []float64 `json:"diffuse" yaml:"diffuse" mapstructure:"diffuse"`
	Albedo           []float64 `json:"albedo" yaml:"albedo" mapstructure:"albedo"`
	SpecularExponent float64   `json:"specular_exponent" yaml:"specular_exponent" mapstructure:"specular_exponent"`
	RefractiveIndex  *float64  `json:"refractive_index,omitempty" yaml:"refractive_index,omitempty" mapstructure:"refractive_index"`
}

// SphereFile places a sphere. Material names a preset or an entry of the
// materials table; Inline takes precedence when set.
type SphereFile struct {
	Center   []float64     `json:"center" yaml:"center" mapstructure:"center"`
	Radius   float64       `json:"radius" yaml:"radius" mapstructure:"radius"`
	Material string        `json:"material,omitempty" yaml:"material,omitempty" mapstructure:"material"`
	Inline   *MaterialFile `json:"inline,omitempty" yaml:"inline,omitempty" mapstructure:"inline"`
}

// LightFile places a point light
type LightFile struct {
	Position  []float64 `json:"position" yaml:"position" mapstructure:"position"`
	Intensity float64   `json:"intensity" yaml:"intensity" mapstructure:"intensity"`
}

// LoadScene reads a YAML, JSON, TOML or pbrt scene file and builds a
// validated scene
func LoadScene(path string) (*scene.Scene, error) {
	if !scene.IsSceneFile(path) {
		return nil, fmt.Errorf("unsupported scene file type: %s", filepath.Ext(path))
	}
	if strings.EqualFold(filepath.Ext(path), ".pbrt") {
		return LoadPBRT(path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("camera.origin", []float64{0, 0, 0})
	v.SetDefault("camera.vfov", scene.DefaultCameraConfig().VFov)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read scene file %s: %w", path, err)
	}

	var file SceneFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to decode scene file %s: %w", path, err)
	}
	if file.Name == "" {
		file.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	s, err := file.Build()
	if err != nil {
		return nil, fmt.Errorf("scene file %s: %w", path, err)
	}
	return s, nil
}

// Build converts the file description into a validated scene
func (f *SceneFile) Build() (*scene.Scene, error) {
	s := scene.New(f.Name)

	origin, err := vec3(f.Camera.Origin, "camera origin")
	if err != nil {
		return nil, err
	}
	s.Camera = scene.CameraConfig{Origin: origin, VFov: f.Camera.VFov}

	// Viper folds keys to lower case, so table lookups ignore case
	table := make(map[string]MaterialFile, len(f.Materials))
	for name, m := range f.Materials {
		table[strings.ToLower(name)] = m
	}

	for i, sf := range f.Spheres {
		center, err := vec3(sf.Center, fmt.Sprintf("sphere %d center", i))
		if err != nil {
			return nil, err
		}
		mat, err := resolveMaterial(sf, table)
		if err != nil {
			return nil, errorsmod.Wrapf(err, "sphere %d", i)
		}
		s.AddSphere(center, sf.Radius, mat)
	}

	for i, lf := range f.Lights {
		pos, err := vec3(lf.Position, fmt.Sprintf("light %d position", i))
		if err != nil {
			return nil, err
		}
		s.AddLight(pos, lf.Intensity)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func resolveMaterial(sf SphereFile, table map[string]MaterialFile) (material.Material, error) {
	if sf.Inline != nil {
		return sf.Inline.toMaterial()
	}

	name := strings.ToLower(sf.Material)
	if m, ok := table[name]; ok {
		return m.toMaterial()
	}
	if preset, ok := material.Presets[name]; ok {
		return preset, nil
	}
	return material.Material{}, errorsmod.Wrapf(core.ErrUnknownMaterial, "%q (presets: %s)", sf.Material, strings.Join(presetNames(), ", "))
}

func (m MaterialFile) toMaterial() (material.Material, error) {
	diffuse, err := vec3(m.Diffuse, "material diffuse")
	if err != nil {
		return material.Material{}, err
	}
	if len(m.Albedo) != 4 {
		return material.Material{}, errorsmod.Wrapf(core.ErrInvalidMaterial, "albedo needs 4 components, got %d", len(m.Albedo))
	}
	albedo := core.NewVec4(m.Albedo[0], m.Albedo[1], m.Albedo[2], m.Albedo[3])

	index := 1.0
	if m.RefractiveIndex != nil {
		index = *m.RefractiveIndex
	}
	mat := material.NewMaterial(diffuse, albedo, m.SpecularExponent, index)
	if err := mat.Validate(); err != nil {
		return material.Material{}, err
	}
	return mat, nil
}

func vec3(values []float64, what string) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, errorsmod.Wrapf(core.ErrInvalidConfig, "%s needs 3 components, got %d", what, len(values))
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

func presetNames() []string {
	names := make([]string, 0, len(material.Presets))
	for name := range material.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewSceneFile describes s with every material written inline
func NewSceneFile(s *scene.Scene) *SceneFile {
	f := &SceneFile{
		Name: s.Name,
		Camera: CameraFile{
			Origin: list3(s.Camera.Origin),
			VFov:   s.Camera.VFov,
		},
		Spheres: make([]SphereFile, 0, len(s.Spheres)),
		Lights:  make([]LightFile, 0, len(s.Lights)),
	}

	for _, sphere := range s.Spheres {
		m := sphere.Material
		index := m.RefractiveIndex
		f.Spheres = append(f.Spheres, SphereFile{
			Center: list3(sphere.Center),
			Radius: sphere.Radius,
			Inline: &MaterialFile{
				Diffuse:          list3(m.DiffuseColor),
				Albedo:           []float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z, m.Albedo.W},
				SpecularExponent: m.SpecularExponent,
				RefractiveIndex:  &index,
			},
		})
	}
	for _, light := range s.Lights {
		f.Lights = append(f.Lights, LightFile{
			Position:  list3(light.Position),
			Intensity: light.Intensity,
		})
	}

	return f
}

func list3(v core.Vec3) []float64 {
	return []float64{v.X, v.Y, v.Z}
}

// SaveScene writes s as a YAML scene file
func SaveScene(path string, s *scene.Scene) error {
	data, err := yaml.Marshal(NewSceneFile(s))
	if err != nil {
		return fmt.Errorf("failed to marshal scene: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scene file: %w", err)
	}
	return nil
}

// ResolveScene finds a scene by reference: "file:<name>" looks in
// scenesDir, a path with a scene file extension is loaded directly, and
// anything else names a builtin scene.
func ResolveScene(ref, scenesDir string) (*scene.Scene, error) {
	if name, ok := strings.CutPrefix(ref, "file:"); ok {
		files, err := scene.ListSceneFiles(scenesDir)
		if err != nil {
			return nil, err
		}
		for _, info := range files {
			if info.ID == ref {
				return LoadScene(info.FilePath)
			}
		}
		return nil, errorsmod.Wrapf(core.ErrUnknownScene, "no scene file %q in %s", name, scenesDir)
	}

	if scene.IsSceneFile(ref) {
		return LoadScene(ref)
	}
	return scene.Builtin(ref)
}
