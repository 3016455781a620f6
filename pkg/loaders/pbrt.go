package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// PBRTStatement is one parsed directive, e.g. Shape "sphere" "float radius" 2
type PBRTStatement struct {
	Directive  string               // LookAt, Camera, Material, Shape, ...
	Kind       string               // Quoted type after the directive (perspective, sphere, point, ...)
	Parameters map[string]PBRTParam // Named parameters
	Values     []string             // Bare numbers for LookAt and Translate
}

// PBRTParam is a typed parameter with its raw values
type PBRTParam struct {
	Type   string
	Values []string
}

// graphicsState is saved by AttributeBegin and restored by AttributeEnd
// Only translation and uniform scale are tracked since spheres stay spheres
// under them.
type graphicsState struct {
	translation core.Vec3
	scale       float64
	material    material.Material
}

// pbrtImporter builds a scene from the sphere and point light subset of the
// pbrt-v4 format. The camera always looks down -Z; LookAt only moves the eye.
type pbrtImporter struct {
	scene   *scene.Scene
	state   graphicsState
	stack   []graphicsState
	pending []string
	line    int
}

// ParsePBRT reads pbrt directives from reader into a scene named name
func ParsePBRT(reader io.Reader, name string) (*scene.Scene, error) {
	imp := &pbrtImporter{
		scene: scene.New(name),
		state: graphicsState{
			scale:    1,
			material: material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5)),
		},
	}

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		imp.line++
		if err := imp.processLine(scanner.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", imp.line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	if err := imp.flush(); err != nil {
		return nil, fmt.Errorf("at end of file: %w", err)
	}

	if err := imp.scene.Validate(); err != nil {
		return nil, err
	}
	return imp.scene, nil
}

// LoadPBRT loads a .pbrt scene file
func LoadPBRT(path string) (*scene.Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PBRT file: %w", err)
	}
	defer file.Close()

	return ParsePBRT(file, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

// processLine buffers statement lines; a directive keyword starts a new
// statement and anything else continues the previous one
func (imp *pbrtImporter) processLine(line string) error {
	line = strings.TrimSpace(stripComment(line))
	if line == "" {
		return nil
	}

	if !isDirective(strings.Fields(line)[0]) {
		if len(imp.pending) == 0 {
			return fmt.Errorf("unexpected continuation line: %s", line)
		}
		imp.pending = append(imp.pending, line)
		return nil
	}

	if err := imp.flush(); err != nil {
		return err
	}
	imp.pending = []string{line}
	return nil
}

func (imp *pbrtImporter) flush() error {
	if len(imp.pending) == 0 {
		return nil
	}
	stmt, err := parseStatement(strings.Join(imp.pending, " "))
	imp.pending = nil
	if err != nil {
		return err
	}
	return imp.apply(stmt)
}

func (imp *pbrtImporter) apply(stmt *PBRTStatement) error {
	switch stmt.Directive {
	case "AttributeBegin":
		imp.stack = append(imp.stack, imp.state)
	case "AttributeEnd":
		if len(imp.stack) == 0 {
			return fmt.Errorf("AttributeEnd without AttributeBegin")
		}
		imp.state = imp.stack[len(imp.stack)-1]
		imp.stack = imp.stack[:len(imp.stack)-1]
	case "LookAt":
		values, err := parseFloats(stmt.Values, 9, "LookAt")
		if err != nil {
			return err
		}
		imp.scene.Camera.Origin = core.NewVec3(values[0], values[1], values[2])
	case "Translate":
		values, err := parseFloats(stmt.Values, 3, "Translate")
		if err != nil {
			return err
		}
		offset := core.NewVec3(values[0], values[1], values[2]).Multiply(imp.state.scale)
		imp.state.translation = imp.state.translation.Add(offset)
	case "Scale":
		values, err := parseFloats(stmt.Values, 3, "Scale")
		if err != nil {
			return err
		}
		if values[0] != values[1] || values[1] != values[2] || !(values[0] > 0) {
			return errorsmod.Wrapf(core.ErrInvalidConfig, "unsupported transform %q: only positive uniform scales keep spheres round", "Scale "+strings.Join(stmt.Values, " "))
		}
		imp.state.scale *= values[0]
	case "Rotate", "Transform", "ConcatTransform", "CoordinateSystem", "CoordSysTransform":
		return errorsmod.Wrapf(core.ErrInvalidConfig, "unsupported transform %q", stmt.Directive)
	case "Identity", "WorldBegin":
		imp.state.translation = core.Vec3{}
		imp.state.scale = 1
	case "Attribute", "AreaLightSource":
		return errorsmod.Wrapf(core.ErrInvalidConfig, "unsupported directive %q", stmt.Directive)
	case "Camera":
		if fov, ok := stmt.GetFloatParam("fov"); ok {
			imp.scene.Camera.VFov = fov
		}
	case "Material":
		mat, err := pbrtMaterial(stmt)
		if err != nil {
			return err
		}
		imp.state.material = mat
	case "Shape":
		if stmt.Kind != "sphere" {
			return errorsmod.Wrapf(core.ErrInvalidSphere, "unsupported shape %q, only spheres are rendered", stmt.Kind)
		}
		radius, ok := stmt.GetFloatParam("radius")
		if !ok {
			radius = 1
		}
		imp.scene.AddSphere(imp.state.translation, radius*imp.state.scale, imp.state.material)
	case "LightSource":
		if stmt.Kind != "point" {
			return errorsmod.Wrapf(core.ErrInvalidLight, "unsupported light %q, only point lights are rendered", stmt.Kind)
		}
		// A missing "from" leaves the light at the current origin
		from, _ := stmt.GetPoint3Param("from")
		imp.scene.AddLight(from.Multiply(imp.state.scale).Add(imp.state.translation), pointIntensity(stmt))
	}
	// Film, Sampler, Integrator, ReverseOrientation and WorldEnd change
	// nothing for spheres lit by point lights
	return nil
}

// pbrtMaterial maps pbrt material types onto Phong materials. "whitted"
// spells out every field of the native material.
func pbrtMaterial(stmt *PBRTStatement) (material.Material, error) {
	switch stmt.Kind {
	case "diffuse":
		color, ok := stmt.GetRGBParam("reflectance")
		if !ok {
			color = core.NewVec3(0.5, 0.5, 0.5)
		}
		return material.NewDiffuse(color), nil
	case "coateddiffuse":
		mat := material.Ivory
		if color, ok := stmt.GetRGBParam("reflectance"); ok {
			mat.DiffuseColor = color
		}
		return mat, nil
	case "conductor":
		return material.Mirror, nil
	case "dielectric":
		mat := material.Glass
		if eta, ok := stmt.GetFloatParam("eta"); ok {
			mat.RefractiveIndex = eta
		}
		return mat, nil
	case "whitted":
		color, ok := stmt.GetRGBParam("diffuse")
		if !ok {
			return material.Material{}, errorsmod.Wrap(core.ErrInvalidMaterial, `whitted material needs "rgb diffuse"`)
		}
		albedo, err := parseFloats(stmt.Parameters["albedo"].Values, 4, "albedo")
		if err != nil {
			return material.Material{}, errorsmod.Wrap(core.ErrInvalidMaterial, err.Error())
		}
		exponent, _ := stmt.GetFloatParam("exponent")
		eta, ok := stmt.GetFloatParam("eta")
		if !ok {
			eta = 1.0
		}
		return material.NewMaterial(color, core.NewVec4(albedo[0], albedo[1], albedo[2], albedo[3]), exponent, eta), nil
	default:
		return material.Material{}, errorsmod.Wrapf(core.ErrUnknownMaterial, "pbrt material %q", stmt.Kind)
	}
}

// pointIntensity folds "rgb I" and "float scale" into a scalar intensity
func pointIntensity(stmt *PBRTStatement) float64 {
	intensity := 1.0
	if rgb, ok := stmt.GetRGBParam("I"); ok {
		intensity = (rgb.X + rgb.Y + rgb.Z) / 3
	}
	if scale, ok := stmt.GetFloatParam("scale"); ok {
		intensity *= scale
	}
	return intensity
}

var pbrtDirectives = []string{
	"LookAt", "Camera", "Film", "Sampler", "Integrator",
	"WorldBegin", "WorldEnd", "AttributeBegin", "AttributeEnd",
	"Translate", "Scale", "Rotate", "Transform", "ConcatTransform",
	"Identity", "CoordinateSystem", "CoordSysTransform",
	"ReverseOrientation", "Attribute", "AreaLightSource",
	"Material", "Shape", "LightSource",
}

func isDirective(word string) bool {
	for _, d := range pbrtDirectives {
		if word == d {
			return true
		}
	}
	return false
}

// stripComment cuts a line at the first # outside a quoted string
func stripComment(line string) string {
	inQuote := false
	for i, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == '#' && !inQuote:
			return line[:i]
		}
	}
	return line
}

// tokenizePBRT splits a statement into words, quoted strings and bracketed
// lists. Quotes and brackets are kept on their tokens.
func tokenizePBRT(line string) []string {
	var tokens []string
	var current strings.Builder
	var closing rune

	emit := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range line {
		switch {
		case closing != 0:
			current.WriteRune(r)
			if r == closing {
				closing = 0
				emit()
			}
		case r == '"' || r == '[':
			emit()
			current.WriteRune(r)
			closing = '"'
			if r == '[' {
				closing = ']'
			}
		case r == ' ' || r == '\t':
			emit()
		default:
			current.WriteRune(r)
		}
	}
	emit()

	return tokens
}

// parseStatement parses one complete statement
func parseStatement(line string) (*PBRTStatement, error) {
	tokens := tokenizePBRT(line)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty statement")
	}

	stmt := &PBRTStatement{
		Directive:  tokens[0],
		Parameters: make(map[string]PBRTParam),
	}
	rest := tokens[1:]

	if len(rest) > 0 && isQuoted(rest[0]) && len(strings.Fields(unquote(rest[0]))) == 1 {
		stmt.Kind = unquote(rest[0])
		rest = rest[1:]
	}

	for i := 0; i < len(rest); i++ {
		token := rest[i]
		if !isQuoted(token) {
			stmt.Values = append(stmt.Values, strings.Fields(strings.Trim(token, "[]"))...)
			continue
		}

		decl := strings.Fields(unquote(token))
		if len(decl) != 2 {
			return nil, fmt.Errorf("malformed parameter declaration %s", token)
		}
		if i+1 >= len(rest) {
			return nil, fmt.Errorf("parameter %q has no value", decl[1])
		}
		i++
		stmt.Parameters[decl[1]] = PBRTParam{
			Type:   decl[0],
			Values: strings.Fields(strings.Trim(rest[i], "[]")),
		}
	}

	return stmt, nil
}

func isQuoted(token string) bool {
	return len(token) >= 2 && strings.HasPrefix(token, `"`) && strings.HasSuffix(token, `"`)
}

func unquote(token string) string {
	return strings.Trim(token, `"`)
}

func parseFloats(values []string, n int, what string) ([]float64, error) {
	if len(values) != n {
		return nil, fmt.Errorf("%s requires %d values, got %d", what, n, len(values))
	}
	out := make([]float64, n)
	for i, s := range values {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", what, s, err)
		}
		out[i] = f
	}
	return out, nil
}

// GetFloatParam returns the first value of a float parameter
func (stmt *PBRTStatement) GetFloatParam(name string) (float64, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return 0, false
	}
	val, err := strconv.ParseFloat(param.Values[0], 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// GetRGBParam returns a three-component color parameter
func (stmt *PBRTStatement) GetRGBParam(name string) (core.Vec3, bool) {
	return stmt.getVec3Param(name)
}

// GetPoint3Param returns a three-component point parameter
func (stmt *PBRTStatement) GetPoint3Param(name string) (core.Vec3, bool) {
	return stmt.getVec3Param(name)
}

func (stmt *PBRTStatement) getVec3Param(name string) (core.Vec3, bool) {
	param, exists := stmt.Parameters[name]
	if !exists {
		return core.Vec3{}, false
	}
	values, err := parseFloats(param.Values, 3, name)
	if err != nil {
		return core.Vec3{}, false
	}
	return core.NewVec3(values[0], values[1], values[2]), true
}
