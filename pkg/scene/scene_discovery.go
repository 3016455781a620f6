package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to scene file (file type only)
}

type builtinScene struct {
	info  SceneInfo
	build func() *Scene
}

var builtinScenes = []builtinScene{
	{SceneInfo{ID: "default", DisplayName: "Default Scene", Description: "Ivory, glass, rubber and mirror spheres with three lights"}, NewDefaultScene},
	{SceneInfo{ID: "diffuse", DisplayName: "Diffuse Spheres", Description: "Four diffuse spheres lit by a single light"}, NewDiffuseScene},
	{SceneInfo{ID: "mirror", DisplayName: "Mirror", Description: "Perfect mirror reflecting a sphere behind the camera"}, NewMirrorScene},
	{SceneInfo{ID: "empty", DisplayName: "Empty", Description: "No geometry, background only"}, NewEmptyScene},
}

// SceneFileExtensions lists the extensions recognised as scene files
var SceneFileExtensions = []string{".yaml", ".yml", ".json", ".toml", ".pbrt"}

// Builtin creates a fresh copy of the named builtin scene
func Builtin(name string) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == name {
			return b.build(), nil
		}
	}
	return nil, errorsmod.Wrapf(core.ErrUnknownScene, "%q (available: %s)", name, strings.Join(BuiltinNames(), ", "))
}

// BuiltinNames returns the IDs of all builtin scenes
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinScenes))
	for _, b := range builtinScenes {
		names = append(names, b.info.ID)
	}
	return names
}

// IsSceneFile reports whether name looks like a scene file path
func IsSceneFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SceneFileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ListSceneFiles scans dir for scene files. A missing directory yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []SceneInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0)
	for _, entry := range entries {
		if entry.IsDir() || !IsSceneFile(entry.Name()) {
			continue
		}
		nameWithoutExt := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		scenes = append(scenes, SceneInfo{
			ID:          "file:" + nameWithoutExt,
			DisplayName: titleCase(nameWithoutExt),
			Type:        "file",
			FilePath:    filepath.Join(dir, entry.Name()),
		})
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ListAllScenes returns the builtin scenes followed by scene files found in dir
func ListAllScenes(dir string) ([]SceneInfo, error) {
	all := make([]SceneInfo, 0, len(builtinScenes))
	for _, b := range builtinScenes {
		info := b.info
		info.Type = "builtin"
		all = append(all, info)
	}

	files, err := ListSceneFiles(dir)
	if err != nil {
		return nil, err
	}
	return append(all, files...), nil
}

// titleCase converts a filename-style string to title case
// e.g., "glass-balls" -> "Glass Balls"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
