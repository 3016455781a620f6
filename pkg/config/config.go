package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// FileName is the config file searched for when no path is given
const FileName = "whitted"

// EnvPrefix prefixes environment overrides, e.g. WHITTED_RENDER_WIDTH
const EnvPrefix = "WHITTED"

// Config represents the renderer configuration
type Config struct {
	Render RenderConfig `yaml:"render" mapstructure:"render"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
}

// RenderConfig contains frame and integrator settings
type RenderConfig struct {
	Width      int       `yaml:"width" mapstructure:"width"`
	Height     int       `yaml:"height" mapstructure:"height"`
	VFov       float64   `yaml:"vfov" mapstructure:"vfov"`
	MaxDepth   int       `yaml:"max_depth" mapstructure:"max_depth"`
	FarPlane   float64   `yaml:"far_plane" mapstructure:"far_plane"`
	Epsilon    float64   `yaml:"epsilon" mapstructure:"epsilon"`
	Background []float64 `yaml:"background" mapstructure:"background"`
}

// OutputConfig contains image writer settings
type OutputConfig struct {
	Path      string `yaml:"path" mapstructure:"path"`
	Format    string `yaml:"format" mapstructure:"format"`
	ClampMode string `yaml:"clamp_mode" mapstructure:"clamp_mode"`
}

// ServerConfig contains web server settings
type ServerConfig struct {
	Port      int    `yaml:"port" mapstructure:"port"`
	ScenesDir string `yaml:"scenes_dir" mapstructure:"scenes_dir"`
	MaxWidth  int    `yaml:"max_width" mapstructure:"max_width"`
	MaxHeight int    `yaml:"max_height" mapstructure:"max_height"`
}

// DefaultConfig returns the reference settings
func DefaultConfig() *Config {
	defaults := integrator.DefaultConfig()
	bg := defaults.Background

	return &Config{
		Render: RenderConfig{
			Width:      1024,
			Height:     768,
			VFov:       90,
			MaxDepth:   defaults.MaxDepth,
			FarPlane:   defaults.FarPlane,
			Epsilon:    defaults.Epsilon,
			Background: []float64{bg.X, bg.Y, bg.Z},
		},
		Output: OutputConfig{
			Path:      "out.ppm",
			Format:    renderer.FormatPPM,
			ClampMode: string(renderer.ClampChannels),
		},
		Server: ServerConfig{
			Port:      8080,
			ScenesDir: "scenes",
			MaxWidth:  1920,
			MaxHeight: 1080,
		},
	}
}

// SetDefaults registers every default with v so that environment variables
// and flags can override keys that no config file mentions
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("render.width", d.Render.Width)
	v.SetDefault("render.height", d.Render.Height)
	v.SetDefault("render.vfov", d.Render.VFov)
	v.SetDefault("render.max_depth", d.Render.MaxDepth)
	v.SetDefault("render.far_plane", d.Render.FarPlane)
	v.SetDefault("render.epsilon", d.Render.Epsilon)
	v.SetDefault("render.background", d.Render.Background)

	v.SetDefault("output.path", d.Output.Path)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.clamp_mode", d.Output.ClampMode)

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.scenes_dir", d.Server.ScenesDir)
	v.SetDefault("server.max_width", d.Server.MaxWidth)
	v.SetDefault("server.max_height", d.Server.MaxHeight)
}

// Load reads configuration into v and decodes it. With an empty path it
// looks for whitted.yaml in the working directory and in ~/.whitted, and
// falls back to defaults when neither exists.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".whitted"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Save writes the configuration as YAML, creating parent directories
func Save(path string, config *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that every setting is usable
func (c *Config) Validate() error {
	r := c.Render
	if r.Width <= 0 || r.Height <= 0 {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "image size must be positive, got %dx%d", r.Width, r.Height)
	}
	if !(r.VFov > 0 && r.VFov < 180) {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "vfov must be in (0, 180), got %g", r.VFov)
	}
	if r.MaxDepth < 0 {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "max_depth cannot be negative, got %d", r.MaxDepth)
	}
	if !(r.FarPlane > 0) {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "far_plane must be positive, got %g", r.FarPlane)
	}
	if !(r.Epsilon > 0) {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "epsilon must be positive, got %g", r.Epsilon)
	}
	if len(r.Background) != 3 {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "background needs 3 components, got %d", len(r.Background))
	}

	switch strings.ToLower(c.Output.Format) {
	case renderer.FormatPPM, renderer.FormatPNG:
	default:
		return errorsmod.Wrapf(core.ErrInvalidConfig, "unknown output format %q", c.Output.Format)
	}
	if _, err := renderer.ParseClampMode(c.Output.ClampMode); err != nil {
		return err
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "port out of range: %d", c.Server.Port)
	}
	if c.Server.MaxWidth <= 0 || c.Server.MaxHeight <= 0 {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "server size limits must be positive")
	}

	return nil
}

// IntegratorConfig converts the render settings for the integrator
func (c *Config) IntegratorConfig() integrator.Config {
	bg := c.Render.Background
	return integrator.Config{
		MaxDepth:   c.Render.MaxDepth,
		FarPlane:   c.Render.FarPlane,
		Epsilon:    c.Render.Epsilon,
		Background: core.NewVec3(bg[0], bg[1], bg[2]),
	}
}

// ClampMode returns the parsed output clamp mode
func (c *Config) ClampMode() renderer.ClampMode {
	mode, err := renderer.ParseClampMode(c.Output.ClampMode)
	if err != nil {
		return renderer.ClampChannels
	}
	return mode
}
