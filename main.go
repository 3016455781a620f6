package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/web/server"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whitted",
		Short: "Whitted-style recursive ray tracer",
		Long: `Renders scenes of spheres and point lights with Phong shading, hard
shadows, mirror reflection and refraction.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "config file (default is ./whitted.yaml or $HOME/.whitted/whitted.yaml)")

	cmd.AddCommand(
		renderCmd(),
		scenesCmd(),
		configCmd(),
		serveCmd(),
	)

	return cmd
}

// loadConfig binds the given flags to their config keys and loads the
// configuration named by --config. Flags override the file and environment.
func loadConfig(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
	v := viper.New()
	for key, flag := range bindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	path, _ := cmd.Flags().GetString("config")
	return config.Load(v, path)
}

func renderCmd() *cobra.Command {
	d := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Render a scene to an image file",
		Long: `Render a builtin scene, a scene file from the scenes directory
(file:<name>) or a scene file path (.yaml, .json, .toml or .pbrt).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, map[string]string{
				"render.width":      "width",
				"render.height":     "height",
				"render.vfov":       "fov",
				"render.max_depth":  "depth",
				"render.far_plane":  "far-plane",
				"render.epsilon":    "epsilon",
				"output.path":       "output",
				"output.format":     "format",
				"output.clamp_mode": "clamp",
				"server.scenes_dir": "scenes-dir",
			})
			if err != nil {
				return err
			}

			ref := "default"
			if len(args) == 1 {
				ref = args[0]
			}
			s, err := loaders.ResolveScene(ref, cfg.Server.ScenesDir)
			if err != nil {
				return err
			}
			// Scene files carry their own camera; --fov overrides it
			if isBuiltinRef(ref) || cmd.Flags().Changed("fov") {
				s.Camera.VFov = cfg.Render.VFov
			}

			format := outputFormat(cfg.Output, cmd.Flags().Changed("format"))
			return renderToFile(cmd, s, cfg, format)
		},
	}

	cmd.Flags().Int("width", d.Render.Width, "image width in pixels")
	cmd.Flags().Int("height", d.Render.Height, "image height in pixels")
	cmd.Flags().Float64("fov", d.Render.VFov, "vertical field of view in degrees")
	cmd.Flags().Int("depth", d.Render.MaxDepth, "maximum recursion depth")
	cmd.Flags().Float64("far-plane", d.Render.FarPlane, "distance beyond which hits are ignored")
	cmd.Flags().Float64("epsilon", d.Render.Epsilon, "secondary ray origin offset")
	cmd.Flags().StringP("output", "o", d.Output.Path, "output image path")
	cmd.Flags().String("format", d.Output.Format, "output format: ppm or png (default from the output extension)")
	cmd.Flags().String("clamp", d.Output.ClampMode, "out-of-range colors: clamp or rescale")
	cmd.Flags().String("scenes-dir", d.Server.ScenesDir, "directory searched for file:<name> scenes")

	return cmd
}

func isBuiltinRef(ref string) bool {
	return !strings.HasPrefix(ref, "file:") && !scene.IsSceneFile(ref)
}

// outputFormat picks the image format. Without an explicit --format a .png
// or .ppm output extension decides.
func outputFormat(out config.OutputConfig, explicit bool) string {
	if !explicit {
		switch ext := strings.ToLower(filepath.Ext(out.Path)); ext {
		case ".png", ".ppm":
			return ext[1:]
		}
	}
	return strings.ToLower(out.Format)
}

func renderToFile(cmd *cobra.Command, s *scene.Scene, cfg *config.Config, format string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	rt, err := renderer.NewRaytracer(s, integrator.NewWhittedIntegrator(cfg.IntegratorConfig()),
		cfg.Render.Width, cfg.Render.Height, core.NewDefaultLogger())
	if err != nil {
		return err
	}

	fb, stats, err := rt.RenderFrame(ctx)
	if err != nil {
		return err
	}

	path := cfg.Output.Path
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := renderer.Encode(file, fb, format, cfg.ClampMode()); err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rendered %s (%d spheres, %d lights) at %dx%d in %v\n",
		s.Name, len(s.Spheres), len(s.Lights), fb.Width, fb.Height, stats.Elapsed)
	fmt.Fprintf(out, "Rays: %d camera/secondary, %d shadow, %d total internal reflections skipped\n",
		stats.Rays.Casts, stats.Rays.Shadow, stats.Rays.TIRSkipped)
	fmt.Fprintf(out, "Luminance: mean %.4f, stddev %.4f, range [%.4f, %.4f]\n",
		stats.MeanLuminance, stats.StdDevLuminance, stats.MinLuminance, stats.MaxLuminance)
	fmt.Fprintf(out, "Saved %s\n", path)
	return nil
}

func scenesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "List builtin scenes and scene files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, map[string]string{"server.scenes_dir": "scenes-dir"})
			if err != nil {
				return err
			}

			scenes, err := scene.ListAllScenes(cfg.Server.ScenesDir)
			if err != nil {
				return err
			}
			for _, info := range scenes {
				desc := info.Description
				if info.Type == "file" {
					desc = info.FilePath
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-8s %s\n", info.ID, info.Type, desc)
			}
			return nil
		},
	}

	cmd.Flags().String("scenes-dir", config.DefaultConfig().Server.ScenesDir, "directory to scan for scene files")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName + ".yaml"
			if len(args) == 1 {
				path = args[0]
			}

			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().Bool("force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func serveCmd() *cobra.Command {
	d := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the render web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, map[string]string{
				"server.port":       "port",
				"server.scenes_dir": "scenes-dir",
			})
			if err != nil {
				return err
			}

			log.Printf("Whitted Raytracer Web Server")
			log.Printf("Visit http://localhost:%d/api/scenes to list scenes", cfg.Server.Port)
			return server.NewServer(cfg).Start()
		},
	}

	cmd.Flags().Int("port", d.Server.Port, "port to serve on")
	cmd.Flags().String("scenes-dir", d.Server.ScenesDir, "directory to scan for scene files")
	return cmd
}
