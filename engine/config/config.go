// Package config loads the host configuration: camera construction
// parameters, window, input bindings and logging. Values come from defaults,
// then an optional YAML file, then FITVIEW_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/1siamBot/fitview/engine/camera"
	"github.com/1siamBot/fitview/engine/control"
	"gopkg.in/yaml.v3"
)

type CameraConfig struct {
	WorldWidth  float64 `yaml:"world_width"`
	WorldHeight float64 `yaml:"world_height"`
	Padding     int     `yaml:"padding"`
	ZoomMin     float64 `yaml:"zoom_min"`
	ZoomMax     float64 `yaml:"zoom_max"`
	FullOverlay bool    `yaml:"full_overlay"`
}

type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
}

type InputConfig struct {
	ZoomStep      float64 `yaml:"zoom_step"`
	PinchStep     float64 `yaml:"pinch_step"`
	KeyZoomStep   float64 `yaml:"key_zoom_step"`
	KeyPanSpeed   float64 `yaml:"key_pan_speed"`
	DragThreshold int     `yaml:"drag_threshold"`
	ZoomAtCursor  bool    `yaml:"zoom_at_cursor"`
	InvertDrag    bool    `yaml:"invert_drag"`
}

type SceneConfig struct {
	Backdrop string  `yaml:"backdrop"`  // PNG scaled over the world, checkerboard when empty
	CellSize float64 `yaml:"cell_size"` // checkerboard cell in world units, 0 picks one
	ShowHUD  bool    `yaml:"show_hud"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
	Source bool   `yaml:"source"`
}

type Config struct {
	ConfigVersion int           `yaml:"config_version"`
	Camera        CameraConfig  `yaml:"camera"`
	Window        WindowConfig  `yaml:"window"`
	Input         InputConfig   `yaml:"input"`
	Scene         SceneConfig   `yaml:"scene"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	b := control.DefaultBindings()
	return Config{
		ConfigVersion: 1,
		Camera: CameraConfig{
			WorldWidth:  1600,
			WorldHeight: 900,
			Padding:     8,
			ZoomMin:     0.25,
			ZoomMax:     1.0,
			FullOverlay: false,
		},
		Window: WindowConfig{Width: 1280, Height: 720, Title: "fitview", Resizable: true},
		Input: InputConfig{
			ZoomStep:      b.ZoomStep,
			PinchStep:     b.PinchStep,
			KeyZoomStep:   b.KeyZoomStep,
			KeyPanSpeed:   b.KeyPanSpeed,
			DragThreshold: 5,
			ZoomAtCursor:  b.ZoomAtCursor,
			InvertDrag:    b.InvertDrag,
		},
		Scene:   SceneConfig{ShowHUD: true},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides
const (
	EnvWorldWidth  = "FITVIEW_WORLD_WIDTH"
	EnvWorldHeight = "FITVIEW_WORLD_HEIGHT"
	EnvPadding     = "FITVIEW_PADDING"
	EnvZoomMin     = "FITVIEW_ZOOM_MIN"
	EnvZoomMax     = "FITVIEW_ZOOM_MAX"
	EnvFullOverlay = "FITVIEW_FULL_OVERLAY"
	EnvBackdrop    = "FITVIEW_BACKDROP"
	EnvLogLevel    = "FITVIEW_LOG_LEVEL"
	EnvLogFormat   = "FITVIEW_LOG_FORMAT"
	EnvLogFile     = "FITVIEW_LOG_FILE"
)

// Load reads the YAML file at path over the defaults (a missing file is not
// an error), applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating parent directories
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func applyEnvOverrides(cfg *Config) error {
	floats := []struct {
		env string
		dst *float64
	}{
		{EnvWorldWidth, &cfg.Camera.WorldWidth},
		{EnvWorldHeight, &cfg.Camera.WorldHeight},
		{EnvZoomMin, &cfg.Camera.ZoomMin},
		{EnvZoomMax, &cfg.Camera.ZoomMax},
	}
	for _, f := range floats {
		if v := strings.TrimSpace(os.Getenv(f.env)); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", f.env, err)
			}
			*f.dst = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvPadding)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPadding, err)
		}
		cfg.Camera.Padding = n
	}
	if v := strings.TrimSpace(os.Getenv(EnvFullOverlay)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFullOverlay, err)
		}
		cfg.Camera.FullOverlay = b
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackdrop)); v != "" {
		cfg.Scene.Backdrop = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
	return nil
}

// Validate checks the configuration, including the camera options
func (c Config) Validate() error {
	if err := c.CameraOptions().Validate(); err != nil {
		return err
	}
	if c.Window.Width <= 2*c.Camera.Padding || c.Window.Height <= 2*c.Camera.Padding {
		return fmt.Errorf("window %dx%d leaves no room for padding %d", c.Window.Width, c.Window.Height, c.Camera.Padding)
	}
	if c.Input.ZoomStep < 0 || c.Input.PinchStep < 0 || c.Input.KeyZoomStep < 0 || c.Input.KeyPanSpeed < 0 {
		return errors.New("input steps must not be negative")
	}
	if c.Scene.CellSize < 0 {
		return fmt.Errorf("cell size %v is negative", c.Scene.CellSize)
	}
	if c.Input.DragThreshold < 0 {
		return fmt.Errorf("drag threshold %d is negative", c.Input.DragThreshold)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// CameraOptions converts the camera section to construction options
func (c Config) CameraOptions() camera.Options {
	return camera.Options{
		WorldWidth:  c.Camera.WorldWidth,
		WorldHeight: c.Camera.WorldHeight,
		Padding:     c.Camera.Padding,
		ZoomMin:     c.Camera.ZoomMin,
		ZoomMax:     c.Camera.ZoomMax,
		FullOverlay: c.Camera.FullOverlay,
	}
}

// Bindings converts the input section to controller bindings
func (c Config) Bindings() control.Bindings {
	return control.Bindings{
		ZoomStep:     c.Input.ZoomStep,
		PinchStep:    c.Input.PinchStep,
		KeyZoomStep:  c.Input.KeyZoomStep,
		KeyPanSpeed:  c.Input.KeyPanSpeed,
		ZoomAtCursor: c.Input.ZoomAtCursor,
		InvertDrag:   c.Input.InvertDrag,
	}
}
