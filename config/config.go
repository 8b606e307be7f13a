// Package config loads the sandbox settings from TOML. Every field has a default, so a config
// file only needs the values it changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the full set of sandbox settings.
type Config struct {
	Window    WindowConfig    `toml:"window"`
	Camera    CameraConfig    `toml:"camera"`
	Controls  ControlsConfig  `toml:"controls"`
	Renderer  RendererConfig  `toml:"renderer"`
	Panel     PanelConfig     `toml:"panel"`
	Assets    AssetsConfig    `toml:"assets"`
	Profiling ProfilingConfig `toml:"profiling"`
}

// WindowConfig sizes the native window. Zero min/max sizes leave the window unconstrained.
type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	MinWidth  int    `toml:"min_width"`
	MinHeight int    `toml:"min_height"`
	MaxWidth  int    `toml:"max_width"`
	MaxHeight int    `toml:"max_height"`
}

// CameraConfig is the starting perspective camera.
type CameraConfig struct {
	FOV      float64    `toml:"fov"`
	Near     float64    `toml:"near"`
	Far      float64    `toml:"far"`
	Position [3]float64 `toml:"position"`
	Target   [3]float64 `toml:"target"`
}

// ControlsConfig tunes the orbit controls. A MaxDistance of 0 means unbounded.
type ControlsConfig struct {
	EnableDamping bool    `toml:"enable_damping"`
	DampingFactor float64 `toml:"damping_factor"`
	RotateSpeed   float64 `toml:"rotate_speed"`
	ZoomSpeed     float64 `toml:"zoom_speed"`
	PanSpeed      float64 `toml:"pan_speed"`
	MinDistance   float64 `toml:"min_distance"`
	MaxDistance   float64 `toml:"max_distance"`
}

// RendererConfig selects presentation and anti-aliasing.
type RendererConfig struct {
	PresentMode   string `toml:"present_mode"`
	MSAA          int    `toml:"msaa"`
	ForceSoftware bool   `toml:"force_software"`
}

// PanelConfig controls the browser parameter panel.
type PanelConfig struct {
	Enabled        bool     `toml:"enabled"`
	Addr           string   `toml:"addr"`
	Refresh        Duration `toml:"refresh"`
	AllowAnyOrigin bool     `toml:"allow_any_origin"`
	Verbose        bool     `toml:"verbose"`
}

// AssetsConfig controls texture loading. A MaxTextureSize of 0 keeps source dimensions.
type AssetsConfig struct {
	TextureDir     string  `toml:"texture_dir"`
	Watch          bool    `toml:"watch"`
	Workers        int     `toml:"workers"`
	MaxTextureSize int     `toml:"max_texture_size"`
	Exposure       float64 `toml:"exposure"`
	Verbose        bool    `toml:"verbose"`
}

// ProfilingConfig enables the periodic frame statistics log.
type ProfilingConfig struct {
	Enabled  bool     `toml:"enabled"`
	Interval Duration `toml:"interval"`
}

// Duration is a time.Duration written in TOML as a string such as "250ms" or "2s".
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the settings the demos were tuned with.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-sandbox",
			Width:  1280,
			Height: 720,
		},
		Camera: CameraConfig{
			FOV:      75,
			Near:     0.1,
			Far:      1000,
			Position: [3]float64{2, 2, 5},
		},
		Controls: ControlsConfig{
			EnableDamping: true,
			DampingFactor: 0.05,
			RotateSpeed:   1,
			ZoomSpeed:     1,
			PanSpeed:      1,
		},
		Renderer: RendererConfig{
			PresentMode: renderer.PresentModeVSync.String(),
			MSAA:        int(renderer.MSAA4x),
		},
		Panel: PanelConfig{
			Enabled: true,
			Addr:    "127.0.0.1:8090",
			Refresh: Duration(100 * time.Millisecond),
		},
		Assets: AssetsConfig{
			TextureDir: "assets/textures",
			Workers:    4,
			Exposure:   1,
		},
		Profiling: ProfilingConfig{
			Interval: Duration(time.Second),
		},
	}
}

// Load reads and validates a TOML config file on top of Default.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the merged configuration
//   - error: an error if the file cannot be read, parsed or validated
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML on top of Default and validates the result. Unknown keys are rejected so
// typos do not silently fall back to defaults.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Config: the merged configuration
//   - error: an error if the document cannot be parsed or validated
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalid, strict.String())
		}
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
//
// Returns:
//   - []byte: the TOML document
//   - error: an error if encoding fails
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate checks every section and reports all problems at once.
//
// Returns:
//   - error: nil, or an error wrapping ErrInvalid for each bad field
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	w := c.Window
	if w.Width <= 0 || w.Height <= 0 {
		bad("window size %dx%d must be positive", w.Width, w.Height)
	}
	if w.MinWidth < 0 || w.MinHeight < 0 || w.MaxWidth < 0 || w.MaxHeight < 0 {
		bad("window size limits must not be negative")
	}
	if w.MaxWidth > 0 && w.MaxWidth < w.MinWidth || w.MaxHeight > 0 && w.MaxHeight < w.MinHeight {
		bad("window max size must not be below min size")
	}

	cam := c.Camera
	if cam.FOV <= 0 || cam.FOV >= 180 {
		bad("camera fov %v must be in (0, 180)", cam.FOV)
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		bad("camera clip planes need 0 < near < far, got near %v far %v", cam.Near, cam.Far)
	}
	if cam.Position == cam.Target {
		bad("camera position and target must differ")
	}

	ctl := c.Controls
	if ctl.EnableDamping && (ctl.DampingFactor <= 0 || ctl.DampingFactor > 1) {
		bad("controls damping_factor %v must be in (0, 1]", ctl.DampingFactor)
	}
	if ctl.RotateSpeed < 0 || ctl.ZoomSpeed < 0 || ctl.PanSpeed < 0 {
		bad("controls speeds must not be negative")
	}
	if ctl.MinDistance < 0 || ctl.MaxDistance < 0 || ctl.MaxDistance > 0 && ctl.MaxDistance < ctl.MinDistance {
		bad("controls distance limits [%v, %v] are inconsistent", ctl.MinDistance, ctl.MaxDistance)
	}

	if _, err := renderer.ParsePresentMode(c.Renderer.PresentMode); err != nil {
		bad("renderer: %v", err)
	}
	if _, err := renderer.ParseMSAA(c.Renderer.MSAA); err != nil {
		bad("renderer: %v", err)
	}

	if c.Panel.Enabled {
		if c.Panel.Addr == "" {
			bad("panel addr is required when the panel is enabled")
		}
		if c.Panel.Refresh <= 0 {
			bad("panel refresh must be positive")
		}
	}

	a := c.Assets
	if a.Workers < 1 {
		bad("assets workers %d must be at least 1", a.Workers)
	}
	if a.MaxTextureSize < 0 {
		bad("assets max_texture_size must not be negative")
	}
	if a.Exposure <= 0 {
		bad("assets exposure %v must be positive", a.Exposure)
	}

	if c.Profiling.Enabled && c.Profiling.Interval <= 0 {
		bad("profiling interval must be positive")
	}
	return errors.Join(errs...)
}
