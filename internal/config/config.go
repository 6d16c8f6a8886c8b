// Package config loads the demo configuration from a JSON, TOML or YAML
// file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"RealisticRender/internal/renderer"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type WindowConfig struct {
	Width   int    `json:"width" toml:"width" yaml:"width"`
	Height  int    `json:"height" toml:"height" yaml:"height"`
	Title   string `json:"title" toml:"title" yaml:"title"`
	Samples int    `json:"samples" toml:"samples" yaml:"samples"`
	VSync   bool   `json:"vsync" toml:"vsync" yaml:"vsync"`
}

type LogConfig struct {
	Development bool   `json:"development" toml:"development" yaml:"development"`
	Level       string `json:"level" toml:"level" yaml:"level"`
}

type AssetConfig struct {
	Root        string    `json:"root" toml:"root" yaml:"root"`
	Environment [6]string `json:"environment" toml:"environment" yaml:"environment"`
	Model       string    `json:"model" toml:"model" yaml:"model"`
}

// DebugConfig carries the initial values of the panel controls.
type DebugConfig struct {
	EnvMapIntensity     float32    `json:"env_map_intensity" toml:"env_map_intensity" yaml:"env_map_intensity"`
	ToneMapping         string     `json:"tone_mapping" toml:"tone_mapping" yaml:"tone_mapping"`
	ToneMappingExposure float32    `json:"tone_mapping_exposure" toml:"tone_mapping_exposure" yaml:"tone_mapping_exposure"`
	LightIntensity      float32    `json:"light_intensity" toml:"light_intensity" yaml:"light_intensity"`
	LightPosition       [3]float32 `json:"light_position" toml:"light_position" yaml:"light_position"`
	NormalBias          float32    `json:"normal_bias" toml:"normal_bias" yaml:"normal_bias"`
}

type ShadowConfig struct {
	MapSize int     `json:"map_size" toml:"map_size" yaml:"map_size"`
	Far     float32 `json:"far" toml:"far" yaml:"far"`
}

type Config struct {
	Window WindowConfig `json:"window" toml:"window" yaml:"window"`
	Log    LogConfig    `json:"log" toml:"log" yaml:"log"`
	Assets AssetConfig  `json:"assets" toml:"assets" yaml:"assets"`
	Debug  DebugConfig  `json:"debug" toml:"debug" yaml:"debug"`
	Shadow ShadowConfig `json:"shadow" toml:"shadow" yaml:"shadow"`
}

func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:   1280,
			Height:  720,
			Title:   "Realistic Render",
			Samples: 4,
			VSync:   true,
		},
		Log: LogConfig{Development: true, Level: "debug"},
		Assets: AssetConfig{
			Root: "static",
			Environment: [6]string{
				"/textures/environmentMaps/3/px.jpg",
				"/textures/environmentMaps/3/nx.jpg",
				"/textures/environmentMaps/3/py.jpg",
				"/textures/environmentMaps/3/ny.jpg",
				"/textures/environmentMaps/3/pz.jpg",
				"/textures/environmentMaps/3/nz.jpg",
			},
			Model: "/models/hamburger.glb",
		},
		Debug: DebugConfig{
			EnvMapIntensity:     0.879,
			ToneMapping:         renderer.ACESFilmicToneMapping.String(),
			ToneMappingExposure: 3,
			LightIntensity:      3,
			LightPosition:       [3]float32{0.25, 3, -2.25},
			NormalBias:          0.012,
		},
		Shadow: ShadowConfig{MapSize: 1024, Far: 12},
	}
}

// Load reads path over the defaults. The format follows the extension:
// .toml, .yaml or .yml, anything else is JSON. A missing file yields the
// defaults; a file that exists but does not parse or validate is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := unmarshal(path, data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func unmarshal(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

func inRange(v, lo, hi float32) bool { return v >= lo && v <= hi }

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	for i, p := range c.Assets.Environment {
		if p == "" {
			errs = append(errs, fmt.Errorf("environment face %d has no path", i))
		}
	}
	if c.Assets.Model == "" {
		errs = append(errs, errors.New("model path is empty"))
	}

	d := c.Debug
	if !inRange(d.EnvMapIntensity, 0, 10) {
		errs = append(errs, fmt.Errorf("env_map_intensity %v outside [0, 10]", d.EnvMapIntensity))
	}
	if !inRange(d.ToneMappingExposure, 0, 10) {
		errs = append(errs, fmt.Errorf("tone_mapping_exposure %v outside [0, 10]", d.ToneMappingExposure))
	}
	if !inRange(d.LightIntensity, 0, 10) {
		errs = append(errs, fmt.Errorf("light_intensity %v outside [0, 10]", d.LightIntensity))
	}
	for i, v := range d.LightPosition {
		if !inRange(v, -5, 5) {
			errs = append(errs, fmt.Errorf("light_position[%d] %v outside [-5, 5]", i, v))
		}
	}
	if !inRange(d.NormalBias, 0, 0.05) {
		errs = append(errs, fmt.Errorf("normal_bias %v outside [0, 0.05]", d.NormalBias))
	}
	if _, err := renderer.ParseToneMapping(d.ToneMapping); err != nil {
		errs = append(errs, err)
	}

	if c.Shadow.MapSize <= 0 {
		errs = append(errs, fmt.Errorf("shadow map_size %d must be positive", c.Shadow.MapSize))
	}
	if c.Shadow.Far <= 0 {
		errs = append(errs, fmt.Errorf("shadow far %v must be positive", c.Shadow.Far))
	}
	return errors.Join(errs...)
}
