package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/gimbal/internal/core/anchor"
	"github.com/zeusync/gimbal/internal/core/gimbal"
	"github.com/zeusync/gimbal/internal/core/input"
	"github.com/zeusync/gimbal/internal/core/observability/log"
	"github.com/zeusync/gimbal/internal/core/spatial"
	"github.com/zeusync/gimbal/internal/core/tuning"
)

var (
	ErrUnknownFormat = errors.New("config: unknown file format")
	ErrInvalid       = errors.New("config: invalid")
)

// Config is the whole runtime configuration, loaded from one YAML or JSON
// file.
type Config struct {
	Log    LogConfig     `json:"log" yaml:"log"`
	Loop   LoopConfig    `json:"loop" yaml:"loop"`
	Gimbal gimbal.Config `json:"gimbal" yaml:"gimbal"`
	Anchor AnchorConfig  `json:"anchor" yaml:"anchor"`
	Input  InputConfig   `json:"input" yaml:"input"`
	Record RecordConfig  `json:"record" yaml:"record"`
	Tuning TuningConfig  `json:"tuning" yaml:"tuning"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

type LoopConfig struct {
	// TickRate is in ticks per second.
	TickRate float64 `json:"tick_rate" yaml:"tick_rate"`
	// Duration in seconds. Zero runs until cancelled.
	Duration float64 `json:"duration" yaml:"duration"`
	Realtime bool    `json:"realtime" yaml:"realtime"`
	// Rig is the bus topic the loop's input actions travel on.
	Rig string `json:"rig" yaml:"rig"`
}

type AnchorConfig struct {
	anchor.Scenario `yaml:",inline"`
	// File names a scenario YAML that replaces the inline trajectory.
	// Relative paths resolve against the config file's directory.
	File   string       `json:"file,omitempty" yaml:"file,omitempty"`
	Jitter JitterConfig `json:"jitter" yaml:"jitter"`
}

type InputConfig struct {
	input.Script `yaml:",inline"`
	// File names a script YAML that replaces the inline timeline, resolved
	// like AnchorConfig.File.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

type JitterConfig struct {
	Position float64 `json:"position" yaml:"position"`
	Rotation float64 `json:"rotation" yaml:"rotation"`
	Seed     uint64  `json:"seed" yaml:"seed"`
}

type RecordConfig struct {
	// Path of the CSV trace. Empty disables it.
	Path string `json:"path" yaml:"path"`
	// Plot is the path of the rendered trace; its extension picks the image
	// format. Empty disables it.
	Plot string `json:"plot" yaml:"plot"`
}

// TuningConfig lists Kalman noise pairs to compare in a sweep.
type TuningConfig struct {
	Candidates []tuning.Candidate `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	// Workers bounds concurrent simulations. Zero means one per candidate.
	Workers int `json:"workers" yaml:"workers"`
}

const DefaultRig = "main"

func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info"},
		Loop:   LoopConfig{TickRate: 60, Duration: 10, Rig: DefaultRig},
		Gimbal: gimbal.DefaultConfig(),
		Anchor: AnchorConfig{
			Scenario: anchor.Scenario{
				Keyframes: []anchor.Keyframe{{Position: spatial.Vector{Y: 1.6}}},
			},
		},
	}
}

// Load reads path, picking the decoder from its extension, on top of
// Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return parse(data, filepath.Ext(path), filepath.Dir(path))
}

// Parse decodes data in the given format ("yaml", "yml" or "json", with or
// without a leading dot). Relative anchor and input files resolve against the
// working directory.
func Parse(data []byte, format string) (*Config, error) {
	return parse(data, format, "")
}

func parse(data []byte, format, dir string) (*Config, error) {
	c := Default()
	// Keyframes replace the default trajectory instead of merging with it.
	c.Anchor.Keyframes = nil

	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("decode yaml config: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("decode json config: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err := c.include(dir); err != nil {
		return nil, err
	}
	if len(c.Anchor.Keyframes) == 0 {
		c.Anchor.Keyframes = Default().Anchor.Keyframes
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) include(dir string) error {
	if c.Anchor.File != "" {
		sc, err := loadFile(dir, c.Anchor.File, anchor.LoadScenario)
		if err != nil {
			return fmt.Errorf("anchor file: %w", err)
		}
		c.Anchor.Scenario = *sc
	}
	if c.Input.File != "" {
		s, err := loadFile(dir, c.Input.File, input.LoadScript)
		if err != nil {
			return fmt.Errorf("input file: %w", err)
		}
		c.Input.Script = *s
	}
	return nil
}

func loadFile[T any](dir, name string, load func(io.Reader) (*T, error)) (*T, error) {
	if !filepath.IsAbs(name) {
		name = filepath.Join(dir, name)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return load(f)
}

// Validate joins every problem found under ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Loop.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("loop.tick_rate must be positive, got %v", c.Loop.TickRate))
	}
	if c.Loop.Duration < 0 {
		errs = append(errs, fmt.Errorf("loop.duration must not be negative, got %v", c.Loop.Duration))
	}
	if c.Tuning.Workers < 0 {
		errs = append(errs, fmt.Errorf("tuning.workers must not be negative, got %d", c.Tuning.Workers))
	}
	if c.Anchor.Jitter.Position < 0 || c.Anchor.Jitter.Rotation < 0 {
		errs = append(errs, fmt.Errorf("anchor.jitter sigmas must not be negative"))
	}
	errs = append(errs, c.Gimbal.Validate(), c.Anchor.Validate(), c.Input.Validate())

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// TickInterval is the simulated time step in seconds.
func (c *Config) TickInterval() float64 {
	return 1 / c.Loop.TickRate
}
