package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	WindowWidth  = 1280
	WindowHeight = 720

	VisualRingSize        = 8192
	FFTSize               = 2048
	SmoothingTimeConstant = 0.7
	MinDecibels           = -100.0
	MaxDecibels           = -30.0

	// Button dimensions
	ButtonWidth  = 120
	ButtonHeight = 40
	ButtonX      = 20
	ButtonY      = 50
	ButtonGap    = 10

	// Field geometry
	BoundaryLimit = 260.0
	SeedRadius    = 180.0

	// Camera
	CameraFOV      = 65.0
	CameraNear     = 0.1
	CameraFar      = 1000.0
	CameraDistance = 220.0
	FogDensity     = 0.002

	ParticleCountStep = 1000
	MinParticleCount  = 1
	MaxParticleCount  = 200000

	DefaultResolverEndpoint = "https://yt-dlp-api.fly.dev"
	EnvPrefix               = "PARTICLES_"
)

var ErrInvalidParams = errors.New("invalid render params")

// RenderParams is read by the field and camera every frame.
type RenderParams struct {
	Speed            float64 `yaml:"speed"`
	Velocity         float64 `yaml:"velocity"`
	Scale            float64 `yaml:"scale"`
	ColorSensitivity float64 `yaml:"colorSensitivity"`
	AudioSensitivity float64 `yaml:"audioSensitivity"`
	ParticleCount    int     `yaml:"particleCount"`
}

// Default returns the params the visualizer starts with.
func Default() RenderParams {
	return RenderParams{
		Speed:            1.25,
		Velocity:         1.6,
		Scale:            1.4,
		ColorSensitivity: 1.5,
		AudioSensitivity: 3.0,
		ParticleCount:    8000,
	}
}

// ParamNames lists the names accepted by Set, in display order.
var ParamNames = []string{"speed", "velocity", "scale", "color-sensitivity", "audio-sensitivity", "particle-count"}

// Set assigns a single param by its flag-style name.
func (p *RenderParams) Set(name, value string) error {
	value = strings.TrimSpace(value)
	if name == "particle-count" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		p.ParticleCount = n
		return nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	switch name {
	case "speed":
		p.Speed = f
	case "velocity":
		p.Velocity = f
	case "scale":
		p.Scale = f
	case "color-sensitivity":
		p.ColorSensitivity = f
	case "audio-sensitivity":
		p.AudioSensitivity = f
	default:
		return fmt.Errorf("unknown param %q", name)
	}
	return nil
}

// Validate rejects params the field cannot run with.
func (p RenderParams) Validate() error {
	switch {
	case p.Speed < 0:
		return fmt.Errorf("%w: speed must be >= 0", ErrInvalidParams)
	case p.Velocity < 0:
		return fmt.Errorf("%w: velocity must be >= 0", ErrInvalidParams)
	case p.Scale <= 0:
		return fmt.Errorf("%w: scale must be > 0", ErrInvalidParams)
	case p.ColorSensitivity < 0:
		return fmt.Errorf("%w: color sensitivity must be >= 0", ErrInvalidParams)
	case p.AudioSensitivity < 0:
		return fmt.Errorf("%w: audio sensitivity must be >= 0", ErrInvalidParams)
	case p.ParticleCount < MinParticleCount || p.ParticleCount > MaxParticleCount:
		return fmt.Errorf("%w: particle count must be in [%d, %d]", ErrInvalidParams, MinParticleCount, MaxParticleCount)
	}
	return nil
}

// EnvName maps a param name to its environment variable, e.g.
// "audio-sensitivity" -> "PARTICLES_AUDIO_SENSITIVITY".
func EnvName(name string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// Load builds params from the defaults, an optional YAML file and the
// environment, in that order. lookup is usually os.LookupEnv.
func Load(path string, lookup func(string) (string, bool)) (RenderParams, error) {
	p := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return p, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &p); err != nil {
			return p, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if lookup != nil {
		for _, name := range ParamNames {
			v, ok := lookup(EnvName(name))
			if !ok || v == "" {
				continue
			}
			if err := p.Set(name, v); err != nil {
				return p, fmt.Errorf("env %s: %w", EnvName(name), err)
			}
		}
	}

	return p, p.Validate()
}
