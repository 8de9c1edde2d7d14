package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/bouncelab/internal/physics"
)

const (
	DefaultWidth         = 800
	DefaultHeight        = 600
	DefaultGroundOffset  = 50
	DefaultTargetFPS     = 144
	DefaultHistoryFrames = 500

	// Start heights for the two frames: near the top of the screen, or
	// well above the ground in physics coordinates.
	DefaultScreenStartY  = 100.0
	DefaultPhysicsStartY = 420.0
)

type Config struct {
	Coordinates   string  `yaml:"coordinates"` // "screen" or "physics"
	TargetFPS     int     `yaml:"target_fps"`
	HistoryFrames int     `yaml:"history_frames"`
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	GroundOffset  float64 `yaml:"ground_offset"`
	StartY        float64 `yaml:"start_y"` // zero means frame default

	Ball      BallConfig `yaml:"ball"`
	AutoPause bool       `yaml:"auto_pause_after_step"`
}

type BallConfig struct {
	Radius            float64 `yaml:"radius"`
	Mass              float64 `yaml:"mass"`
	Gravity           float64 `yaml:"gravity"`
	BounceDamping     float64 `yaml:"bounce_damping"`
	MinBounceVelocity float64 `yaml:"min_bounce_velocity"`
}

func DefaultConfig() *Config {
	return &Config{
		Coordinates:   "screen",
		TargetFPS:     DefaultTargetFPS,
		HistoryFrames: DefaultHistoryFrames,
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		GroundOffset:  DefaultGroundOffset,
		Ball: BallConfig{
			Radius:            physics.DefaultRadius,
			Mass:              physics.DefaultMass,
			Gravity:           physics.DefaultGravity,
			BounceDamping:     physics.DefaultBounceDamping,
			MinBounceVelocity: physics.DefaultMinBounceVelocity,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.TargetFPS <= 0 {
		return fmt.Errorf("target_fps must be positive, got %d", c.TargetFPS)
	}
	if c.HistoryFrames <= 0 {
		return fmt.Errorf("history_frames must be positive, got %d", c.HistoryFrames)
	}
	if c.Coordinates != "screen" && c.Coordinates != "physics" {
		return fmt.Errorf("coordinates must be \"screen\" or \"physics\", got %q", c.Coordinates)
	}
	if c.Ball.Radius <= 0 {
		return fmt.Errorf("ball radius must be positive, got %f", c.Ball.Radius)
	}
	if c.Ball.Mass <= 0 {
		return fmt.Errorf("ball mass must be positive, got %f", c.Ball.Mass)
	}
	if c.Ball.Gravity < 0 {
		return fmt.Errorf("gravity is a magnitude, got %f", c.Ball.Gravity)
	}
	if c.Ball.BounceDamping < 0 || c.Ball.BounceDamping > 1 {
		return fmt.Errorf("bounce_damping must be in [0,1], got %f", c.Ball.BounceDamping)
	}
	return nil
}

// GroundY is the ground line in screen coordinates.
func (c *Config) GroundY() float64 {
	return c.Height - c.GroundOffset
}

// Frame builds the coordinate-system policy the config selects.
func (c *Config) Frame() physics.Frame {
	if c.Coordinates == "physics" {
		return physics.PhysicsFrame{}
	}
	return physics.ScreenFrame{GroundY: c.GroundY()}
}

// InitialY is the configured start height, falling back to the frame's
// default drop position.
func (c *Config) InitialY() float64 {
	if c.StartY != 0 {
		return c.StartY
	}
	if c.Coordinates == "physics" {
		return DefaultPhysicsStartY
	}
	return DefaultScreenStartY
}

// NewBall builds the configured ball at the horizontal center.
func (c *Config) NewBall() *physics.Ball {
	b := physics.NewBall(c.Width/2, c.InitialY(), c.Frame())
	b.Radius = c.Ball.Radius
	b.Mass = c.Ball.Mass
	b.Gravity = c.Ball.Gravity
	b.BounceDamping = c.Ball.BounceDamping
	b.MinBounceVelocity = c.Ball.MinBounceVelocity
	return b
}
