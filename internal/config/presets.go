package config

// Presets are named parameter sets reachable from the CLI.
var presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"moon": func(c *Config) {
		c.Ball.Gravity = 1000
		c.Ball.MinBounceVelocity = 20
	},
	"rubber": func(c *Config) {
		c.Ball.BounceDamping = 0.95
	},
	"brick": func(c *Config) {
		c.Ball.BounceDamping = 0.1
		c.Ball.MinBounceVelocity = 100
	},
	"slowmo": func(c *Config) {
		c.TargetFPS = 30
		c.HistoryFrames = 120
	},
}

// GetPreset returns the named preset applied over defaults, or nil when
// unknown.
func GetPreset(name string) *Config {
	apply, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}
