package config

import "sort"

// Presets tweak DefaultConfig into named tunings.
var Presets = map[string]func(*Config){
	"casino": func(c *Config) {},
	"fast": func(c *Config) {
		c.SpeedScale = 1.3
		c.BallMinDeg, c.BallMaxDeg = 520, 760
		c.AirResistance = 0.05
	},
	"sticky": func(c *Config) {
		c.Stickiness = 4.0
		c.GrooveK = 45
		c.SideRestitution = 0.3
		c.MidDrag = 2.5
	},
	"loose": func(c *Config) {
		c.Stickiness = 1.0
		c.SideRestitution = 0.6
		c.TiltSigma = 0.03
		c.RequireMidForStop = false
	},
	"fixed-rotor": func(c *Config) {
		c.RotorFixed = true
		c.RotorFixedDeg = 30
	},
}

func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
