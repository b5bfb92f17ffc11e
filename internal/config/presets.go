package config

import (
	"sort"

	"github.com/san-kum/dynfric/internal/hardening"
)

var Presets = map[string]func() *Config{
	"reference": DefaultConfig,
	"gas-rich": func() *Config {
		cfg := DefaultConfig()
		cfg.Binary.DensGas = 1e-18
		cfg.Binary.DensStars = 1e-21
		cfg.Binary.DensDM = 1e-21
		return cfg
	},
	"hard": func() *Config {
		cfg := DefaultConfig()
		cfg.Binary.Rads = 0.01
		return cfg
	},
	"disk": func() *Config {
		cfg := DefaultConfig()
		cfg.Settings = hardening.StaticSettings{ViscDisk: true, SelfGravity: true}
		cfg.Binary.RadsSG = 0.5
		return cfg
	},
	"equal-mass": func() *Config {
		cfg := DefaultConfig()
		cfg.Binary.M1 = 1e8
		cfg.Binary.M2 = 1e8
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
