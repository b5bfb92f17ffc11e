package config

import (
	"fmt"
	"os"

	"github.com/san-kum/dynfric/internal/constants"
	"github.com/san-kum/dynfric/internal/dynfric"
	"github.com/san-kum/dynfric/internal/hardening"
	"github.com/san-kum/dynfric/internal/logging"
	"gopkg.in/yaml.v3"
)

const (
	DefaultM1        = 1e9   // [Msol]
	DefaultM2        = 1e7   // [Msol]
	DefaultRads      = 1.0   // [pc]
	DefaultDens      = 1e-20 // [g/cm^3]
	DefaultVdisp     = 200.0 // [km/s]
	DefaultRadsHard  = 0.1   // [pc]
	DefaultMassStars = 1e6   // [Msol]
	DefaultRMin      = 1e-4  // [pc]
	DefaultRMax      = 1e3   // [pc]
	DefaultPoints    = 64
	DefaultWorkers   = 4
)

type Config struct {
	Mechanism dynfric.Config           `yaml:"mechanism"`
	Settings  hardening.StaticSettings `yaml:"settings"`
	Binary    Scenario                 `yaml:"binary"`
	Sweep     SweepConfig              `yaml:"sweep"`
	Logging   logging.Config           `yaml:"logging"`
}

// Scenario is a binary and its environment in astrophysical units.
type Scenario struct {
	M1        float64 `yaml:"m1"`         // [Msol]
	M2        float64 `yaml:"m2"`         // [Msol]
	Rads      float64 `yaml:"rads"`       // [pc]
	DensGas   float64 `yaml:"dens_gas"`   // [g/cm^3]
	DensStars float64 `yaml:"dens_stars"` // [g/cm^3]
	DensDM    float64 `yaml:"dens_dm"`    // [g/cm^3]
	Vdisp     float64 `yaml:"vdisp"`      // [km/s]
	RadsHard  float64 `yaml:"rads_hard"`  // [pc]
	MassStars float64 `yaml:"mass_stars"` // [Msol]
	RadsSG    float64 `yaml:"rads_sg"`    // [pc]
}

type SweepConfig struct {
	RMin    float64 `yaml:"rmin"` // [pc]
	RMax    float64 `yaml:"rmax"` // [pc]
	Points  int     `yaml:"points"`
	Workers int     `yaml:"workers"`
}

func DefaultScenario() Scenario {
	return Scenario{
		M1:        DefaultM1,
		M2:        DefaultM2,
		Rads:      DefaultRads,
		DensGas:   DefaultDens,
		DensStars: DefaultDens,
		DensDM:    DefaultDens,
		Vdisp:     DefaultVdisp,
		RadsHard:  DefaultRadsHard,
		MassStars: DefaultMassStars,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Mechanism: dynfric.DefaultConfig(),
		Binary:    DefaultScenario(),
		Sweep: SweepConfig{
			RMin:    DefaultRMin,
			RMax:    DefaultRMax,
			Points:  DefaultPoints,
			Workers: DefaultWorkers,
		},
		Logging: logging.Config{
			Level:  logging.DefaultLevel,
			Format: logging.DefaultFormat,
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
		return nil, fmt.Errorf("failed to parse config: %w", err)
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

// Validate checks the mechanism and sweep settings. Physical inputs are
// passed through untouched.
func (c *Config) Validate() error {
	if err := c.Mechanism.Validate(); err != nil {
		return err
	}
	if c.Sweep.Points < 1 {
		return fmt.Errorf("sweep points must be positive, got %d", c.Sweep.Points)
	}
	if !(c.Sweep.RMin > 0 && c.Sweep.RMax > c.Sweep.RMin) {
		return fmt.Errorf("sweep range must satisfy 0 < rmin < rmax, got [%g, %g]", c.Sweep.RMin, c.Sweep.RMax)
	}
	return nil
}

// Inputs converts the scenario to cgs calculator inputs.
func (s Scenario) Inputs() dynfric.Inputs {
	return dynfric.Scalar(
		s.M1*constants.MSOL,
		s.M2*constants.MSOL,
		s.Rads*constants.PC,
		s.DensGas,
		s.DensStars,
		s.DensDM,
		s.Vdisp*constants.KMPERSEC,
		s.RadsHard*constants.PC,
		s.MassStars*constants.MSOL,
		s.RadsSG*constants.PC,
	)
}
