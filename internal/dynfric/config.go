package dynfric

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ObjectMass selects which mass is dragged through the background.
type ObjectMass int

const (
	ObjectMassTotal     ObjectMass = 0 // m1 + m2
	ObjectMassPrimary   ObjectMass = 1 // m1
	ObjectMassSecondary ObjectMass = 2 // m2
)

const (
	DefaultCoulombLogarithm = 15.0
	DefaultGasVelSoft       = 1.0
	DefaultMStar            = 0.6 // [Msol]
	DefaultSelfGravRadMult  = 1.0
)

var objectMassNames = map[ObjectMass]string{
	ObjectMassTotal:     "total",
	ObjectMassPrimary:   "primary",
	ObjectMassSecondary: "secondary",
}

func (o ObjectMass) String() string {
	if name, ok := objectMassNames[o]; ok {
		return name
	}
	return "ObjectMass(" + strconv.Itoa(int(o)) + ")"
}

// Validate returns ErrInvalidConfiguration for an unrecognized policy.
func (o ObjectMass) Validate() error {
	if _, ok := objectMassNames[o]; !ok {
		return fmt.Errorf("%w: unrecognized object mass policy %d", ErrInvalidConfiguration, int(o))
	}
	return nil
}

// Pick returns the object mass for the given binary components.
// The policy is assumed valid.
func (o ObjectMass) Pick(m1, m2 float64) float64 {
	switch o {
	case ObjectMassPrimary:
		return m1
	case ObjectMassSecondary:
		return m2
	default:
		return m1 + m2
	}
}

// ParseObjectMass accepts a policy name ("total", "sum", "primary",
// "secondary") or its integer code.
func ParseObjectMass(s string) (ObjectMass, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "total", "sum":
		return ObjectMassTotal, nil
	case "primary":
		return ObjectMassPrimary, nil
	case "secondary":
		return ObjectMassSecondary, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: unrecognized object mass policy %q", ErrInvalidConfiguration, s)
	}
	o := ObjectMass(n)
	if err := o.Validate(); err != nil {
		return 0, err
	}
	return o, nil
}

func (o *ObjectMass) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseObjectMass(value.Value)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

func (o ObjectMass) MarshalYAML() (interface{}, error) {
	return o.String(), nil
}

// Config holds the fixed parameters of the dynamical friction mechanism.
type Config struct {
	WhichBH          ObjectMass `yaml:"which_bh"`
	CoulombLogarithm float64    `yaml:"coulomb_logarithm"`
	Attenuated       bool       `yaml:"attenuated"`
	GasVelSoft       float64    `yaml:"gas_vel_soft"`
	MStar            float64    `yaml:"mstar"` // characteristic stellar mass [Msol]
	SelfGravRadMult  float64    `yaml:"self_grav_rad_mult"`
}

func DefaultConfig() Config {
	return Config{
		WhichBH:          ObjectMassSecondary,
		CoulombLogarithm: DefaultCoulombLogarithm,
		Attenuated:       true,
		GasVelSoft:       DefaultGasVelSoft,
		MStar:            DefaultMStar,
		SelfGravRadMult:  DefaultSelfGravRadMult,
	}
}

// Validate checks the configuration. Only the object-mass policy is
// checked; physical parameters are the caller's responsibility.
func (c Config) Validate() error {
	return c.WhichBH.Validate()
}
