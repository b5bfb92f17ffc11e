// Package hardening defines the collaborators shared by binary hardening
// mechanisms: the conversion from a velocity-loss rate to a separation
// hardening rate, and the disk-physics settings.
package hardening

import "math"

// Converter maps a deceleration at a given separation and circular velocity
// into a separation hardening rate and its characteristic timescale.
type Converter interface {
	Convert(rads, vcirc, dvdt []float64) (dadt, tau []float64)
}

// ConverterFunc adapts a plain function to Converter.
type ConverterFunc func(rads, vcirc, dvdt []float64) (dadt, tau []float64)

func (f ConverterFunc) Convert(rads, vcirc, dvdt []float64) ([]float64, []float64) {
	return f(rads, vcirc, dvdt)
}

// DvdtToDadt is the default Converter.
var DvdtToDadt Converter = ConverterFunc(dvdtToDadt)

// dvdtToDadt uses da/dt = 2 a (dv/dt) / v and tau = |a / (da/dt)|.
// A zero deceleration gives an infinite timescale.
func dvdtToDadt(rads, vcirc, dvdt []float64) ([]float64, []float64) {
	dadt := make([]float64, len(rads))
	tau := make([]float64, len(rads))
	for i := range rads {
		dadt[i] = 2.0 * rads[i] * dvdt[i] / vcirc[i]
		tau[i] = math.Abs(rads[i] / dadt[i])
	}
	return dadt, tau
}

// Settings exposes the disk-physics flags of the surrounding simulation.
type Settings interface {
	// ViscDiskFlag reports whether a viscous circumbinary disk is modeled.
	ViscDiskFlag() bool
	// SelfGravRad reports whether the disk is truncated at its self-gravity radius.
	SelfGravRad() bool
}

// StaticSettings is a fixed Settings value.
type StaticSettings struct {
	ViscDisk    bool `yaml:"visc_disk_flag"`
	SelfGravity bool `yaml:"self_grav_rad"`
}

func (s StaticSettings) ViscDiskFlag() bool { return s.ViscDisk }
func (s StaticSettings) SelfGravRad() bool  { return s.SelfGravity }
