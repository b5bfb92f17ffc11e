// Package dynfric computes the hardening rate of a massive binary due to
// dynamical friction against gas and against the combined stellar and
// dark-matter background.
//
// Inputs are trusted. Degenerate values are not clamped: a vanishing object
// velocity makes the full-drag formula blow up, and a non-positive stellar
// mass leaves the loss-cone logarithm undefined. Both propagate as IEEE
// Inf/NaN values.
package dynfric

import (
	"math"

	"github.com/san-kum/dynfric/internal/constants"
	"github.com/san-kum/dynfric/internal/hardening"
)

// Result holds the hardening rates for every element of the inputs.
type Result struct {
	// DadtTotal is the rate from the combined stellar and dark-matter background.
	DadtTotal []float64
	// DadtGas is the rate from gas drag alone.
	DadtGas []float64
}

// Calculator evaluates the dynamical friction hardening rate for a fixed
// mechanism configuration. It holds no mutable state and is safe for
// concurrent use.
type Calculator struct {
	cfg      Config
	settings hardening.Settings
	conv     hardening.Converter
}

// New returns a Calculator. A nil settings disables disk suppression of gas
// drag and a nil converter selects hardening.DvdtToDadt.
func New(cfg Config, settings hardening.Settings, conv hardening.Converter) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if settings == nil {
		settings = hardening.StaticSettings{}
	}
	if conv == nil {
		conv = hardening.DvdtToDadt
	}
	return &Calculator{cfg: cfg, settings: settings, conv: conv}, nil
}

// Config returns the mechanism configuration the calculator was built with.
func (c *Calculator) Config() Config { return c.cfg }

// Harden returns the total-background and gas-only hardening rates.
func (c *Calculator) Harden(in Inputs) (*Result, error) {
	d, err := c.decelerate(in)
	if err != nil {
		return nil, err
	}
	dadt, _ := c.conv.Convert(d.rads, d.vcirc, d.dvdt)
	dadtGas, _ := c.conv.Convert(d.rads, d.vcirc, d.dvdtGas)
	return &Result{DadtTotal: dadt, DadtGas: dadtGas}, nil
}

// Timescales returns the characteristic hardening timescales that Harden
// discards.
func (c *Calculator) Timescales(in Inputs) (tauTotal, tauGas []float64, err error) {
	d, err := c.decelerate(in)
	if err != nil {
		return nil, nil, err
	}
	_, tauTotal = c.conv.Convert(d.rads, d.vcirc, d.dvdt)
	_, tauGas = c.conv.Convert(d.rads, d.vcirc, d.dvdtGas)
	return tauTotal, tauGas, nil
}

// HardenScalar evaluates a single binary.
func (c *Calculator) HardenScalar(m1, m2, rads, densGas, densStars, densDM, vdisp, radsHard, massStars, radsSG float64) (total, gas float64, err error) {
	res, err := c.Harden(Scalar(m1, m2, rads, densGas, densStars, densDM, vdisp, radsHard, massStars, radsSG))
	if err != nil {
		return 0, 0, err
	}
	return res.DadtTotal[0], res.DadtGas[0], nil
}

type decelerations struct {
	rads, vcirc, dvdt, dvdtGas []float64
}

func (c *Calculator) decelerate(in Inputs) (*decelerations, error) {
	if err := c.cfg.WhichBH.Validate(); err != nil {
		return nil, err
	}
	n, err := in.Len()
	if err != nil {
		return nil, err
	}

	coul := c.cfg.CoulombLogarithm
	mstar := c.cfg.MStar * constants.MSOL
	suppress := c.settings.ViscDiskFlag() && c.settings.SelfGravRad()

	d := &decelerations{
		rads:    make([]float64, n),
		vcirc:   make([]float64, n),
		dvdt:    make([]float64, n),
		dvdtGas: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		m1, m2 := at(in.M1, i), at(in.M2, i)
		rads := at(in.Rads, i)
		vdisp := at(in.Vdisp, i)
		massObj := c.cfg.WhichBH.Pick(m1, m2)
		vcirc := VelCirc(m1, m2, rads)

		dvdtGas := DvdtFull(massObj, at(in.DensGas, i), vcirc, vdisp*c.cfg.GasVelSoft, coul)
		// the circumbinary disk supersedes gas drag outside its self-gravity radius
		if suppress {
			radsSG := at(in.RadsSG, i)
			if radsSG > 0.0 && rads > radsSG*c.cfg.SelfGravRadMult {
				dvdtGas = 0.0
			}
		}

		densOther := at(in.DensStars, i) + at(in.DensDM, i)
		var dvdt float64
		if c.cfg.Attenuated {
			dvdt = DvdtAttenuated(massObj, rads, densOther, vcirc, vdisp, coul,
				at(in.RadsHard, i), mstar, at(in.MassStars, i))
		} else {
			dvdt = DvdtFull(massObj, densOther, vcirc, vdisp, coul)
		}

		d.rads[i] = rads
		d.vcirc[i] = vcirc
		d.dvdt[i] = dvdt
		d.dvdtGas[i] = dvdtGas
	}
	return d, nil
}

// DvdtFull is the Chandrasekhar deceleration for a full loss cone and a
// maxwellian background.
//
// When vdisp is small compared to velObj the velocity factor approaches
// unity; when velObj << vdisp it cuts the drag off exponentially.
func DvdtFull(massObj, dens, velObj, vdisp, coul float64) float64 {
	velf := velObj / (vdisp * math.Sqrt2)
	pref := -4.0 * math.Pi * constants.NWTG * constants.NWTG
	pref *= massObj * dens / (velObj * velObj)
	erfs := math.Abs(math.Erf(velf) - (2.0*velf/math.SqrtPi)*math.Exp(-velf*velf))
	return pref * erfs * coul
}

// DvdtAttenuated is DvdtFull reduced inside the hardening radius to account
// for depletion of the loss cone (Begelman, Blandford & Rees 1980).
//
// The attenuation factor is the larger of ln(N) rHard/r and (m/M*)^2 N,
// where N = massStars/mstar is the number of interacting stars.
func DvdtAttenuated(massObj, rads, dens, velObj, vdisp, coul, radsHard, mstar, massStars float64) float64 {
	dvdt := DvdtFull(massObj, dens, velObj, vdisp, coul)
	if !(rads < radsHard) {
		return dvdt
	}
	numStars := massStars / mstar
	atten1 := math.Log(numStars) * radsHard / rads
	ratio := massObj / massStars
	atten2 := ratio * ratio * numStars
	return dvdt / math.Max(atten1, atten2)
}

// VelCirc is the circular orbital velocity of the secondary about the
// binary's center of mass.
func VelCirc(m1, m2, sep float64) float64 {
	mtot := m1 + m2
	mrat := m2 / m1
	return math.Sqrt(constants.NWTG*mtot/sep) / (1.0 + mrat)
}
