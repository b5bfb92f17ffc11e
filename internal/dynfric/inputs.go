package dynfric

// Inputs is the physical state of an ensemble of binaries, in cgs units.
// Each field holds either one value per binary or a single value that is
// broadcast against the others.
type Inputs struct {
	M1        []float64 // primary mass
	M2        []float64 // secondary mass
	Rads      []float64 // separation
	DensGas   []float64
	DensStars []float64
	DensDM    []float64
	Vdisp     []float64 // background velocity dispersion
	RadsHard  []float64 // hardening radius
	MassStars []float64 // total interacting stellar mass
	RadsSG    []float64 // self-gravity radius of the circumbinary disk
}

// Scalar builds single-binary Inputs.
func Scalar(m1, m2, rads, densGas, densStars, densDM, vdisp, radsHard, massStars, radsSG float64) Inputs {
	return Inputs{
		M1:        []float64{m1},
		M2:        []float64{m2},
		Rads:      []float64{rads},
		DensGas:   []float64{densGas},
		DensStars: []float64{densStars},
		DensDM:    []float64{densDM},
		Vdisp:     []float64{vdisp},
		RadsHard:  []float64{radsHard},
		MassStars: []float64{massStars},
		RadsSG:    []float64{radsSG},
	}
}

type field struct {
	name string
	vals []float64
}

func (in Inputs) fields() []field {
	return []field{
		{"m1", in.M1},
		{"m2", in.M2},
		{"rads", in.Rads},
		{"dens_gas", in.DensGas},
		{"dens_stars", in.DensStars},
		{"dens_dm", in.DensDM},
		{"vdisp", in.Vdisp},
		{"rads_hard", in.RadsHard},
		{"mass_stars", in.MassStars},
		{"rads_sg", in.RadsSG},
	}
}

// Len returns the broadcast length of the inputs.
func (in Inputs) Len() (int, error) {
	fs := in.fields()
	n := 0
	for _, f := range fs {
		if len(f.vals) > n {
			n = len(f.vals)
		}
	}
	for _, f := range fs {
		if len(f.vals) != n && len(f.vals) != 1 {
			return 0, &ShapeError{Field: f.name, Len: len(f.vals), Want: n}
		}
	}
	return n, nil
}

func at(v []float64, i int) float64 {
	if len(v) == 1 {
		return v[0]
	}
	return v[i]
}

// Slice returns the inputs restricted to elements [start, end), keeping
// broadcast fields as they are. The inputs must already have a valid Len.
func (in Inputs) Slice(start, end int) Inputs {
	cut := func(v []float64) []float64 {
		if len(v) == 1 {
			return v
		}
		return v[start:end]
	}
	return Inputs{
		M1:        cut(in.M1),
		M2:        cut(in.M2),
		Rads:      cut(in.Rads),
		DensGas:   cut(in.DensGas),
		DensStars: cut(in.DensStars),
		DensDM:    cut(in.DensDM),
		Vdisp:     cut(in.Vdisp),
		RadsHard:  cut(in.RadsHard),
		MassStars: cut(in.MassStars),
		RadsSG:    cut(in.RadsSG),
	}
}
