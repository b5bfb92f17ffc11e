package dynfric_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dynfric/internal/constants"
	"github.com/san-kum/dynfric/internal/dynfric"
	"github.com/san-kum/dynfric/internal/hardening"
)

func reference() dynfric.Inputs {
	return dynfric.Scalar(
		1e9*constants.MSOL,
		1e7*constants.MSOL,
		constants.PC,
		1e-20, 1e-20, 1e-20,
		200.0*constants.KMPERSEC,
		0.1*constants.PC,
		1e6*constants.MSOL,
		0,
	)
}

var _ = Describe("Calculator", func() {
	var calc *dynfric.Calculator

	BeforeEach(func() {
		var err error
		calc, err = dynfric.New(dynfric.DefaultConfig(), nil, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("the reference binary", func() {
		It("shrinks under both gas and background drag", func() {
			in := reference()
			res, err := calc.Harden(in)
			Expect(err).NotTo(HaveOccurred())

			vcirc := dynfric.VelCirc(in.M1[0], in.M2[0], in.Rads[0])
			dvdt := dynfric.DvdtFull(in.M2[0], 2e-20, vcirc, in.Vdisp[0], dynfric.DefaultCoulombLogarithm)
			Expect(math.IsInf(dvdt, 0) || math.IsNaN(dvdt)).To(BeFalse())
			Expect(dvdt).To(BeNumerically("<", 0))

			total, gas := res.DadtTotal[0], res.DadtGas[0]
			Expect(math.IsInf(total, 0) || math.IsNaN(total)).To(BeFalse())
			Expect(math.IsInf(gas, 0) || math.IsNaN(gas)).To(BeFalse())
			Expect(total).To(BeNumerically("<", 0))
			Expect(gas).To(BeNumerically("<", 0))
			Expect(math.Abs(gas)).To(BeNumerically("<=", math.Abs(total)))
		})

		It("is unattenuated outside the hardening radius", func() {
			cfg := dynfric.DefaultConfig()
			cfg.Attenuated = false
			full, err := dynfric.New(cfg, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			a, err := calc.Harden(reference())
			Expect(err).NotTo(HaveOccurred())
			b, err := full.Harden(reference())
			Expect(err).NotTo(HaveOccurred())
			Expect(a.DadtTotal).To(Equal(b.DadtTotal))
		})

		It("returns bit-identical results on repeated calls", func() {
			radii := []float64{1e-3, 1e-2, 0.1, 1, 10}
			in := reference()
			in.Rads = make([]float64, len(radii))
			for i, r := range radii {
				in.Rads[i] = r * constants.PC
			}

			first, err := calc.Harden(in)
			Expect(err).NotTo(HaveOccurred())
			second, err := calc.Harden(in)
			Expect(err).NotTo(HaveOccurred())
			for i := range radii {
				Expect(math.Float64bits(second.DadtTotal[i])).To(Equal(math.Float64bits(first.DadtTotal[i])))
				Expect(math.Float64bits(second.DadtGas[i])).To(Equal(math.Float64bits(first.DadtGas[i])))
			}
		})
	})

	Describe("circumbinary disk suppression", func() {
		var in dynfric.Inputs

		BeforeEach(func() {
			in = reference()
			in.Rads = []float64{0.1 * constants.PC, 0.5 * constants.PC, 2.0 * constants.PC}
			in.RadsSG = []float64{0.5 * constants.PC}
		})

		harden := func(settings hardening.Settings, in dynfric.Inputs) *dynfric.Result {
			c, err := dynfric.New(dynfric.DefaultConfig(), settings, nil)
			Expect(err).NotTo(HaveOccurred())
			res, err := c.Harden(in)
			Expect(err).NotTo(HaveOccurred())
			return res
		}

		It("zeroes gas drag outside the self-gravity radius", func() {
			res := harden(hardening.StaticSettings{ViscDisk: true, SelfGravity: true}, in)
			Expect(res.DadtGas[0]).To(BeNumerically("<", 0))
			Expect(res.DadtGas[1]).To(BeNumerically("<", 0))
			Expect(res.DadtGas[2]).To(Equal(0.0))
			Expect(res.DadtTotal[2]).To(BeNumerically("<", 0))
		})

		DescribeTable("leaves gas drag alone",
			func(settings hardening.Settings, radsSG float64) {
				in.RadsSG = []float64{radsSG}
				res := harden(settings, in)
				ref := harden(nil, in)
				Expect(res.DadtGas).To(Equal(ref.DadtGas))
				for _, v := range res.DadtGas {
					Expect(v).To(BeNumerically("<", 0))
				}
			},
			Entry("without a viscous disk", hardening.StaticSettings{ViscDisk: false, SelfGravity: true}, 0.5*constants.PC),
			Entry("without self-gravity truncation", hardening.StaticSettings{ViscDisk: true, SelfGravity: false}, 0.5*constants.PC),
			Entry("with a zero self-gravity radius", hardening.StaticSettings{ViscDisk: true, SelfGravity: true}, 0.0),
			Entry("with a negative self-gravity radius", hardening.StaticSettings{ViscDisk: true, SelfGravity: true}, -1.0),
		)

		It("scales the cutoff by the self-gravity multiplier", func() {
			cfg := dynfric.DefaultConfig()
			cfg.SelfGravRadMult = 10.0
			c, err := dynfric.New(cfg, hardening.StaticSettings{ViscDisk: true, SelfGravity: true}, nil)
			Expect(err).NotTo(HaveOccurred())
			res, err := c.Harden(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.DadtGas[2]).To(BeNumerically("<", 0))
		})
	})

	Describe("loss-cone attenuation", func() {
		It("never amplifies drag inside the hardening radius", func() {
			cfg := dynfric.DefaultConfig()
			cfg.Attenuated = false
			full, err := dynfric.New(cfg, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			in := reference()
			in.Rads = []float64{1e-4 * constants.PC, 1e-3 * constants.PC, 0.01 * constants.PC, 0.099 * constants.PC}
			a, err := calc.Harden(in)
			Expect(err).NotTo(HaveOccurred())
			b, err := full.Harden(in)
			Expect(err).NotTo(HaveOccurred())
			for i := range in.Rads {
				Expect(math.Abs(a.DadtTotal[i])).To(BeNumerically("<=", math.Abs(b.DadtTotal[i])))
				Expect(a.DadtGas[i]).To(Equal(b.DadtGas[i]))
			}
		})

		It("propagates NaN for a non-positive stellar mass", func() {
			in := reference()
			in.Rads = []float64{0.01 * constants.PC}
			in.MassStars = []float64{0}
			res, err := calc.Harden(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(math.IsNaN(res.DadtTotal[0])).To(BeTrue())
			Expect(math.IsNaN(res.DadtGas[0])).To(BeFalse())
		})
	})
})
