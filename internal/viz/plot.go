package viz

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dynfric/internal/constants"
	"github.com/san-kum/dynfric/internal/sweep"
)

// Myr is a megayear in seconds.
const Myr = 1e6 * constants.YR

// PcPerMyr converts a rate in cm/s to pc/Myr.
func PcPerMyr(dadt float64) float64 {
	return dadt * Myr / constants.PC
}

// LogMagnitude returns log10|v|, or NaN where v is zero or not finite, so
// asciigraph leaves a gap instead of stretching the axis.
func LogMagnitude(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		a := math.Abs(v)
		if a == 0 || math.IsInf(a, 0) || math.IsNaN(a) {
			out[i] = math.NaN()
			continue
		}
		out[i] = math.Log10(a)
	}
	return out
}

func hasData(vals []float64) bool {
	for _, v := range vals {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}

// PlotRates draws log10|da/dt| [pc/Myr] for the background and gas
// profiles against grid index (log-spaced separation).
func PlotRates(res *sweep.Result, width, height int) string {
	total := make([]float64, res.Len())
	gas := make([]float64, res.Len())
	for i := 0; i < res.Len(); i++ {
		total[i] = PcPerMyr(res.DadtTotal[i])
		gas[i] = PcPerMyr(res.DadtGas[i])
	}

	series := [][]float64{}
	colors := []asciigraph.AnsiColor{}
	if t := LogMagnitude(total); hasData(t) {
		series = append(series, t)
		colors = append(colors, asciigraph.Cyan)
	}
	if g := LogMagnitude(gas); hasData(g) {
		series = append(series, g)
		colors = append(colors, asciigraph.Yellow)
	}
	if len(series) == 0 {
		return "no finite rates to plot"
	}

	caption := "log10 |da/dt| [pc/Myr]: background (cyan), gas (yellow)"
	if res.Len() > 0 {
		caption += fmt.Sprintf(", r = %.3g to %.3g pc",
			res.Rads[0]/constants.PC, res.Rads[res.Len()-1]/constants.PC)
	}

	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(caption),
	)
}

// WriteTable prints the sweep as a column-aligned table in pc, pc/Myr and Myr.
func WriteTable(w io.Writer, res *sweep.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "R [pc]\tDADT_TOTAL [pc/Myr]\tDADT_GAS [pc/Myr]\tTAU_TOTAL [Myr]\tTAU_GAS [Myr]")
	for i := 0; i < res.Len(); i++ {
		fmt.Fprintf(tw, "%.4e\t%.4e\t%.4e\t%.4e\t%.4e\n",
			res.Rads[i]/constants.PC,
			PcPerMyr(res.DadtTotal[i]),
			PcPerMyr(res.DadtGas[i]),
			res.TauTotal[i]/Myr,
			res.TauGas[i]/Myr,
		)
	}
	return tw.Flush()
}
