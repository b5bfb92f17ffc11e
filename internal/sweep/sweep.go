// Package sweep evaluates the dynamical friction calculator across a grid of
// binary separations.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/san-kum/dynfric/internal/dynfric"
	"github.com/san-kum/dynfric/internal/logging"
	"go.uber.org/zap"
)

const minChunk = 16

var ErrEmptyGrid = errors.New("sweep: empty separation grid")

// Result is the hardening rate profile over a separation grid, in cgs units.
type Result struct {
	Rads      []float64
	DadtTotal []float64
	DadtGas   []float64
	TauTotal  []float64
	TauGas    []float64
}

func (r *Result) Len() int { return len(r.Rads) }

// broadcast returns a copy of v with length n. v has length 1 or n.
func broadcast(v []float64, n int) []float64 {
	out := make([]float64, n)
	if len(v) == 1 {
		for i := range out {
			out[i] = v[0]
		}
		return out
	}
	copy(out, v)
	return out
}

// LogSpace returns n points spaced evenly in log10 between lo and hi inclusive.
func LogSpace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	llo, lhi := math.Log10(lo), math.Log10(hi)
	step := (lhi - llo) / float64(n-1)
	pts := make([]float64, n)
	for i := range pts {
		pts[i] = math.Pow(10, llo+float64(i)*step)
	}
	pts[n-1] = hi
	return pts
}

// Runner evaluates the calculator over separation grids.
type Runner struct {
	calc    *dynfric.Calculator
	workers int
	log     *zap.Logger
}

func NewRunner(calc *dynfric.Calculator, workers int, log *zap.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{calc: calc, workers: workers, log: logging.OrNop(log)}
}

// Run replaces the separation of base with each value of rads and evaluates
// the rates. The fields of base and rads must be scalars or share a common
// length; a scalar rads is repeated so every output has one separation. The
// output is identical to a single serial evaluation.
func (r *Runner) Run(ctx context.Context, base dynfric.Inputs, rads []float64) (*Result, error) {
	if len(rads) == 0 {
		return nil, ErrEmptyGrid
	}
	in := base
	in.Rads = rads
	n, err := in.Len()
	if err != nil {
		return nil, err
	}

	res := &Result{
		Rads:      broadcast(rads, n),
		DadtTotal: make([]float64, n),
		DadtGas:   make([]float64, n),
		TauTotal:  make([]float64, n),
		TauGas:    make([]float64, n),
	}

	var (
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	ParallelFor(n, minChunk, r.workers, func(start, end int) {
		if err := ctx.Err(); err != nil {
			fail(err)
			return
		}
		part := in.Slice(start, end)
		rates, err := r.calc.Harden(part)
		if err != nil {
			fail(err)
			return
		}
		tauTotal, tauGas, err := r.calc.Timescales(part)
		if err != nil {
			fail(err)
			return
		}
		copy(res.DadtTotal[start:end], rates.DadtTotal)
		copy(res.DadtGas[start:end], rates.DadtGas)
		copy(res.TauTotal[start:end], tauTotal)
		copy(res.TauGas[start:end], tauGas)
	})

	if firstErr != nil {
		return nil, fmt.Errorf("sweep failed: %w", firstErr)
	}

	r.log.Debug("sweep complete",
		zap.Int("points", n),
		zap.Int("workers", r.workers),
		zap.Stringer("which_bh", r.calc.Config().WhichBH),
		zap.Float64("rmin", rads[0]),
		zap.Float64("rmax", rads[len(rads)-1]),
	)
	return res, nil
}
