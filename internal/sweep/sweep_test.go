package sweep

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/san-kum/dynfric/internal/constants"
	"github.com/san-kum/dynfric/internal/dynfric"
)

func baseInputs() dynfric.Inputs {
	return dynfric.Scalar(1e9*constants.MSOL, 1e7*constants.MSOL, constants.PC,
		1e-20, 1e-20, 1e-20, 2e7, 0.1*constants.PC, 1e6*constants.MSOL, 0)
}

func TestLogSpace(t *testing.T) {
	pts := LogSpace(1e-3, 1e3, 7)
	if len(pts) != 7 {
		t.Fatalf("expected 7 points, got %d", len(pts))
	}
	for i, p := range pts {
		expected := math.Pow(10, float64(i-3))
		if math.Abs(p-expected)/expected > 1e-12 {
			t.Errorf("point %d: expected %g, got %g", i, expected, p)
		}
	}
	if LogSpace(1, 10, 0) != nil {
		t.Error("expected nil for zero points")
	}
	if pts := LogSpace(5, 10, 1); len(pts) != 1 || pts[0] != 5 {
		t.Errorf("expected single point at lo, got %v", pts)
	}
}

func TestParallelForCoversRange(t *testing.T) {
	for _, tc := range []struct{ n, workers int }{{0, 4}, {10, 4}, {100, 4}, {101, 3}, {1000, 8}, {50, 1}} {
		seen := make([]int32, tc.n)
		ParallelFor(tc.n, 16, tc.workers, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Errorf("n=%d workers=%d: index %d visited %d times", tc.n, tc.workers, i, c)
			}
		}
	}
}

func TestRunMatchesSerial(t *testing.T) {
	calc, err := dynfric.New(dynfric.DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	grid := LogSpace(1e-4*constants.PC, 1e3*constants.PC, 200)

	res, err := NewRunner(calc, 4, nil).Run(context.Background(), baseInputs(), grid)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Len() != len(grid) {
		t.Fatalf("expected %d points, got %d", len(grid), res.Len())
	}

	in := baseInputs()
	in.Rads = grid
	serial, err := calc.Harden(in)
	if err != nil {
		t.Fatalf("harden failed: %v", err)
	}
	for i := range grid {
		if math.Float64bits(res.DadtTotal[i]) != math.Float64bits(serial.DadtTotal[i]) {
			t.Errorf("point %d: total differs", i)
		}
		if math.Float64bits(res.DadtGas[i]) != math.Float64bits(serial.DadtGas[i]) {
			t.Errorf("point %d: gas differs", i)
		}
		if res.TauTotal[i] <= 0 {
			t.Errorf("point %d: expected positive timescale, got %g", i, res.TauTotal[i])
		}
	}
}

func TestRunCanceled(t *testing.T) {
	calc, err := dynfric.New(dynfric.DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewRunner(calc, 2, nil).Run(ctx, baseInputs(), LogSpace(1, 10, 64))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	calc, err := dynfric.New(dynfric.DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	r := NewRunner(calc, 2, nil)

	if _, err := r.Run(context.Background(), baseInputs(), nil); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("expected ErrEmptyGrid, got %v", err)
	}

	in := baseInputs()
	in.DensGas = []float64{1, 2}
	if _, err := r.Run(context.Background(), in, LogSpace(1, 10, 5)); !errors.Is(err, dynfric.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestRunScalarGridBroadcasts(t *testing.T) {
	calc, err := dynfric.New(dynfric.DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	base := baseInputs()
	base.M2 = []float64{1e6 * constants.MSOL, 1e7 * constants.MSOL, 1e8 * constants.MSOL}

	res, err := NewRunner(calc, 2, nil).Run(context.Background(), base, []float64{constants.PC})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", res.Len())
	}
	for i := 0; i < res.Len(); i++ {
		if res.Rads[i] != constants.PC {
			t.Errorf("row %d: expected separation %g, got %g", i, constants.PC, res.Rads[i])
		}
	}
	for _, col := range [][]float64{res.DadtTotal, res.DadtGas, res.TauTotal, res.TauGas} {
		if len(col) != res.Len() {
			t.Errorf("expected column length %d, got %d", res.Len(), len(col))
		}
	}
}
