// internal/workload/compile.go
package workload

import (
	"fmt"
	"time"
)

// Compile modes supported by the kernel specializer. They mirror the usual
// compiler presets: a balanced default, a low-dispatch variant, and a mode
// that probes tile sizes against the live weights before committing.
const (
	CompileDefault        = "default"
	CompileReduceOverhead = "reduce-overhead"
	CompileMaxAutotune    = "max-autotune"
)

// Compile returns a specialized variant of k for the given mode. Kernels
// without a specialized path run eager and are returned unchanged. An
// unrecognized mode is rejected before any kernel work happens.
func Compile(k Kernel, mode string) (Kernel, error) {
	switch mode {
	case "", CompileDefault, CompileReduceOverhead, CompileMaxAutotune:
	default:
		return nil, fmt.Errorf("unknown compile mode %q", mode)
	}
	if c, ok := k.(Compilable); ok {
		return c.Compile(mode)
	}
	return k, nil
}

// tiledKernel multiplies against pre-transposed weights in square tiles so
// both operands stream through cache-sized chunks.
type tiledKernel struct {
	weightT *Matrix // n×k, transposed at compile time
	tile    int
}

func (k *denseKernel) Compile(mode string) (Kernel, error) {
	wt := transpose(k.weight)
	switch mode {
	case "", CompileDefault:
		return &tiledKernel{weightT: wt, tile: 64}, nil
	case CompileReduceOverhead:
		return &tiledKernel{weightT: wt, tile: 128}, nil
	case CompileMaxAutotune:
		return &tiledKernel{weightT: wt, tile: autotuneTile(wt)}, nil
	}
	return nil, fmt.Errorf("unknown compile mode %q", mode)
}

func (k *tiledKernel) Forward(src, dst *Matrix) {
	m, kk, n := src.Rows, src.Cols, k.weightT.Rows
	for i := range dst.Data {
		dst.Data[i] = 0
	}
	for j0 := 0; j0 < n; j0 += k.tile {
		j1 := min(j0+k.tile, n)
		for p0 := 0; p0 < kk; p0 += k.tile {
			p1 := min(p0+k.tile, kk)
			for i := 0; i < m; i++ {
				row := src.Row(i)
				out := dst.Row(i)
				for j := j0; j < j1; j++ {
					wt := k.weightT.Row(j)
					var acc float32
					for p := p0; p < p1; p++ {
						acc += row[p] * wt[p]
					}
					out[j] += acc
				}
			}
		}
	}
}

// autotuneTile times candidate tile sizes against the real weights with a
// small probe batch and keeps the fastest.
func autotuneTile(weightT *Matrix) int {
	candidates := []int{32, 64, 128}
	probeRows := 4
	src := NewMatrix(probeRows, weightT.Cols)
	src.FillRandom(1)
	dst := NewMatrix(probeRows, weightT.Rows)

	best := candidates[0]
	bestElapsed := time.Duration(-1)
	for _, tile := range candidates {
		k := &tiledKernel{weightT: weightT, tile: tile}
		start := time.Now()
		k.Forward(src, dst)
		if elapsed := time.Since(start); bestElapsed < 0 || elapsed < bestElapsed {
			best, bestElapsed = tile, elapsed
		}
	}
	return best
}

func transpose(m *Matrix) *Matrix {
	out := NewMatrix(m.Cols, m.Rows)
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			out.Data[c*m.Rows+r] = m.Data[r*m.Cols+c]
		}
	}
	return out
}
