// internal/workload/tensor.go
// Package workload provides the numeric capabilities the execution engine
// drives: model construction, quantization and sparsity transforms, kernel
// specialization, and forward execution on the host.
package workload

import (
	"math"
	"math/rand"
)

// Matrix is a dense row-major float32 matrix.
type Matrix struct {
	Rows, Cols int
	Data       []float32
}

// NewMatrix allocates a zeroed rows×cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float32, rows*cols)}
}

// At returns the element at (r, c).
func (m *Matrix) At(r, c int) float32 { return m.Data[r*m.Cols+c] }

// Set stores v at (r, c).
func (m *Matrix) Set(r, c int, v float32) { m.Data[r*m.Cols+c] = v }

// Row returns the backing slice for one row.
func (m *Matrix) Row(r int) []float32 { return m.Data[r*m.Cols : (r+1)*m.Cols] }

// FillRandom fills the matrix with deterministic values in [-1, 1). The same
// seed always produces the same contents, which keeps benchmark inputs and
// accuracy comparisons reproducible.
func (m *Matrix) FillRandom(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range m.Data {
		m.Data[i] = float32(rng.Float64()*2 - 1)
	}
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	out := NewMatrix(m.Rows, m.Cols)
	copy(out.Data, m.Data)
	return out
}

// TruncateBFloat16 rounds every element to bfloat16 precision while keeping
// float32 storage: the low 16 mantissa bits are dropped, which is the
// round-toward-zero bfloat16 conversion.
func (m *Matrix) TruncateBFloat16() {
	for i, v := range m.Data {
		m.Data[i] = math.Float32frombits(math.Float32bits(v) &^ 0xFFFF)
	}
}

// MeanAbsDiff returns the mean absolute element difference between two
// matrices of identical shape.
func MeanAbsDiff(a, b *Matrix) float64 {
	if len(a.Data) == 0 || len(a.Data) != len(b.Data) {
		return math.NaN()
	}
	var sum float64
	for i := range a.Data {
		sum += math.Abs(float64(a.Data[i]) - float64(b.Data[i]))
	}
	return sum / float64(len(a.Data))
}

// Kernel executes one forward pass against a prepared weight representation,
// computing dst = src · W.
type Kernel interface {
	Forward(src, dst *Matrix)
}

// Compilable kernels can produce an ahead-of-time specialized variant for a
// named compile mode.
type Compilable interface {
	Compile(mode string) (Kernel, error)
}

// denseKernel is the eager baseline: row-major ikj multiplication.
type denseKernel struct {
	weight *Matrix // k×n
}

// NewDenseKernel wraps dense row-major weights in the eager kernel.
func NewDenseKernel(weight *Matrix) Kernel {
	return &denseKernel{weight: weight}
}

func (k *denseKernel) Forward(src, dst *Matrix) {
	n := k.weight.Cols
	for i := 0; i < src.Rows; i++ {
		row := src.Row(i)
		out := dst.Row(i)
		for j := range out {
			out[j] = 0
		}
		for p, a := range row {
			wrow := k.weight.Data[p*n : (p+1)*n]
			for j, w := range wrow {
				out[j] += a * w
			}
		}
	}
}

// layerNorm normalizes each row of src to zero mean, unit variance.
func layerNorm(src, dst *Matrix) {
	const eps = 1e-5
	for i := 0; i < src.Rows; i++ {
		row := src.Row(i)
		out := dst.Row(i)

		var mean float64
		for _, v := range row {
			mean += float64(v)
		}
		mean /= float64(len(row))

		var variance float64
		for _, v := range row {
			d := float64(v) - mean
			variance += d * d
		}
		variance /= float64(len(row))

		inv := 1 / math.Sqrt(variance+eps)
		for j, v := range row {
			out[j] = float32((float64(v) - mean) * inv)
		}
	}
}

// geluInPlace applies the tanh-approximated GELU activation element-wise.
func geluInPlace(m *Matrix) {
	const c = 0.7978845608028654 // sqrt(2/pi)
	for i, v := range m.Data {
		x := float64(v)
		m.Data[i] = float32(0.5 * x * (1 + math.Tanh(c*(x+0.044715*x*x*x))))
	}
}
