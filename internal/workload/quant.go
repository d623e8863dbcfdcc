// internal/workload/quant.go
package workload

import (
	"fmt"
	"math"
)

// int8Kernel holds weights quantized to int8 with one scale per output
// column. With dynamicActivation set, input rows are quantized on the fly so
// the inner loop accumulates in int32.
type int8Kernel struct {
	q                 []int8    // k×n row-major
	scales            []float32 // per column
	k, n              int
	dynamicActivation bool
}

// QuantizeInt8 converts dense weights to a symmetric per-column int8
// representation. dynamicActivation selects activation quantization at
// forward time in addition to the static weight quantization.
func QuantizeInt8(weight *Matrix, dynamicActivation bool) Kernel {
	k, n := weight.Rows, weight.Cols
	scales := make([]float32, n)
	for j := 0; j < n; j++ {
		var maxAbs float32
		for p := 0; p < k; p++ {
			if a := abs32(weight.At(p, j)); a > maxAbs {
				maxAbs = a
			}
		}
		scales[j] = maxAbs / 127
		if scales[j] == 0 {
			scales[j] = 1
		}
	}
	q := make([]int8, k*n)
	for p := 0; p < k; p++ {
		for j := 0; j < n; j++ {
			q[p*n+j] = roundToInt8(weight.At(p, j) / scales[j])
		}
	}
	return &int8Kernel{q: q, scales: scales, k: k, n: n, dynamicActivation: dynamicActivation}
}

func (kr *int8Kernel) Forward(src, dst *Matrix) {
	if kr.dynamicActivation {
		kr.forwardDynamic(src, dst)
		return
	}
	for i := 0; i < src.Rows; i++ {
		row := src.Row(i)
		out := dst.Row(i)
		for j := range out {
			out[j] = 0
		}
		for p, a := range row {
			qrow := kr.q[p*kr.n : (p+1)*kr.n]
			for j, w := range qrow {
				out[j] += a * float32(w)
			}
		}
		for j := range out {
			out[j] *= kr.scales[j]
		}
	}
}

func (kr *int8Kernel) forwardDynamic(src, dst *Matrix) {
	aq := make([]int8, kr.k)
	acc := make([]int32, kr.n)
	for i := 0; i < src.Rows; i++ {
		row := src.Row(i)
		var maxAbs float32
		for _, v := range row {
			if a := abs32(v); a > maxAbs {
				maxAbs = a
			}
		}
		aScale := maxAbs / 127
		if aScale == 0 {
			aScale = 1
		}
		for p, v := range row {
			aq[p] = roundToInt8(v / aScale)
		}
		for j := range acc {
			acc[j] = 0
		}
		for p := 0; p < kr.k; p++ {
			a := int32(aq[p])
			if a == 0 {
				continue
			}
			qrow := kr.q[p*kr.n : (p+1)*kr.n]
			for j, w := range qrow {
				acc[j] += a * int32(w)
			}
		}
		out := dst.Row(i)
		for j, v := range acc {
			out[j] = float32(v) * aScale * kr.scales[j]
		}
	}
}

// int4Kernel stores weights as packed nibbles with one scale per
// (group, column) pair, where groups run along the reduction dimension.
type int4Kernel struct {
	packed    []uint8   // (k/2)×n, even row in low nibble, odd in high
	scales    []float32 // (k/group)×n
	k, n      int
	groupSize int
}

// QuantizeInt4 converts dense weights to a grouped symmetric int4
// representation. The reduction dimension must be even and divisible by the
// group size.
func QuantizeInt4(weight *Matrix, groupSize int) (Kernel, error) {
	k, n := weight.Rows, weight.Cols
	if groupSize <= 0 {
		return nil, fmt.Errorf("int4 group size must be positive, got %d", groupSize)
	}
	if k%groupSize != 0 {
		return nil, fmt.Errorf("int4 group size %d does not divide reduction dimension %d", groupSize, k)
	}
	if k%2 != 0 {
		return nil, fmt.Errorf("int4 packing requires an even reduction dimension, got %d", k)
	}

	groups := k / groupSize
	scales := make([]float32, groups*n)
	for g := 0; g < groups; g++ {
		for j := 0; j < n; j++ {
			var maxAbs float32
			for p := g * groupSize; p < (g+1)*groupSize; p++ {
				if a := abs32(weight.At(p, j)); a > maxAbs {
					maxAbs = a
				}
			}
			s := maxAbs / 7
			if s == 0 {
				s = 1
			}
			scales[g*n+j] = s
		}
	}

	packed := make([]uint8, k/2*n)
	for p := 0; p < k; p += 2 {
		for j := 0; j < n; j++ {
			lo := quantizeNibble(weight.At(p, j), scales[p/groupSize*n+j])
			hi := quantizeNibble(weight.At(p+1, j), scales[(p+1)/groupSize*n+j])
			packed[p/2*n+j] = lo | hi<<4
		}
	}
	return &int4Kernel{packed: packed, scales: scales, k: k, n: n, groupSize: groupSize}, nil
}

func (kr *int4Kernel) Forward(src, dst *Matrix) {
	for i := 0; i < src.Rows; i++ {
		row := src.Row(i)
		out := dst.Row(i)
		for j := range out {
			out[j] = 0
		}
		for p := 0; p < kr.k; p += 2 {
			aLo := row[p]
			aHi := row[p+1]
			sLo := kr.scales[p/kr.groupSize*kr.n:]
			sHi := kr.scales[(p+1)/kr.groupSize*kr.n:]
			prow := kr.packed[p/2*kr.n : p/2*kr.n+kr.n]
			for j, b := range prow {
				out[j] += aLo * float32(int8(b&0x0F)-8) * sLo[j]
				out[j] += aHi * float32(int8(b>>4)-8) * sHi[j]
			}
		}
	}
}

func quantizeNibble(v, scale float32) uint8 {
	q := int(math.Round(float64(v / scale)))
	if q > 7 {
		q = 7
	}
	if q < -7 {
		q = -7
	}
	return uint8(q + 8)
}

func roundToInt8(v float32) int8 {
	q := int(math.Round(float64(v)))
	if q > 127 {
		q = 127
	}
	if q < -127 {
		q = -127
	}
	return int8(q)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
