// internal/workload/sparse.go
package workload

import (
	"fmt"
	"sort"
)

// semiSparseKernel stores a 2:4 semi-structured pruning of the weights: in
// every four consecutive reduction values of a column, only the two largest
// by magnitude survive. The compact layout keeps the two values plus their
// in-group offsets, halving the multiplies per output element.
type semiSparseKernel struct {
	values  []float32 // (k/2)×n
	offsets []uint8   // (k/4)×n, two 2-bit in-group positions per byte
	k, n    int
}

// SemiSparse prunes dense weights to the 2:4 pattern. The reduction
// dimension must be divisible by four.
func SemiSparse(weight *Matrix) (Kernel, error) {
	k, n := weight.Rows, weight.Cols
	if k%4 != 0 {
		return nil, fmt.Errorf("2:4 sparsity requires the reduction dimension to be divisible by 4, got %d", k)
	}

	values := make([]float32, k/2*n)
	offsets := make([]uint8, k/4*n)
	idx := [4]int{0, 1, 2, 3}
	for j := 0; j < n; j++ {
		for g := 0; g < k/4; g++ {
			base := g * 4
			sel := idx
			sort.Slice(sel[:], func(a, b int) bool {
				va := abs32(weight.At(base+sel[a], j))
				vb := abs32(weight.At(base+sel[b], j))
				if va != vb {
					return va > vb
				}
				return sel[a] < sel[b]
			})
			first, second := sel[0], sel[1]
			if first > second {
				first, second = second, first
			}
			values[(g*2)*n+j] = weight.At(base+first, j)
			values[(g*2+1)*n+j] = weight.At(base+second, j)
			offsets[g*n+j] = uint8(first) | uint8(second)<<2
		}
	}
	return &semiSparseKernel{values: values, offsets: offsets, k: k, n: n}, nil
}

func (kr *semiSparseKernel) Forward(src, dst *Matrix) {
	groups := kr.k / 4
	for i := 0; i < src.Rows; i++ {
		row := src.Row(i)
		out := dst.Row(i)
		for j := range out {
			out[j] = 0
		}
		for g := 0; g < groups; g++ {
			base := g * 4
			offs := kr.offsets[g*kr.n : (g+1)*kr.n]
			v0 := kr.values[(g*2)*kr.n : (g*2)*kr.n+kr.n]
			v1 := kr.values[(g*2+1)*kr.n : (g*2+1)*kr.n+kr.n]
			for j, o := range offs {
				out[j] += row[base+int(o&0x3)]*v0[j] + row[base+int(o>>2)]*v1[j]
			}
		}
	}
}

// blockSparseKernel keeps only the weight blocks whose magnitude survived
// pruning, stored densely with their block coordinates.
type blockSparseKernel struct {
	blocks    []*Matrix // each blockSize×blockSize
	rowOff    []int
	colOff    []int
	blockSize int
	k, n      int
}

// BlockSparse prunes square weight blocks by L1 norm, dropping the weakest
// half. Both weight dimensions must be divisible by the block size.
func BlockSparse(weight *Matrix, blockSize int) (Kernel, error) {
	k, n := weight.Rows, weight.Cols
	if blockSize <= 0 {
		return nil, fmt.Errorf("block size must be positive, got %d", blockSize)
	}
	if k%blockSize != 0 || n%blockSize != 0 {
		return nil, fmt.Errorf("block size %d does not divide weight dimensions %dx%d", blockSize, k, n)
	}

	type candidate struct {
		rowOff, colOff int
		norm           float64
	}
	var cands []candidate
	for r := 0; r < k; r += blockSize {
		for c := 0; c < n; c += blockSize {
			var norm float64
			for br := 0; br < blockSize; br++ {
				for bc := 0; bc < blockSize; bc++ {
					norm += float64(abs32(weight.At(r+br, c+bc)))
				}
			}
			cands = append(cands, candidate{rowOff: r, colOff: c, norm: norm})
		}
	}
	sort.SliceStable(cands, func(a, b int) bool { return cands[a].norm > cands[b].norm })
	keep := (len(cands) + 1) / 2

	kr := &blockSparseKernel{blockSize: blockSize, k: k, n: n}
	for _, c := range cands[:keep] {
		block := NewMatrix(blockSize, blockSize)
		for br := 0; br < blockSize; br++ {
			for bc := 0; bc < blockSize; bc++ {
				block.Set(br, bc, weight.At(c.rowOff+br, c.colOff+bc))
			}
		}
		kr.blocks = append(kr.blocks, block)
		kr.rowOff = append(kr.rowOff, c.rowOff)
		kr.colOff = append(kr.colOff, c.colOff)
	}
	return kr, nil
}

func (kr *blockSparseKernel) Forward(src, dst *Matrix) {
	for i := range dst.Data {
		dst.Data[i] = 0
	}
	for b, block := range kr.blocks {
		rowOff, colOff := kr.rowOff[b], kr.colOff[b]
		for i := 0; i < src.Rows; i++ {
			row := src.Row(i)
			out := dst.Row(i)
			for br := 0; br < kr.blockSize; br++ {
				a := row[rowOff+br]
				if a == 0 {
					continue
				}
				wrow := block.Row(br)
				for bc, w := range wrow {
					out[colOff+bc] += a * w
				}
			}
		}
	}
}
