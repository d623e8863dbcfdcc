// internal/shapes/shapes.go
// Package shapes expands named shape-group declarations into ordered
// sequences of concrete (m, k, n) matrix dimensions.
package shapes

import "fmt"

// Shape is one (m, k, n) triple: an m×k input multiplied against a k×n weight.
type Shape [3]int

// M returns the row count of the input matrix.
func (s Shape) M() int { return s[0] }

// K returns the shared inner dimension.
func (s Shape) K() int { return s[1] }

// N returns the column count of the weight matrix.
func (s Shape) N() int { return s[2] }

// Valid reports whether every dimension is strictly positive.
func (s Shape) Valid() bool { return s[0] > 0 && s[1] > 0 && s[2] > 0 }

func (s Shape) String() string { return fmt.Sprintf("%dx%dx%d", s[0], s[1], s[2]) }

// Group is one shape-group declaration from a suite configuration. Name
// selects the expansion kind; Shapes is only consulted by the custom kind.
type Group struct {
	Name   string
	Shapes []Shape
}

// pow2Sides are the square sides generated by the pow2 kind.
var pow2Sides = []int{256, 512, 1024, 2048, 4096}

// pow2ExtendedSides interleave the midpoints between successive pow2 sides.
var pow2ExtendedSides = []int{256, 384, 512, 768, 1024, 1536, 2048, 3072, 4096}

// llamaShapes are the projection GEMMs of a 7B-class decoder layer at a fixed
// batch*seq of 16: fused qkv, attention out, gate/up, down.
var llamaShapes = []Shape{
	{16, 4096, 12288},
	{16, 4096, 4096},
	{16, 4096, 11008},
	{16, 11008, 4096},
}

// sweepSides is the per-dimension lattice crossed by the sweep kind.
var sweepSides = []int{256, 1024, 4096}

// Expand converts a shape group into its ordered sequence of concrete shapes.
// Expansion is deterministic: the same group always yields the same sequence,
// and declared order is preserved for the custom kind.
func Expand(group Group) ([]Shape, error) {
	switch group.Name {
	case "custom":
		if len(group.Shapes) == 0 {
			return nil, fmt.Errorf("shape group %q declares no shapes", group.Name)
		}
		out := make([]Shape, len(group.Shapes))
		copy(out, group.Shapes)
		return out, nil
	case "pow2":
		return squares(pow2Sides), nil
	case "pow2_extended":
		return squares(pow2ExtendedSides), nil
	case "llama":
		out := make([]Shape, len(llamaShapes))
		copy(out, llamaShapes)
		return out, nil
	case "sweep":
		out := make([]Shape, 0, len(sweepSides)*len(sweepSides)*len(sweepSides))
		for _, m := range sweepSides {
			for _, k := range sweepSides {
				for _, n := range sweepSides {
					out = append(out, Shape{m, k, n})
				}
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown shape group kind %q", group.Name)
	}
}

// Kinds lists the recognized shape-group kinds.
func Kinds() []string {
	return []string{"custom", "pow2", "pow2_extended", "llama", "sweep"}
}

func squares(sides []int) []Shape {
	out := make([]Shape, len(sides))
	for i, side := range sides {
		out[i] = Shape{side, side, side}
	}
	return out
}
