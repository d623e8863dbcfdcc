// internal/recipes/recipes.go
// Package recipes defines the quantization and sparsity transformations a
// benchmark suite can request by name. The registry is fixed: configs pick
// from these names and anything else is rejected before jobs are built.
package recipes

import (
	"fmt"
	"sort"

	"github.com/mwiater/gemmbench/internal/workload"
)

// Kind separates the two recipe families a config lists independently.
type Kind string

const (
	KindQuantization Kind = "quantization"
	KindSparsity     Kind = "sparsity"
)

// Recipe transforms an already built model in place, swapping its dense
// kernel for the optimized representation the recipe names. Apply must leave
// the model untouched when it returns an error.
type Recipe interface {
	Name() string
	Kind() Kind
	Description() string
	Apply(m *workload.Model) error
}

type recipe struct {
	name        string
	kind        Kind
	description string
	apply       func(m *workload.Model) error
}

func (r recipe) Name() string { return r.name }

func (r recipe) Kind() Kind { return r.kind }

func (r recipe) Description() string { return r.description }

func (r recipe) Apply(m *workload.Model) error { return r.apply(m) }

var registry = []Recipe{
	recipe{name: "int8wo", kind: KindQuantization, description: "int8 weight-only quantization", apply: applyInt8(false)},
	recipe{name: "int8dq", kind: KindQuantization, description: "int8 weights with dynamic activation quantization", apply: applyInt8(true)},
	recipe{name: "int4wo-32", kind: KindQuantization, description: "int4 weight-only quantization, group size 32", apply: applyInt4(32)},
	recipe{name: "int4wo-64", kind: KindQuantization, description: "int4 weight-only quantization, group size 64", apply: applyInt4(64)},
	recipe{name: "int4wo-128", kind: KindQuantization, description: "int4 weight-only quantization, group size 128", apply: applyInt4(128)},
	recipe{name: "marlin", kind: KindQuantization, description: "int4 weight-only quantization, marlin layout (cuda only)", apply: applyMarlin},
	recipe{name: "semi-sparse", kind: KindSparsity, description: "2:4 semi-structured sparsity", apply: applySemiSparse},
	recipe{name: "block", kind: KindSparsity, description: "32x32 block sparsity", apply: applyBlockSparse},
}

func applyInt8(dynamicActivation bool) func(*workload.Model) error {
	return func(m *workload.Model) error {
		m.SetKernel(workload.QuantizeInt8(m.Weights(), dynamicActivation))
		return nil
	}
}

func applyInt4(groupSize int) func(*workload.Model) error {
	return func(m *workload.Model) error {
		k, err := workload.QuantizeInt4(m.Weights(), groupSize)
		if err != nil {
			return err
		}
		m.SetKernel(k)
		return nil
	}
}

// applyMarlin guards the CUDA-only layout. There is no host backend for it,
// so on every supported device this surfaces as a per-job recipe failure.
func applyMarlin(m *workload.Model) error {
	if m.Device() != "cuda" {
		return fmt.Errorf("marlin layout requires a cuda device, got %q", m.Device())
	}
	k, err := workload.QuantizeInt4(m.Weights(), 128)
	if err != nil {
		return err
	}
	m.SetKernel(k)
	return nil
}

func applySemiSparse(m *workload.Model) error {
	k, err := workload.SemiSparse(m.Weights())
	if err != nil {
		return err
	}
	m.SetKernel(k)
	return nil
}

func applyBlockSparse(m *workload.Model) error {
	k, err := workload.BlockSparse(m.Weights(), 32)
	if err != nil {
		return err
	}
	m.SetKernel(k)
	return nil
}

// Resolve looks a recipe up by name.
func Resolve(name string) (Recipe, error) {
	for _, r := range registry {
		if r.Name() == name {
			return r, nil
		}
	}
	return nil, fmt.Errorf("unknown recipe %q, known recipes: %v", name, Names(""))
}

// Names lists registered recipe names sorted alphabetically. An empty kind
// lists everything.
func Names(kind Kind) []string {
	var names []string
	for _, r := range registry {
		if kind != "" && r.Kind() != kind {
			continue
		}
		names = append(names, r.Name())
	}
	sort.Strings(names)
	return names
}

// All returns the registry in registration order.
func All() []Recipe {
	out := make([]Recipe, len(registry))
	copy(out, registry)
	return out
}
