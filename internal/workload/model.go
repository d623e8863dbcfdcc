// internal/workload/model.go
package workload

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/mwiater/gemmbench/internal/shapes"
)

// Supported high-precision dtypes and devices for the host backend.
const (
	DtypeFloat32  = "float32"
	DtypeBFloat16 = "bfloat16"

	DeviceCPU = "cpu"
)

// Spec carries everything a builder needs to construct a model instance.
// Seed drives the deterministic weight and input contents.
type Spec struct {
	ModelType string
	Shape     shapes.Shape
	Dtype     string
	Device    string
	Seed      int64
}

// Model is one benchmarkable unit: deterministic input, a weight matrix, and
// the kernel currently bound to it. Recipes and compilation swap the kernel;
// the surrounding passes and buffers stay fixed.
type Model struct {
	modelType string
	shape     shapes.Shape
	dtype     string
	device    string

	weight   *Matrix
	kernel   Kernel
	input    *Matrix
	normed   *Matrix
	out      *Matrix
	prologue bool
	epilogue bool
	closed   bool
}

type builderFunc func(spec Spec) *Model

var builders = map[string]builderFunc{
	"linear":               buildLinear,
	"ln_linear_activation": buildLNLinearActivation,
}

// ModelTypes lists the registered model type names in sorted order.
func ModelTypes() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the model a job describes. Unknown model types, unknown
// dtypes, and devices without a host backend are rejected here so the caller
// can surface them per job.
func Build(spec Spec) (*Model, error) {
	builder, ok := builders[spec.ModelType]
	if !ok {
		return nil, fmt.Errorf("unknown model_type %q", spec.ModelType)
	}
	if spec.Device != DeviceCPU {
		return nil, fmt.Errorf("no execution backend for device %q", spec.Device)
	}
	switch spec.Dtype {
	case DtypeFloat32, DtypeBFloat16:
	default:
		return nil, fmt.Errorf("unknown high_precision_dtype %q", spec.Dtype)
	}

	m := builder(spec)
	if spec.Dtype == DtypeBFloat16 {
		m.weight.TruncateBFloat16()
		m.input.TruncateBFloat16()
	}
	m.kernel = NewDenseKernel(m.weight)
	return m, nil
}

func buildLinear(spec Spec) *Model {
	return newModel(spec, false, false)
}

func buildLNLinearActivation(spec Spec) *Model {
	return newModel(spec, true, true)
}

func newModel(spec Spec, prologue, epilogue bool) *Model {
	m := &Model{
		modelType: spec.ModelType,
		shape:     spec.Shape,
		dtype:     spec.Dtype,
		device:    spec.Device,
		weight:    NewMatrix(spec.Shape.K(), spec.Shape.N()),
		input:     NewMatrix(spec.Shape.M(), spec.Shape.K()),
		out:       NewMatrix(spec.Shape.M(), spec.Shape.N()),
		prologue:  prologue,
		epilogue:  epilogue,
	}
	m.weight.FillRandom(spec.Seed)
	m.input.FillRandom(spec.Seed + 1)
	if prologue {
		m.normed = NewMatrix(spec.Shape.M(), spec.Shape.K())
	}
	return m
}

// Forward runs one full pass and leaves the result in Output. It returns
// early when ctx is already done so timed loops stop between passes.
func (m *Model) Forward(ctx context.Context) error {
	if m.closed {
		return errors.New("model is closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	src := m.input
	if m.prologue {
		layerNorm(m.input, m.normed)
		src = m.normed
	}
	m.kernel.Forward(src, m.out)
	if m.epilogue {
		geluInPlace(m.out)
	}
	return nil
}

// Close releases the model buffers. Forward fails after Close.
func (m *Model) Close() error {
	m.closed = true
	m.weight = nil
	m.kernel = nil
	m.input = nil
	m.normed = nil
	m.out = nil
	return nil
}

// Weights exposes the dense weights for recipes to transform.
func (m *Model) Weights() *Matrix { return m.weight }

// Output exposes the buffer the last Forward wrote.
func (m *Model) Output() *Matrix { return m.out }

// SetKernel binds a transformed kernel, replacing the current one.
func (m *Model) SetKernel(k Kernel) { m.kernel = k }

// Kernel returns the currently bound kernel.
func (m *Model) Kernel() Kernel { return m.kernel }

// Device reports the device tag the model was built for.
func (m *Model) Device() string { return m.device }

// Dtype reports the high-precision dtype the model was built with.
func (m *Model) Dtype() string { return m.dtype }

// Shape reports the (m, k, n) problem size.
func (m *Model) Shape() shapes.Shape { return m.shape }
