// internal/suite/config.go
// Package suite loads and validates the declarative benchmark suite
// configuration that drives the job matrix.
package suite

import (
	"strings"
	"time"

	"github.com/mwiater/gemmbench/internal/shapes"
)

const (
	// ModeInference is the only benchmark mode the engine executes.
	ModeInference = "inference"
	// ModeTraining parses but is rejected before any job runs.
	ModeTraining = "training"

	// defaultWarmupIterations is the discarded forward-pass count per job.
	defaultWarmupIterations = 5
	// defaultMeasurementIterations is the timed forward-pass count per job.
	defaultMeasurementIterations = 20
	// defaultJobTimeout bounds one job's warmup plus measurement phases.
	defaultJobTimeout = 120 * time.Second
	// defaultOutputDir receives report files when output_dir is omitted.
	defaultOutputDir = "gemmbenchData/results"
	// defaultDtype is the baseline precision when high_precision_dtype is omitted.
	defaultDtype = "float32"
	// defaultDevice is the execution device when device is omitted.
	defaultDevice = "cpu"
)

// Config is the top-level benchmark suite configuration.
type Config struct {
	Name                    string        `yaml:"name" json:"name,omitempty"`
	BenchmarkMode           string        `yaml:"benchmark_mode" json:"benchmark_mode"`
	QuantizationRecipeNames []string      `yaml:"quantization_config_recipe_names" json:"quantization_config_recipe_names,omitempty"`
	SparsityRecipeNames     []string      `yaml:"sparsity_config_recipe_names" json:"sparsity_config_recipe_names,omitempty"`
	OutputDir               string        `yaml:"output_dir" json:"output_dir,omitempty"`
	WarmupIterations        *int          `yaml:"warmup_iterations" json:"warmup_iterations,omitempty"`
	MeasurementIterations   int           `yaml:"measurement_iterations" json:"measurement_iterations,omitempty"`
	JobTimeoutSeconds       int           `yaml:"job_timeout_seconds" json:"job_timeout_seconds,omitempty"`
	MaxWorkers              int           `yaml:"max_workers" json:"max_workers,omitempty"`
	CompareAccuracy         bool          `yaml:"compare_accuracy" json:"compare_accuracy,omitempty"`
	ModelParams             []ModelParams `yaml:"model_params" json:"model_params"`
	ConfigPath              string        `yaml:"-" json:"-"`
}

// ModelParams declares one experiment family: a model archetype crossed with
// a set of shape groups under one precision/compile/device selection.
type ModelParams struct {
	Name               string       `yaml:"name" json:"name"`
	MatrixShapes       []ShapeGroup `yaml:"matrix_shapes" json:"matrix_shapes"`
	HighPrecisionDtype string       `yaml:"high_precision_dtype" json:"high_precision_dtype,omitempty"`
	UseTorchCompile    bool         `yaml:"use_torch_compile" json:"use_torch_compile,omitempty"`
	TorchCompileMode   string       `yaml:"torch_compile_mode" json:"torch_compile_mode,omitempty"`
	Device             string       `yaml:"device" json:"device,omitempty"`
	ModelType          string       `yaml:"model_type" json:"model_type"`
}

// ShapeGroup is the raw shape-group declaration. Shapes stays a generic int
// matrix here so validation can name the exact malformed tuple instead of
// surfacing a decoder error.
type ShapeGroup struct {
	Name   string  `yaml:"name" json:"name"`
	Shapes [][]int `yaml:"shapes" json:"shapes,omitempty"`
}

// Group converts the declaration into the expander's representation. Only
// valid after Validate has accepted the configuration.
func (g ShapeGroup) Group() shapes.Group {
	out := shapes.Group{Name: g.Name, Shapes: make([]shapes.Shape, 0, len(g.Shapes))}
	for _, tuple := range g.Shapes {
		if len(tuple) == 3 {
			out.Shapes = append(out.Shapes, shapes.Shape{tuple[0], tuple[1], tuple[2]})
		}
	}
	return out
}

// Warmup returns the warmup iteration count, applying the default when the
// key is absent. An explicit zero disables warmup.
func (c Config) Warmup() int {
	if c.WarmupIterations == nil || *c.WarmupIterations < 0 {
		return defaultWarmupIterations
	}
	return *c.WarmupIterations
}

// Measurements returns the timed iteration count, falling back to the
// default when unset.
func (c Config) Measurements() int {
	if c.MeasurementIterations <= 0 {
		return defaultMeasurementIterations
	}
	return c.MeasurementIterations
}

// JobTimeout returns the per-job wall-clock budget.
func (c Config) JobTimeout() time.Duration {
	if c.JobTimeoutSeconds <= 0 {
		return defaultJobTimeout
	}
	return time.Duration(c.JobTimeoutSeconds) * time.Second
}

// Workers returns the worker-pool size. The default of one keeps runs
// sequential, the timing-faithful mode on a single device.
func (c Config) Workers() int {
	if c.MaxWorkers <= 0 {
		return 1
	}
	return c.MaxWorkers
}

// ResultsDir returns the report destination, applying the default when
// output_dir is omitted.
func (c Config) ResultsDir() string {
	if strings.TrimSpace(c.OutputDir) != "" {
		return c.OutputDir
	}
	return defaultOutputDir
}

// SuiteName returns the suite label used for report file stems and the run
// history.
func (c Config) SuiteName() string {
	if strings.TrimSpace(c.Name) != "" {
		return c.Name
	}
	return "benchmark"
}

// Dtype returns the block's precision tag, defaulted.
func (p ModelParams) Dtype() string {
	if strings.TrimSpace(p.HighPrecisionDtype) != "" {
		return p.HighPrecisionDtype
	}
	return defaultDtype
}

// DeviceTag returns the block's execution device, defaulted.
func (p ModelParams) DeviceTag() string {
	if strings.TrimSpace(p.Device) != "" {
		return p.Device
	}
	return defaultDevice
}

// CompileMode returns the compile mode when compilation is enabled; the
// empty string selects the backend's default mode. The mode is ignored, not
// rejected, when use_torch_compile is false.
func (p ModelParams) CompileMode() string {
	if !p.UseTorchCompile {
		return ""
	}
	return strings.TrimSpace(p.TorchCompileMode)
}
