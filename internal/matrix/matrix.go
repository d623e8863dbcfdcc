// internal/matrix/matrix.go
// Package matrix expands a validated suite configuration into the flat,
// ordered list of benchmark jobs the execution engine runs.
package matrix

import (
	"fmt"

	"github.com/mwiater/gemmbench/internal/recipes"
	"github.com/mwiater/gemmbench/internal/shapes"
	"github.com/mwiater/gemmbench/internal/suite"
)

// Variant kinds. Baseline rows run the untransformed model and anchor the
// speedup ratios of every recipe row sharing their coordinates.
const (
	VariantBaseline     = "baseline"
	VariantQuantization = string(recipes.KindQuantization)
	VariantSparsity     = string(recipes.KindSparsity)
)

// Variant identifies which transformation a job benchmarks.
type Variant struct {
	Kind   string `json:"kind"`
	Recipe string `json:"recipe,omitempty"`
}

// IsBaseline reports whether the job runs without any transformation.
func (v Variant) IsBaseline() bool { return v.Kind == VariantBaseline }

// Label returns the row label reports use for this variant.
func (v Variant) Label() string {
	if v.IsBaseline() {
		return VariantBaseline
	}
	return v.Recipe
}

// Job is one fully specified benchmark unit: a model coordinate plus the
// variant to measure. Seq preserves matrix order regardless of how the
// engine schedules execution.
type Job struct {
	Seq         int          `json:"seq"`
	ParamName   string       `json:"param"`
	GroupName   string       `json:"group"`
	Shape       shapes.Shape `json:"shape"`
	Variant     Variant      `json:"variant"`
	Dtype       string       `json:"dtype"`
	Device      string       `json:"device"`
	ModelType   string       `json:"modelType"`
	Compile     bool         `json:"compile"`
	CompileMode string       `json:"compileMode,omitempty"`
}

// ID renders the unique human-readable job coordinate.
func (j Job) ID() string {
	return fmt.Sprintf("%s/%s/%s/%s", j.ParamName, j.GroupName, j.Shape, j.Variant.Label())
}

// BaselineKey identifies the baseline row this job is compared against.
// Param names are unique per config, so param, group, and shape pin it down.
func (j Job) BaselineKey() string {
	return fmt.Sprintf("%s/%s/%s", j.ParamName, j.GroupName, j.Shape)
}

// Build expands cfg into execution order: one baseline job per (param block,
// group, shape) coordinate, followed by one job per quantization recipe and
// one per sparsity recipe, in the order the config lists them. Recipe names
// and shape groups are resolved eagerly so a bad config fails before any job
// runs.
func Build(cfg *suite.Config) ([]Job, error) {
	quant, err := resolveRecipes(cfg.QuantizationRecipeNames, recipes.KindQuantization, "quantization_config_recipe_names")
	if err != nil {
		return nil, err
	}
	sparse, err := resolveRecipes(cfg.SparsityRecipeNames, recipes.KindSparsity, "sparsity_config_recipe_names")
	if err != nil {
		return nil, err
	}

	var jobs []Job
	seq := 0
	emit := func(params suite.ModelParams, group string, shape shapes.Shape, variant Variant) {
		jobs = append(jobs, Job{
			Seq:         seq,
			ParamName:   params.Name,
			GroupName:   group,
			Shape:       shape,
			Variant:     variant,
			Dtype:       params.Dtype(),
			Device:      params.DeviceTag(),
			ModelType:   params.ModelType,
			Compile:     params.UseTorchCompile,
			CompileMode: params.CompileMode(),
		})
		seq++
	}

	for _, params := range cfg.ModelParams {
		for _, rawGroup := range params.MatrixShapes {
			expanded, err := shapes.Expand(rawGroup.Group())
			if err != nil {
				return nil, suite.NewConfigError("model_params %q: matrix_shapes %q: %v", params.Name, rawGroup.Name, err)
			}
			for _, shape := range expanded {
				emit(params, rawGroup.Name, shape, Variant{Kind: VariantBaseline})
				for _, r := range quant {
					emit(params, rawGroup.Name, shape, Variant{Kind: VariantQuantization, Recipe: r.Name()})
				}
				for _, r := range sparse {
					emit(params, rawGroup.Name, shape, Variant{Kind: VariantSparsity, Recipe: r.Name()})
				}
			}
		}
	}
	return jobs, nil
}

func resolveRecipes(names []string, kind recipes.Kind, key string) ([]recipes.Recipe, error) {
	resolved := make([]recipes.Recipe, 0, len(names))
	for _, name := range names {
		r, err := recipes.Resolve(name)
		if err != nil {
			return nil, suite.NewConfigError("%s: %v", key, err)
		}
		if r.Kind() != kind {
			return nil, suite.NewConfigError("%s: recipe %q is a %s recipe", key, name, r.Kind())
		}
		resolved = append(resolved, r)
	}
	return resolved, nil
}
