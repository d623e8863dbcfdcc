// internal/suite/load.go
package suite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// DefaultConfigPath is the default location of the suite configuration file.
const DefaultConfigPath = "config/benchmark_config.yml"

// Load reads, validates, and decodes the suite configuration at path. An
// empty path selects DefaultConfigPath. Validation faults come back as
// ConfigError; anything partially measured is worse than nothing measured,
// so callers abort on any error from here.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no benchmark configuration found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read benchmark config %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	cfg.ConfigPath = path
	if strings.TrimSpace(cfg.Name) == "" {
		base := filepath.Base(path)
		cfg.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return cfg, nil
}

// Parse validates and decodes a raw suite configuration document.
func Parse(data []byte) (Config, error) {
	if err := validateSchema(data); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, NewConfigError("malformed yaml: %v", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate applies the semantic rules the structural schema cannot express:
// mode support, duplicate names, tuple well-formedness.
func Validate(cfg Config) error {
	switch cfg.BenchmarkMode {
	case ModeInference:
	case ModeTraining:
		return NewConfigError("benchmark_mode %q is not supported (only %q)", cfg.BenchmarkMode, ModeInference)
	default:
		return NewConfigError("unknown benchmark_mode %q", cfg.BenchmarkMode)
	}

	if err := noDuplicates("quantization_config_recipe_names", cfg.QuantizationRecipeNames); err != nil {
		return err
	}
	if err := noDuplicates("sparsity_config_recipe_names", cfg.SparsityRecipeNames); err != nil {
		return err
	}

	if len(cfg.ModelParams) == 0 {
		return NewConfigError("model_params must declare at least one block")
	}

	seen := make(map[string]bool, len(cfg.ModelParams))
	for _, params := range cfg.ModelParams {
		if strings.TrimSpace(params.Name) == "" {
			return NewConfigError("model_params block without a name")
		}
		if seen[params.Name] {
			return NewConfigError("duplicate model_params name %q", params.Name)
		}
		seen[params.Name] = true

		if strings.TrimSpace(params.ModelType) == "" {
			return NewConfigError("model_params %q: model_type is required", params.Name)
		}
		if len(params.MatrixShapes) == 0 {
			return NewConfigError("model_params %q declares no matrix_shapes", params.Name)
		}
		for _, group := range params.MatrixShapes {
			if strings.TrimSpace(group.Name) == "" {
				return NewConfigError("model_params %q has a shape group without a name", params.Name)
			}
			for i, tuple := range group.Shapes {
				if len(tuple) != 3 {
					return NewConfigError("model_params %q group %q shape %d: want exactly three dimensions (m, k, n), got %d", params.Name, group.Name, i, len(tuple))
				}
				for _, dim := range tuple {
					if dim <= 0 {
						return NewConfigError("model_params %q group %q shape %d: dimensions must be strictly positive", params.Name, group.Name, i)
					}
				}
			}
		}
	}

	return nil
}

func noDuplicates(key string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return NewConfigError("%s contains duplicate %q", key, name)
		}
		seen[name] = true
	}
	return nil
}
