// internal/suite/schema.go
package suite

import (
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.yaml.in/yaml/v3"
)

// configSchema describes the structural shape of a suite configuration. The
// document is checked against it before any typed decoding so that a wrong
// type or a malformed tuple is reported by key path rather than as a decoder
// error.
var configSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"benchmark_mode", "model_params"},
	"properties": map[string]interface{}{
		"name":           map[string]interface{}{"type": "string"},
		"benchmark_mode": map[string]interface{}{"type": "string"},
		"quantization_config_recipe_names": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"sparsity_config_recipe_names": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"output_dir":             map[string]interface{}{"type": "string"},
		"warmup_iterations":      map[string]interface{}{"type": "integer", "minimum": 0},
		"measurement_iterations": map[string]interface{}{"type": "integer", "minimum": 1},
		"job_timeout_seconds":    map[string]interface{}{"type": "integer", "minimum": 1},
		"max_workers":            map[string]interface{}{"type": "integer", "minimum": 1},
		"compare_accuracy":       map[string]interface{}{"type": "boolean"},
		"model_params": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items": map[string]interface{}{
				"type":     "object",
				"required": []string{"name", "matrix_shapes", "model_type"},
				"properties": map[string]interface{}{
					"name": map[string]interface{}{"type": "string", "minLength": 1},
					"matrix_shapes": map[string]interface{}{
						"type":     "array",
						"minItems": 1,
						"items": map[string]interface{}{
							"type":     "object",
							"required": []string{"name"},
							"properties": map[string]interface{}{
								"name": map[string]interface{}{"type": "string", "minLength": 1},
								"shapes": map[string]interface{}{
									"type": "array",
									"items": map[string]interface{}{
										"type":     "array",
										"items":    map[string]interface{}{"type": "integer", "minimum": 1},
										"minItems": 3,
										"maxItems": 3,
									},
								},
							},
						},
					},
					"high_precision_dtype": map[string]interface{}{"type": "string"},
					"use_torch_compile":    map[string]interface{}{"type": "boolean"},
					"torch_compile_mode":   map[string]interface{}{"type": "string"},
					"device":               map[string]interface{}{"type": "string", "minLength": 1},
					"model_type":           map[string]interface{}{"type": "string", "minLength": 1},
				},
			},
		},
	},
}

// validateSchema checks the raw YAML document against configSchema. The YAML
// is decoded generically and re-encoded as JSON so gojsonschema can process
// it. Returns a ConfigError listing every violation.
func validateSchema(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return NewConfigError("malformed yaml: %v", err)
	}
	if doc == nil {
		return NewConfigError("configuration is empty")
	}

	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return NewConfigError("configuration must be a mapping with string keys: %v", err)
	}

	schemaLoader := gojsonschema.NewGoLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(jsonDoc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return NewConfigError("schema validation error: %v", err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return NewConfigError("%s", strings.Join(errs, ", "))
}
