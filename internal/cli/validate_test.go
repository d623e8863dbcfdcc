// internal/cli/validate_test.go
package gemmbench

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// sampleSuiteYAML is a minimal valid suite: one custom shape, one
// quantization recipe, one sparsity recipe. Expands to three jobs.
const sampleSuiteYAML = `name: smoke-suite
benchmark_mode: inference
quantization_config_recipe_names:
  - int8wo
sparsity_config_recipe_names:
  - semi-sparse
warmup_iterations: 0
measurement_iterations: 1
job_timeout_seconds: 30
max_workers: 1
model_params:
  - name: tiny
    model_type: linear
    high_precision_dtype: float32
    device: cpu
    matrix_shapes:
      - name: custom
        shapes:
          - [4, 8, 4]
`

func writeTempSuite(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "benchmark_config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write suite: %v", err)
	}
	return path
}

func TestValidateCommandReportsJobCount(t *testing.T) {
	prepareCLI(t, "{}")
	resetCommandFlags(validateCmd, "file")
	suitePath := writeTempSuite(t, sampleSuiteYAML)

	out, err := runCLI(t, "validate", "-f", suitePath)
	if err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}
	if !strings.Contains(out, suitePath+": OK (3 jobs)") {
		t.Fatalf("expected job count in output, got %s", out)
	}
}

func TestValidateCommandRejectsTrainingMode(t *testing.T) {
	prepareCLI(t, "{}")
	resetCommandFlags(validateCmd, "file")
	suitePath := writeTempSuite(t, strings.Replace(sampleSuiteYAML, "benchmark_mode: inference", "benchmark_mode: training", 1))

	out, err := runCLI(t, "validate", "-f", suitePath)
	if err == nil {
		t.Fatal("expected an error for training mode")
	}
	if !strings.Contains(out, "not supported") {
		t.Fatalf("expected mode rejection in output, got %s", out)
	}
}

func TestValidateCommandRejectsUnknownRecipe(t *testing.T) {
	prepareCLI(t, "{}")
	resetCommandFlags(validateCmd, "file")
	suitePath := writeTempSuite(t, strings.Replace(sampleSuiteYAML, "- int8wo", "- int9wo", 1))

	_, err := runCLI(t, "validate", "-f", suitePath)
	if err == nil {
		t.Fatal("expected an error for an unknown recipe")
	}
	if !strings.Contains(err.Error(), "int9wo") {
		t.Fatalf("expected the unknown recipe to be named, got %v", err)
	}
}

func TestValidateCommandMissingSuiteFile(t *testing.T) {
	prepareCLI(t, "{}")
	resetCommandFlags(validateCmd, "file")
	missing := filepath.Join(t.TempDir(), "absent.yml")

	_, err := runCLI(t, "validate", "-f", missing)
	if err == nil {
		t.Fatal("expected an error for a missing suite file")
	}
	if !strings.Contains(err.Error(), "no benchmark configuration found") {
		t.Fatalf("expected missing-file error, got %v", err)
	}
}
