// internal/cli/recipes_test.go
package gemmbench

import (
	"strings"
	"testing"
)

func TestRecipesCommandListsRegistry(t *testing.T) {
	prepareCLI(t, "{}")

	out, err := runCLI(t, "recipes")
	if err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}

	for _, want := range []string{
		"quantization",
		"sparsity",
		"int8wo",
		"int4wo-128",
		"2:4 semi-structured sparsity",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in recipe listing, got %s", want, out)
		}
	}
}
