package main

import (
	"testing"
)

func TestMainWiring(t *testing.T) {
	origSetVersion := setVersionInfo
	origExecute := executeCmd
	t.Cleanup(func() {
		setVersionInfo = origSetVersion
		executeCmd = origExecute
	})

	calls := struct {
		version bool
		exec    bool
	}{}

	setVersionInfo = func(v, c, d string) {
		calls.version = true
		if v == "" || c == "" || d == "" {
			t.Fatalf("expected version info to be set")
		}
	}
	executeCmd = func() {
		calls.exec = true
	}

	main()

	if !calls.version {
		t.Fatal("expected version info to be injected before execution")
	}
	if !calls.exec {
		t.Fatal("expected the root command to be executed")
	}
}
