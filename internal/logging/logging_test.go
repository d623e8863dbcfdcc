package logging

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testStringer string

func (s testStringer) String() string { return string(s) }

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "gemmbench.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("hello %s", "world")
	LogJob("done", "7B/llama/4096x4096x4096/int8wo", "cpu", map[string]any{"medianSeconds": 0.5})
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, "[DONE] job=7B/llama/4096x4096x4096/int8wo device=cpu") {
		t.Fatalf("expected LogJob content, got: %s", content)
	}
}

func TestBuildJobMessageDefaults(t *testing.T) {
	msg := buildJobMessage(" start ", " ", "", map[string]any{"ok": true})
	if !strings.Contains(msg, "[START]") {
		t.Fatalf("expected uppercased stage, got: %s", msg)
	}
	if !strings.Contains(msg, "job=unknown") {
		t.Fatalf("expected default job id, got: %s", msg)
	}
	if !strings.Contains(msg, "device=unknown") {
		t.Fatalf("expected default device, got: %s", msg)
	}
	if !strings.Contains(msg, "payload={\"ok\":true}") {
		t.Fatalf("expected payload json, got: %s", msg)
	}
}

func TestFormatPayloadVariants(t *testing.T) {
	if got := formatPayload(nil); got != "null" {
		t.Fatalf("nil payload: %s", got)
	}
	if got := formatPayload(" "); got != `""` {
		t.Fatalf("empty string payload: %s", got)
	}
	if got := formatPayload([]byte("hi")); got != "hi" {
		t.Fatalf("byte payload: %s", got)
	}
	if got := formatPayload(testStringer("ok")); got != "ok" {
		t.Fatalf("stringer payload: %s", got)
	}
}

func TestInitRedirectsPriorWriter(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	if err := Init(""); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	LogEvent("redirected")
	if buf.Len() != 0 {
		t.Fatalf("expected log output redirected away, got: %s", buf.String())
	}
}

func TestSetConsoleOutputKeepsFileWriter(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "gemmbench.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		SetConsoleOutput(true)
		_ = Close()
	})

	SetConsoleOutput(false)
	LogEvent("quiet %s", "line")
	SetConsoleOutput(true)
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "quiet line") {
		t.Fatalf("expected file to keep receiving lines, got: %s", string(data))
	}
}
