package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
	console = true
)

func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
	}

	applyOutput()
	return nil
}

// SetConsoleOutput routes log lines to or away from stdout. The progress
// screen owns the terminal while it runs, so the run command turns the
// console copy off for its duration; the log file keeps receiving lines.
func SetConsoleOutput(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	console = enabled
	applyOutput()
}

// applyOutput installs the writer set for the current state. Callers hold mu.
func applyOutput() {
	var writers []io.Writer
	if console {
		writers = append(writers, os.Stdout)
	}
	if logFile != nil {
		writers = append(writers, logFile)
	}
	if len(writers) == 0 {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(io.MultiWriter(writers...))
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

func LogJob(stage, jobID, device string, payload any) {
	msg := buildJobMessage(stage, jobID, device, payload)
	log.Println(msg)
}

func buildJobMessage(stage, jobID, device string, payload any) string {
	st := strings.TrimSpace(stage)
	if st != "" {
		st = strings.ToUpper(st)
	}
	id := strings.TrimSpace(jobID)
	if id == "" {
		id = "unknown"
	}
	dev := strings.TrimSpace(device)
	if dev == "" {
		dev = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", st)}
	parts = append(parts, fmt.Sprintf("job=%s", id))
	parts = append(parts, fmt.Sprintf("device=%s", dev))
	parts = append(parts, fmt.Sprintf("payload=%s", formatPayload(payload)))
	return strings.Join(parts, " ")
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
