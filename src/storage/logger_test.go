package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoggerWritesLeveledEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	logger.Info("dataset loaded")
	logger.Warning("column has missing values")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "INFO: dataset loaded") {
		t.Errorf("log missing info entry:\n%s", content)
	}
	if !strings.Contains(content, "WARNING: column has missing values") {
		t.Errorf("log missing warning entry:\n%s", content)
	}
}

func TestLoggerSubscribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	ch := logger.Subscribe()
	logger.Error("load failed")

	select {
	case entry := <-ch:
		if !strings.Contains(entry, "ERROR: load failed") {
			t.Errorf("subscriber entry = %q", entry)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the log entry")
	}
}

func TestLoggerRotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	logger, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	logger.Info(strings.Repeat("x", 200))
	logger.CheckRotate("64")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected rotated file next to app.log, got %v", names)
	}

	logger.Info("after rotation")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "after rotation") {
		t.Error("logger did not keep writing to the fresh file after rotation")
	}
}
