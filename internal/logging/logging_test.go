package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultLogDir(t *testing.T) {
	dir := DefaultLogDir()
	if dir == "" {
		t.Error("DefaultLogDir returned empty string")
	}

	if !strings.Contains(dir, ".csbench") || !strings.Contains(dir, "logs") {
		t.Errorf("DefaultLogDir should contain .csbench/logs, got: %s", dir)
	}
}

func TestDefaultLogPath(t *testing.T) {
	path := DefaultLogPath()
	if filepath.Base(path) != "csbench.log" {
		t.Errorf("DefaultLogPath should end with csbench.log, got: %s", path)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got: %s", cfg.Level)
	}
	if cfg.MaxSizeMB != 10 {
		t.Errorf("expected MaxSizeMB 10, got: %d", cfg.MaxSizeMB)
	}
	if cfg.MaxFiles != 5 {
		t.Errorf("expected MaxFiles 5, got: %d", cfg.MaxFiles)
	}
	if !cfg.WriteToStderr {
		t.Error("expected WriteToStderr to be true")
	}
}

func TestDebugConfig(t *testing.T) {
	cfg := DebugConfig()
	if cfg.Level != "debug" {
		t.Errorf("expected level 'debug', got: %s", cfg.Level)
	}
}

func TestSetup_WritesJSONToFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := Config{
		Level:         "debug",
		FilePath:      filepath.Join(tmpDir, "csbench.log"),
		MaxSizeMB:     1,
		MaxFiles:      2,
		WriteToStderr: false,
	}

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger.Info("sweep_started", slog.String("language", "ruby"))
	cleanup()

	data, err := os.ReadFile(cfg.FilePath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"sweep_started"`) {
		t.Errorf("log file missing JSON record, got: %s", data)
	}
	if !strings.Contains(string(data), `"language":"ruby"`) {
		t.Errorf("log file missing attribute, got: %s", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRotatingWriter_Rotation(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "csbench.log")

	// 1MB cap; three ~600KB writes force two rotations
	w, err := NewRotatingWriter(path, 1, 3)
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	defer func() { _ = w.Close() }()

	chunk := strings.Repeat("x", 600*1024)
	for i := 0; i < 3; i++ {
		if _, err := w.Write([]byte(chunk)); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Errorf("expected rotated file %s.1 to exist: %v", path, err)
	}
}

func TestRotatingWriter_MaxFilesLimit(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "csbench.log")

	w, err := NewRotatingWriter(path, 1, 2)
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	defer func() { _ = w.Close() }()

	chunk := strings.Repeat("x", 700*1024)
	for i := 0; i < 6; i++ {
		if _, err := w.Write([]byte(chunk)); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	matches, _ := filepath.Glob(path + ".*")
	if len(matches) > 2 {
		t.Errorf("expected at most 2 rotated files, got %d: %v", len(matches), matches)
	}
}
