package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestInitWithoutFile(t *testing.T) {
	if err := Init("info", ""); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer Sync()

	if Log == nil || Sugar == nil {
		t.Fatal("Init left Log or Sugar nil")
	}
	// Console-only setup must accept writes without a file sink.
	Info("animator ready", zap.Int("bones", 51))
}

func TestStructuredFieldsReachFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "studio.log")
	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  10,
		MaxBackups: 1,
		MaxAgeDays: 1,
	}
	if err := InitWithFileConfig("debug", cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer Sync()

	Info("frame rendered",
		zap.Int("frame", 42),
		zap.Float64("frame_ms", 3.7))
	Warn("unknown pose", zap.String("pose", "backflip"))
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	for _, want := range []string{"frame rendered", "frame_ms", "unknown pose", "backflip"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("expected %q in log output", want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
		// Unrecognized levels fall back to info.
		{"verbose", []string{"INFO"}, []string{"DEBUG"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(t.TempDir(), tt.level+".log")
			cfg := FileConfig{Path: logFile, MaxSizeMB: 10, MaxBackups: 1, MaxAgeDays: 1}
			if err := InitWithFileConfig(tt.level, cfg, false); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("deform pass finished")
			Info("pose applied", zap.String("pose", "wave"))
			Warn("unknown emotion", zap.String("emotion", "smug"))
			Error("portrait decode failed")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			for _, exp := range tt.expected {
				if !strings.Contains(string(content), exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(string(content), exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestRotationDuringLongSession(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "session.log")

	// 1MB is the smallest size lumberjack rotates on; per-frame metric
	// lines are padded so a few thousand frames exceed it.
	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 2,
		MaxAgeDays: 1,
	}
	if err := InitWithFileConfig("debug", cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer Sync()

	padding := strings.Repeat("x", 200)
	for frame := 0; frame < 15000; frame++ {
		Sugar.Debugf("frame %d metrics %s", frame, padding)
	}
	Sync()

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("active log file does not exist")
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}
	rotated := 0
	for _, f := range files {
		name := f.Name()
		if name == "session.log" || !strings.Contains(name, ".log") {
			continue
		}
		rotated++
		// Rotated names carry a timestamp: session-YYYY-MM-DD....log
		if !strings.Contains(name, "-20") {
			t.Errorf("rotated file %s missing timestamp", name)
		}
	}
	if rotated == 0 {
		t.Error("no rotated log files after exceeding the size limit")
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("render/studio.log")

	if cfg.Path != "render/studio.log" {
		t.Errorf("expected path render/studio.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 || cfg.MaxBackups != 5 || cfg.MaxAgeDays != 14 {
		t.Errorf("unexpected rotation settings: %+v", cfg)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
