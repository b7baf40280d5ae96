package logger

import (
	"ggsc_backend/internal/config"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesRotatedFileAtConfiguredLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ggsc.log")
	l, err := New(config.LogConfig{Level: "warn", File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}, "debug")
	if err != nil {
		t.Fatal(err)
	}

	l.Info("below threshold")
	l.Warn("leaderboard degraded")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if strings.Contains(out, "below threshold") {
		t.Errorf("info line written at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"leaderboard degraded"`) || !strings.Contains(out, `"level":"WARN"`) {
		t.Errorf("warn line missing or not JSON: %s", out)
	}
}

func TestSetLevel_FollowsServerModeWhenUnset(t *testing.T) {
	if err := SetLevel("", "debug"); err != nil {
		t.Fatal(err)
	}
	if got := level.Level().String(); got != "debug" {
		t.Errorf("debug mode: level = %s", got)
	}
	if err := SetLevel("", "release"); err != nil {
		t.Fatal(err)
	}
	if got := level.Level().String(); got != "info" {
		t.Errorf("release mode: level = %s", got)
	}
	if err := SetLevel("loud", "release"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew_NoFileFallsBackToConsole(t *testing.T) {
	l, err := New(config.LogConfig{}, "release")
	if err != nil {
		t.Fatal(err)
	}
	if !l.Core().Enabled(level.Level()) {
		t.Error("console core must be enabled at the configured level")
	}
}
