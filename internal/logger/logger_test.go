package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenRotatingFileDefaultDir(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	if _, err := openRotatingFile(Options{}); err != nil {
		t.Fatalf("open default rotating file failed: %v", err)
	}

	logFile := filepath.Join(tmpDir, defaultLogDirName, defaultLogFilename)
	if _, err := os.Stat(logFile); err != nil {
		t.Fatalf("expected default log file to be created: %v", err)
	}
}

func TestNewReleaseWritesToConfiguredFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{
		Dir:      tmpDir,
		Filename: "release.log",
	})
	log.Info("release-log-test")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "release.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	if !strings.Contains(string(content), "release-log-test") {
		t.Fatalf("expected log content to contain message, got=%s", string(content))
	}
}

func TestNewDebugDoesNotWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("debug", Options{
		Dir:      tmpDir,
		Filename: "debug.log",
	})
	log.Info("debug-log-test")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create log file")
	}
}

func TestPositiveOr(t *testing.T) {
	cases := []struct {
		value    int
		fallback int
		expected int
	}{
		{0, 7, 7},
		{-1, 7, 7},
		{3, 7, 3},
	}
	for _, tc := range cases {
		if got := positiveOr(tc.value, tc.fallback); got != tc.expected {
			t.Fatalf("positiveOr(%d, %d) = %d, expected %d", tc.value, tc.fallback, got, tc.expected)
		}
	}
}
