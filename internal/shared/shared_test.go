package shared

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogger(t *testing.T) {
	t.Run("NewLogger Writes To Writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("uplink established", "team_id", "T1")

		if !strings.Contains(buf.String(), "uplink established") {
			t.Errorf("expected message in output, got %q", buf.String())
		}
		if !strings.Contains(buf.String(), "team_id=T1") {
			t.Errorf("expected key/value in output, got %q", buf.String())
		}
	})

	t.Run("WithLogger Adds Fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "epoch", 3)
		logger.Warn("poll failed")

		if !strings.Contains(buf.String(), "epoch=3") {
			t.Errorf("expected child field in output, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger Creates Directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "dashboard.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}
		logger.Info("hello")

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(content), "hello") {
			t.Errorf("expected log line in file, got %q", content)
		}
	})

	t.Run("ParseLogLevel", func(t *testing.T) {
		tt := []struct {
			in   string
			want log.Level
		}{
			{"", log.InfoLevel},
			{"debug", log.DebugLevel},
			{"warn", log.WarnLevel},
			{"bogus", log.InfoLevel},
		}
		for _, tc := range tt {
			if got := ParseLogLevel(tc.in); got != tc.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tc.in, got, tc.want)
			}
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected unique IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected 36 character uuid, got %q", a)
	}
}

func TestOpenBrowser(t *testing.T) {
	origRuntime, origStart := getRuntime, startCommand
	t.Cleanup(func() {
		getRuntime, startCommand = origRuntime, origStart
	})

	var launched []string
	startCommand = func(cmd *exec.Cmd) error {
		launched = cmd.Args
		return nil
	}

	t.Run("Linux", func(t *testing.T) {
		getRuntime = func() string { return "linux" }
		if err := OpenBrowser("https://api.example.com"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(launched) != 2 || launched[0] != "xdg-open" {
			t.Errorf("expected xdg-open, got %v", launched)
		}
	})

	t.Run("Rejects Non HTTP URL", func(t *testing.T) {
		err := OpenBrowser("file:///etc/passwd")
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Unsupported Platform", func(t *testing.T) {
		getRuntime = func() string { return "plan9" }
		if err := OpenBrowser("https://api.example.com"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})

	t.Run("Start Failure", func(t *testing.T) {
		getRuntime = func() string { return "darwin" }
		startCommand = func(*exec.Cmd) error { return errors.New("boom") }
		if err := OpenBrowser("https://api.example.com"); err == nil {
			t.Error("expected error when launch fails")
		}
	})
}
