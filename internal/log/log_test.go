package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_WritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, nil)
	logger.Warn("test message", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "test message") {
		t.Errorf("expected 'test message' in output, got %q", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Errorf("expected 'key=value' in output, got %q", out)
	}
}

func TestNew_DefaultLevelHidesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, NewLevel())
	logger.Info("info")
	logger.Debug("debug")

	if buf.Len() != 0 {
		t.Errorf("expected no output below WARN, got %q", buf.String())
	}
}

func TestNew_LevelCanBeLowered(t *testing.T) {
	var buf bytes.Buffer
	lv := NewLevel()
	logger := New(&buf, lv)

	lv.Set(slog.LevelDebug)
	logger.Debug("session acquired")

	if !strings.Contains(buf.String(), "level=DEBUG") {
		t.Errorf("expected DEBUG line, got %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("dropped")
}
