package logger

import (
	"bytes"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	cfg := DefaultConfig()
	cfg.Output = buf
	cfg.Colorize = false
	cfg.ShowTime = false
	return New(cfg)
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetLevel(WARN)

	l.Infof("should not appear")
	l.Warnf("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("expected INFO message to be filtered out below WARN level, got %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("expected WARN message to be logged, got %q", out)
	}
}

func TestLoggerWithFieldPrefixesMessages(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	scoped := l.WithField("run_id", "abc-123")

	scoped.Infof("hello")

	out := buf.String()
	if !strings.Contains(out, "run_id=abc-123") {
		t.Errorf("expected message to carry run_id=abc-123, got %q", out)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("expected message body to be preserved, got %q", out)
	}
}

func TestLoggerWithFieldDoesNotMutateReceiver(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	_ = l.WithField("run_id", "abc-123")

	l.Infof("unscoped")

	if strings.Contains(buf.String(), "run_id") {
		t.Errorf("WithField must not mutate the receiver, got %q", buf.String())
	}
}

func TestLoggerWithFieldChains(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	scoped := l.WithField("run_id", "abc-123").WithField("path", "a.wav")

	scoped.Infof("chained")

	out := buf.String()
	if !strings.Contains(out, "run_id=abc-123") || !strings.Contains(out, "path=a.wav") {
		t.Errorf("expected both fields in prefix, got %q", out)
	}
}
