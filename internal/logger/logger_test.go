package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltersBelowThreshold(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewWithWriter(Config{Level: LevelWarn, Format: "text"}, buf)
	l.Info("hidden")
	l.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Fatalf("expected warn line, got %q", out)
	}
}

func TestErrorAddsCallerAndComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewWithWriter(Config{Level: LevelDebug, Format: "json", EnableCaller: true}, buf).WithComponent("retry")
	l.Error("boom")

	out := buf.String()
	if !strings.Contains(out, `"component":"retry"`) {
		t.Fatalf("expected component attr, got %q", out)
	}
	if !strings.Contains(out, `"caller":"logger_test.go:`) {
		t.Fatalf("expected caller attr, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug": LevelDebug,
		" INFO": LevelInfo,
		"error": LevelError,
		"":      LevelWarn,
		"loud":  LevelWarn,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}
