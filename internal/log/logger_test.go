package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestVerbosityGating(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelQuiet, &buf)

	Debug("debug message")
	Info("info message")
	Warn("warn message")

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Error("debug message logged at quiet level")
	}
	if strings.Contains(out, "info message") {
		t.Error("info message logged at quiet level")
	}
	if !strings.Contains(out, "warn message") {
		t.Error("warn message missing at quiet level")
	}
}

func TestInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelInfo, &buf)

	Info("cache hit", "key", "ranking|go|10|none")
	Debug("api call")

	out := buf.String()
	if !strings.Contains(out, "cache hit") {
		t.Error("info message missing at info level")
	}
	if !strings.Contains(out, "ranking|go|10|none") {
		t.Error("structured attr missing from output")
	}
	if strings.Contains(out, "api call") {
		t.Error("debug message logged at info level")
	}
}

func TestDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelDebug, &buf)

	Debug("retrying fetch", "attempt", 2)

	if !strings.Contains(buf.String(), "retrying fetch") {
		t.Error("debug message missing at debug level")
	}
}

func TestIsDebug(t *testing.T) {
	var buf bytes.Buffer

	Initialize(LevelQuiet, &buf)
	if IsDebug() {
		t.Error("quiet level should not report debug")
	}

	Initialize(LevelInfo, &buf)
	if IsDebug() {
		t.Error("info level should not report debug")
	}

	Initialize(LevelDebug, &buf)
	if !IsDebug() {
		t.Error("debug level should report debug")
	}
}
