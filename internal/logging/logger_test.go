package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	stdlog "log"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log record is not JSON: %v (%q)", err, buf.String())
	}
	return rec
}

func TestZerologAdapterFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewLogger(&buf, "service")

	log.Info("call complete", Selector(0x2A), Uint64("bytes", 96), Bool("cached", true), Int("n", 3))
	rec := decode(t, &buf)

	if rec["component"] != "service" {
		t.Errorf("component = %v", rec["component"])
	}
	if rec["selector"] != "0x2a" {
		t.Errorf("selector = %v", rec["selector"])
	}
	if rec["cached"] != true || rec["bytes"] != float64(96) || rec["n"] != float64(3) {
		t.Errorf("unexpected fields %v", rec)
	}
	if rec["message"] != "call complete" || rec["level"] != "info" {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestZerologAdapterError(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	NewLogger(&buf, "server").Error("request failed", errors.New("boom"), String("path", "/call"))
	rec := decode(t, &buf)
	if rec["error"] != "boom" || rec["path"] != "/call" || rec["level"] != "error" {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewLevelLogger(&buf, "app", "warn")
	log.Debug("hidden")
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}
	log.Error("shown", errors.New("x"))
	if buf.Len() == 0 {
		t.Error("expected error record at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	cases := map[string]zerolog.Level{
		"":         zerolog.InfoLevel,
		"debug":    zerolog.DebugLevel,
		" WARN ":   zerolog.WarnLevel,
		"bogus":    zerolog.InfoLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWithAndNop(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	NewLogger(&buf, "batch").With(String("run", "r1")).Printf("item %d", 7)
	rec := decode(t, &buf)
	if rec["run"] != "r1" || rec["message"] != "item 7" {
		t.Errorf("unexpected record %v", rec)
	}

	Nop().Info("dropped")
}

func TestStdLoggerAdapter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewStdLoggerAdapter(stdlog.New(&buf, "", 0))

	log.Info("ready", String("addr", ":8080"))
	log.Error("failed", errors.New("boom"))
	log.Debug("tick")
	log.Println("plain", 1)

	out := buf.String()
	for _, want := range []string{"[INFO] ready addr=:8080", "[ERROR] failed: boom", "[DEBUG] tick", "plain 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
