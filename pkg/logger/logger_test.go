package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInit_IsSingleton(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Level: "info", Output: &first, Profile: "ops"})
	Init(Options{Level: "debug", Output: &second})

	sessionLog := Component("session")
	sessionLog.Info().Msg("restored")

	if second.Len() != 0 {
		t.Fatalf("second Init should have no effect, got %q", second.String())
	}

	var entry map[string]any
	if err := json.Unmarshal(first.Bytes(), &entry); err != nil {
		t.Fatalf("log entry is not JSON: %v (%q)", err, first.String())
	}
	if entry["component"] != "session" || entry["profile"] != "ops" || entry["message"] != "restored" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestInit_FiltersBelowLevel(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	log := Init(Options{Level: "warn", Output: &buf})
	log.Info().Msg("hidden")

	if buf.Len() != 0 {
		t.Fatalf("info entry should be filtered at warn level, got %q", buf.String())
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Get()
}
