package observe

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	buf := &bytes.Buffer{}
	obs := New(buf, true)
	if obs.log == nil {
		t.Fatal("expected non-nil logger")
	}

	obs.Log().Info().Str("record", "01ABC").Msg("ingested")
	if !strings.Contains(buf.String(), "ingested") {
		t.Errorf("expected log output, got %q", buf.String())
	}
}

func TestNewJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	obs := NewJSON(buf, true)
	if obs.log == nil {
		t.Fatal("expected non-nil logger")
	}

	obs.Log().Info().Str("record", "01ABC").Msg("ingested")
	out := buf.String()
	if !strings.Contains(out, "ingested") {
		t.Errorf("expected log output, got %q", out)
	}
	if !strings.Contains(out, `"record"`) {
		t.Errorf("expected JSON field in output, got %q", out)
	}
}

func TestNew_QuietByDefault(t *testing.T) {
	buf := &bytes.Buffer{}
	obs := New(buf, false)

	obs.Log().Info().Msg("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("expected info suppressed without verbose, got %q", buf.String())
	}

	obs.Log().Warn().Msg("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected warning to pass, got %q", buf.String())
	}
}

func TestStartSpan(t *testing.T) {
	obs := New(&bytes.Buffer{}, true)

	ctx, span := obs.StartSpan(context.Background(), "Ingest")
	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
	if span == nil {
		t.Fatal("expected non-nil span")
	}
	span.End()
}

func TestClose(t *testing.T) {
	obs := New(&bytes.Buffer{}, true)
	if err := obs.Close(); err != nil {
		t.Errorf("expected nil error from Close, got %v", err)
	}
}
