package obslog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/aurelia/aot/internal/diag"
)

func TestLoggerCarriesSessionComponentAndStageAttrs(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	l := New("build-1", handler).With("plan").Stage(diag.StagePlan)
	l.Info("reparented controller bindings")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected a JSON log line, got error: %s (%s)", err, buf.String())
	}
	if record["session"] != "build-1" {
		t.Errorf("expected session=build-1, got %v", record["session"])
	}
	if record["component"] != "plan" {
		t.Errorf("expected component=plan, got %v", record["component"])
	}
	if record["stage"] != string(diag.StagePlan) {
		t.Errorf("expected stage=%s, got %v", diag.StagePlan, record["stage"])
	}
}

func TestContextRoundTripsLogger(t *testing.T) {
	l := New("build-2", slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := ContextWith(context.Background(), l)
	if got := FromContext(ctx); got != l {
		t.Errorf("expected FromContext to return the attached Logger")
	}
}

func TestFromContextFallsBackWithoutPanicking(t *testing.T) {
	got := FromContext(context.Background())
	if got == nil || got.Logger == nil {
		t.Fatalf("expected a usable fallback Logger, got %#v", got)
	}
}
