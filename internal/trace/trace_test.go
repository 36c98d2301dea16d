package trace

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInitDisabled(t *testing.T) {
	t.Setenv("LOG_TRACING_ENABLED", "false")

	if err := Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if Enabled() {
		t.Error("Expected tracing to be disabled")
	}
	if err := Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown with tracing disabled returned error: %v", err)
	}
	if _, _, ok := GetTraceFields(context.Background()); ok {
		t.Error("Expected no trace fields when tracing is disabled")
	}
}

func TestStartSpanWithoutInit(t *testing.T) {
	tracer = nil

	ctx := context.Background()
	gotCtx, span := StartSpan(ctx, "noop")
	if gotCtx != ctx {
		t.Error("Expected the original context back when no tracer is wired")
	}
	if span.SpanContext().IsValid() {
		t.Error("Expected a non-recording span when no tracer is wired")
	}
}

func TestNewSampler(t *testing.T) {
	cases := []struct {
		name  string
		ratio string
		want  string
	}{
		{"unset keeps everything", "", sdktrace.AlwaysSample().Description()},
		{"garbage keeps everything", "half", sdktrace.AlwaysSample().Description()},
		{"zero keeps everything", "0", sdktrace.AlwaysSample().Description()},
		{"valid ratio thins spans", "0.25", sdktrace.TraceIDRatioBased(0.25).Description()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TRACE_SAMPLE_RATIO", tc.ratio)
			if got := newSampler().Description(); got != tc.want {
				t.Errorf("Expected sampler %q, got %q", tc.want, got)
			}
		})
	}
}
