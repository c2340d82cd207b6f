package telemetry

import (
	"context"
	"testing"

	commonconfig "github.com/park285/llm-kakao-bots/answer-check-go/internal/common/config"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMapCarrier_RoundTrip(t *testing.T) {
	if _, err := NewProvider(context.Background(), commonconfig.TelemetryConfig{}, "test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "parent")
	defer span.End()

	carrier := MapCarrier{}
	InjectContext(ctx, carrier)
	if carrier.Get("traceparent") == "" {
		t.Fatalf("expected traceparent, got %v", carrier)
	}

	restored := trace.SpanContextFromContext(ExtractContext(context.Background(), carrier))
	if restored.TraceID() != span.SpanContext().TraceID() {
		t.Errorf("trace id mismatch: %s != %s", restored.TraceID(), span.SpanContext().TraceID())
	}
}

func TestProvider_Disabled(t *testing.T) {
	p, err := NewProvider(context.Background(), commonconfig.TelemetryConfig{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Enabled() {
		t.Error("expected disabled provider")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}
