package bootstrap

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// OTelHandler: 현재 span 의 trace_id/span_id 를 로그 레코드에 붙이는 slog.Handler
type OTelHandler struct {
	slog.Handler
}

// NewOTelHandler: inner 를 감싼 OTelHandler 를 만든다.
func NewOTelHandler(inner slog.Handler) *OTelHandler {
	return &OTelHandler{Handler: inner}
}

// Handle: span 이 없으면 그대로 넘긴다.
func (h *OTelHandler) Handle(ctx context.Context, record slog.Record) error {
	if attrs := traceAttrs(ctx); len(attrs) > 0 {
		record = record.Clone()
		record.AddAttrs(attrs...)
	}
	//nolint:wrapcheck // slog.Handler interface implementation
	return h.Handler.Handle(ctx, record)
}

// WithAttrs: 속성을 추가한 새로운 Handler를 반환합니다.
func (h *OTelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewOTelHandler(h.Handler.WithAttrs(attrs))
}

// WithGroup: 그룹을 추가한 새로운 Handler를 반환합니다.
func (h *OTelHandler) WithGroup(name string) slog.Handler {
	return NewOTelHandler(h.Handler.WithGroup(name))
}

func traceAttrs(ctx context.Context) []slog.Attr {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	attrs := []slog.Attr{
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	}
	if sc.IsSampled() {
		attrs = append(attrs, slog.Bool("trace_sampled", true))
	}
	return attrs
}
