package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracerName: 이 서비스의 계측 스코프 이름.
const TracerName = "github.com/park285/llm-kakao-bots/answer-check-go"

// Tracer: 글로벌 TracerProvider 의 서비스 Tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// InjectContext: ctx 의 trace context 를 carrier 에 주입한다. (스트림 응답 필드 등)
func InjectContext(ctx context.Context, carrier propagation.TextMapCarrier) {
	otel.GetTextMapPropagator().Inject(ctx, carrier)
}

// ExtractContext: carrier 에서 부모 trace context 를 복원한다.
func ExtractContext(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

// MapCarrier: 스트림 메시지 필드(map[string]string)를 TextMapCarrier 로 쓰는 어댑터.
type MapCarrier map[string]string

// Get: 키의 값을 반환한다.
func (c MapCarrier) Get(key string) string { return c[key] }

// Set: 키에 값을 설정한다.
func (c MapCarrier) Set(key, value string) { c[key] = value }

// Keys: 모든 키를 반환한다.
func (c MapCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}
