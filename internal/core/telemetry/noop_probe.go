package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"todoapi/internal/core/port"
)

// NoOpProbe is a probe that does nothing - useful for testing or when telemetry is disabled
type NoOpProbe struct{}

func NewNoOpProbe() port.Telemetry {
	return &NoOpProbe{}
}

func (p *NoOpProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	return ctx, trace.SpanFromContext(context.Background())
}

func (p *NoOpProbe) StartServiceSpan(ctx context.Context, service string, operation string, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	return ctx, trace.SpanFromContext(context.Background())
}

func (p *NoOpProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
}

func (p *NoOpProbe) RecordServiceOperation(ctx context.Context, service string, operation string, duration time.Duration, err error) {
}

func (p *NoOpProbe) RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{}) {
}
