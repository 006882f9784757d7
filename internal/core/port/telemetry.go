package port

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry lets repositories and services emit spans and metrics without
// knowing which exporter is configured.
type Telemetry interface {
	StartRepositorySpan(ctx context.Context, operation string, entity string, attrs []attribute.KeyValue) (context.Context, trace.Span)
	StartServiceSpan(ctx context.Context, service string, operation string, attrs []attribute.KeyValue) (context.Context, trace.Span)

	RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error)
	RecordServiceOperation(ctx context.Context, service string, operation string, duration time.Duration, err error)

	RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{})
}
