package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
)

const tracerName = "todoapi"

// OTELProbe implements Telemetry using OpenTelemetry spans and the
// Prometheus AppMetrics.
type OTELProbe struct {
	logger  *zap.Logger
	metrics *AppMetrics
}

func NewOTELProbe(logger *zap.Logger, metrics *AppMetrics) port.Telemetry {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OTELProbe{
		logger:  logger,
		metrics: metrics,
	}
}

func (p *OTELProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	spanName := fmt.Sprintf("repository.%s.%s", entity, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("repository.entity", entity),
		attribute.String("repository.operation", operation),
		attribute.String("component", "repository"),
	}

	return otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(append(standardAttrs, attrs...)...))
}

func (p *OTELProbe) StartServiceSpan(ctx context.Context, service string, operation string, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	spanName := fmt.Sprintf("service.%s.%s", service, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("service.name", service),
		attribute.String("service.operation", operation),
		attribute.String("component", "service"),
	}

	return otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(append(standardAttrs, attrs...)...))
}

func (p *OTELProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
	span := trace.SpanFromContext(ctx)

	span.SetAttributes(
		attribute.Int64("duration_ns", duration.Nanoseconds()),
		attribute.Bool("has_error", err != nil),
	)

	if p.metrics != nil {
		p.metrics.RecordRepositoryOperation(ctx, operation, entity, duration, err)
	}

	// A missing row is an expected outcome, not a failure of the backend.
	if err == nil || domain.IsNotFound(err) {
		span.SetStatus(codes.Ok, "")
		return
	}

	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)

	p.logger.Error("Repository operation failed",
		zap.String("operation", operation),
		zap.String("entity", entity),
		zap.Duration("duration", duration),
		zap.Error(err),
	)
}

func (p *OTELProbe) RecordServiceOperation(ctx context.Context, service string, operation string, duration time.Duration, err error) {
	span := trace.SpanFromContext(ctx)

	span.SetAttributes(
		attribute.Int64("duration_ns", duration.Nanoseconds()),
		attribute.Bool("has_error", err != nil),
	)

	if err == nil || domain.IsNotFound(err) {
		span.SetStatus(codes.Ok, "")
		return
	}

	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}

func (p *OTELProbe) RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{}) {
	p.logger.Error("Operation error recorded",
		zap.String("operation", operation),
		zap.Error(err),
		zap.Any("metadata", metadata),
	)
}
