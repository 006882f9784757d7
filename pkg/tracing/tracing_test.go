package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestCreateChildSpan_RecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	defer otel.SetTracerProvider(previous)

	ctx, span := CreateChildSpan(context.Background(), "handler.todo.Find", []attribute.KeyValue{
		attribute.Int("todo.id", 1),
	})
	AddSpanError(span, errors.New("boom"))
	span.End()

	assert.NotEmpty(t, GetTraceID(ctx))
	assert.Empty(t, GetTraceID(context.Background()))

	ended := recorder.Ended()
	assert.Len(t, ended, 1)
	assert.Equal(t, "handler.todo.Find", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "boom", ended[0].Status().Description)
}
