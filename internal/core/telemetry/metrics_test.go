package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"todoapi/internal/core/domain"
)

func TestAppMetrics_RecordTodoOperation(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	ctx := context.Background()

	metrics.RecordTodoOperation(ctx, "create", nil)
	metrics.RecordTodoOperation(ctx, "create", nil)
	metrics.RecordTodoOperation(ctx, "find", domain.NewNotFoundError(1))

	Expect(testutil.ToFloat64(metrics.todoOperations.WithLabelValues("create", "ok"))).To(Equal(2.0))
	Expect(testutil.ToFloat64(metrics.todoOperations.WithLabelValues("find", "error"))).To(Equal(1.0))
}

func TestAppMetrics_ActiveConnections(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	ctx := context.Background()

	metrics.IncrementActiveConnections(ctx)
	metrics.IncrementActiveConnections(ctx)
	metrics.DecrementActiveConnections(ctx)

	Expect(testutil.ToFloat64(metrics.activeConnections)).To(Equal(1.0))
}

func TestOTELProbe_RecordRepositoryOperation(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	probe := NewOTELProbe(zap.NewNop(), metrics)

	ctx, span := probe.StartRepositorySpan(context.Background(), "Find", "todo", nil)
	probe.RecordRepositoryOperation(ctx, "Find", "todo", time.Millisecond, domain.NewNotFoundError(3))
	probe.RecordRepositoryOperation(ctx, "Find", "todo", time.Millisecond, errors.New("connection refused"))
	span.End()

	Expect(testutil.ToFloat64(metrics.repositoryOperation.WithLabelValues("Find", "todo", "error"))).To(Equal(2.0))
}

func TestNoOpProbe_ReturnsSameContext(t *testing.T) {
	RegisterTestingT(t)

	probe := NewNoOpProbe()
	ctx := context.Background()

	spanCtx, span := probe.StartRepositorySpan(ctx, "Find", "todo", nil)
	defer span.End()

	Expect(spanCtx).To(Equal(ctx))
	Expect(span.IsRecording()).To(BeFalse())
}
