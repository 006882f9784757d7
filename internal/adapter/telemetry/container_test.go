package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"todoapi/pkg/config"
)

const runtimeScope = "go.opentelemetry.io/contrib/instrumentation/runtime"

func newTestContainer(t *testing.T) *Container {
	cfg := config.GetDefaultConfig()
	cfg.Telemetry.MetricsPort = ""

	container, err := NewContainer(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() { container.Shutdown(context.Background()) })

	return container
}

func TestNewContainer_WithoutExporters(t *testing.T) {
	container := newTestContainer(t)

	assert.Nil(t, container.MetricsServer)
	assert.NotNil(t, container.AppMetrics)

	container.AppMetrics.RecordTodoOperation(context.Background(), "create", nil)

	w := httptest.NewRecorder()
	promhttp.HandlerFor(container.PrometheusRegistry, promhttp.HandlerOpts{}).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "todo_operations_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestNewContainer_ExportsRuntimeMetrics(t *testing.T) {
	container := newTestContainer(t)

	families, err := container.PrometheusRegistry.Gather()
	require.NoError(t, err)

	var runtimeSeries []string

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "otel_scope_name" && label.GetValue() == runtimeScope {
					runtimeSeries = append(runtimeSeries, family.GetName())
				}
			}
		}
	}

	assert.NotEmpty(t, runtimeSeries, "no runtime instrumentation series in the registry")
}
