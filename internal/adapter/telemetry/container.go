package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	otelprometheus "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"
)

type Container struct {
	TracerProvider     *sdktrace.TracerProvider
	MeterProvider      *sdkmetric.MeterProvider
	PrometheusRegistry *prometheus.Registry
	MetricsServer      *http.Server
	AppMetrics         *telemetry.AppMetrics

	logger *zap.Logger
}

// NewContainer installs the global tracer and meter providers. Spans are
// exported over OTLP gRPC only when an endpoint is configured, and the
// Prometheus registry is served on MetricsPort unless it is empty.
func NewContainer(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Container, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.Telemetry.ServiceName),
		attribute.String("service.version", cfg.Telemetry.ServiceVersion),
		attribute.String("deployment.environment", cfg.Environment),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	appMetrics := telemetry.NewAppMetrics(registry)

	// OTel instruments (runtime, otelsql) are exported through the same registry.
	metricExporter, err := otelprometheus.New(otelprometheus.WithRegisterer(registry))

	if err != nil {
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(metricExporter),
	)
	otel.SetMeterProvider(meterProvider)

	traceOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	if cfg.Telemetry.OTLPEndpoint != "" {
		otlpExporter, err := otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpoint(cfg.Telemetry.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)

		if err != nil {
			return nil, err
		}

		traceOpts = append(traceOpts, sdktrace.WithBatcher(otlpExporter,
			sdktrace.WithBatchTimeout(1*time.Second),
		))
	}

	tracerProvider := sdktrace.NewTracerProvider(traceOpts...)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	err = runtime.Start(
		runtime.WithMeterProvider(meterProvider),
		runtime.WithMinimumReadMemStatsInterval(time.Second),
	)

	if err != nil {
		return nil, err
	}

	container := &Container{
		TracerProvider:     tracerProvider,
		MeterProvider:      meterProvider,
		PrometheusRegistry: registry,
		AppMetrics:         appMetrics,
		logger:             logger,
	}

	if cfg.Telemetry.MetricsPort != "" {
		container.MetricsServer = container.startMetricsServer(cfg.Telemetry.MetricsPort)
	}

	return container, nil
}

func (c *Container) startMetricsServer(port string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.PrometheusRegistry, promhttp.HandlerOpts{}))

	metricsServer := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Error("Failed to start metrics server", zap.Error(err))
		}
	}()

	return metricsServer
}

func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	if err := c.TracerProvider.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}

	if err := c.MeterProvider.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}

	if c.MetricsServer != nil {
		if err := c.MetricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
