package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Provider owns the OpenTelemetry SDK lifecycle: exporters, the meter and
// tracer providers, and the Metrics instance handed to the rest of the server.
// A disabled provider is valid and turns every recording call into a no-op.
type Provider struct {
	config Config

	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	metrics        *Metrics
	promHandler    http.Handler
}

// NewProvider initializes instrumentation according to the given configuration.
// When config.Enabled is false it returns a no-op provider without touching
// any exporter.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	p := &Provider{config: config}

	if !config.Enabled {
		return p, nil
	}

	res, err := sdkresource.Merge(sdkresource.Default(), sdkresource.NewSchemaless(
		attribute.String("service.name", config.ServiceName),
		attribute.String("service.version", config.ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	reader, promHandler, err := newMetricReader(ctx, config)
	if err != nil {
		return nil, err
	}
	p.promHandler = promHandler
	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(p.meterProvider)

	meter := p.meterProvider.Meter(config.ServiceName)
	p.metrics, err = NewMetrics(meter)
	if err != nil {
		shutdownErr := p.meterProvider.Shutdown(ctx)
		return nil, errors.Join(err, shutdownErr)
	}

	if config.TracingExporter != "none" && config.TracingExporter != "" {
		p.tracerProvider, err = newTracerProvider(ctx, config, res)
		if err != nil {
			shutdownErr := p.meterProvider.Shutdown(ctx)
			return nil, errors.Join(err, shutdownErr)
		}
		otel.SetTracerProvider(p.tracerProvider)
	}

	return p, nil
}

// newMetricReader builds the configured metrics exporter. For the prometheus
// exporter it also returns the HTTP handler serving the scrape endpoint.
func newMetricReader(ctx context.Context, config Config) (sdkmetric.Reader, http.Handler, error) {
	switch config.MetricsExporter {
	case "prometheus", "":
		registry := prometheus.NewRegistry()
		exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
		return exporter, handler, nil

	case "otlp":
		opts := []otlpmetrichttp.Option{}
		if config.OTLPEndpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpointURL(config.OTLPEndpoint))
		}
		if config.OTLPInsecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		exporter, err := otlpmetrichttp.New(ctx, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exporter), nil, nil

	case "stdout":
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create stdout metrics exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exporter), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown metrics exporter %q (expected prometheus, otlp, or stdout)", config.MetricsExporter)
	}
}

// newTracerProvider builds the configured tracing exporter and provider.
func newTracerProvider(ctx context.Context, config Config, res *sdkresource.Resource) (*sdktrace.TracerProvider, error) {
	var exporter sdktrace.SpanExporter
	var err error

	switch config.TracingExporter {
	case "otlp":
		opts := []otlptracehttp.Option{}
		if config.OTLPEndpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpointURL(config.OTLPEndpoint))
		}
		if config.OTLPInsecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exporter, err = otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}

	case "stdout":
		exporter, err = stdouttrace.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}

	default:
		return nil, fmt.Errorf("unknown tracing exporter %q (expected otlp, stdout, or none)", config.TracingExporter)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.TraceSamplingRate))),
	), nil
}

// Enabled reports whether instrumentation is active.
func (p *Provider) Enabled() bool {
	return p != nil && p.config.Enabled
}

// Metrics returns the Metrics instance, or nil when instrumentation is
// disabled. All Metrics methods are nil-receiver safe.
func (p *Provider) Metrics() *Metrics {
	if p == nil {
		return nil
	}
	return p.metrics
}

// PrometheusHandler returns the scrape handler when the prometheus exporter
// is configured, or nil otherwise.
func (p *Provider) PrometheusHandler() http.Handler {
	if p == nil {
		return nil
	}
	return p.promHandler
}

// Shutdown flushes and stops all exporters.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}

	var errs []error
	if p.tracerProvider != nil {
		if err := p.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}
