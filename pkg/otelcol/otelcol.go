package otelcol

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reward-platform/pkg/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("otelcol", fx.Invoke(Setup))

const exporterTimeout = 10 * time.Second

func Resource(cfg *config.Config) (*resource.Resource, error) {
	return resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", cfg.AppName),
		attribute.String("service.version", cfg.AppVersion),
		attribute.String("deployment.environment", cfg.AppEnv),
	))
}

// NewExporter builds the OTLP span exporter selected by OTEL.PROTOCOL.
func NewExporter(ctx context.Context, cfg *config.Config) (*otlptrace.Exporter, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterTimeout)
	defer cancel()

	switch strings.ToLower(cfg.Otel.Protocol) {
	case "grpc":
		opts := []otlptracegrpc.Option{otlptracegrpc.WithCompressor("gzip")}
		if cfg.Otel.Endpoint != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(cfg.Otel.Endpoint))
		}
		if cfg.Otel.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptrace.New(ctx, otlptracegrpc.NewClient(opts...))
	case "", "http":
		opts := []otlptracehttp.Option{otlptracehttp.WithCompression(otlptracehttp.GzipCompression)}
		if cfg.Otel.Endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(cfg.Otel.Endpoint))
		}
		if cfg.Otel.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	default:
		return nil, fmt.Errorf("unsupported OTEL.PROTOCOL %q", cfg.Otel.Protocol)
	}
}

func ProvideTrace(exporter trace.SpanExporter, opts ...trace.TracerProviderOption) *trace.TracerProvider {
	if len(opts) == 0 {
		opts = []trace.TracerProviderOption{trace.WithResource(resource.Default())}
	}

	opts = append(opts, trace.WithBatcher(exporter))

	return trace.NewTracerProvider(opts...)
}

// Setup installs the global tracer provider and W3C propagation when
// OTEL.ENABLE is set.
func Setup(lc fx.Lifecycle, cfg *config.Config) error {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Otel.Enable {
		return nil
	}

	exporter, err := NewExporter(context.Background(), cfg)
	if err != nil {
		return err
	}
	res, err := Resource(cfg)
	if err != nil {
		return err
	}

	tp := ProvideTrace(exporter, trace.WithResource(res))
	otel.SetTracerProvider(tp)
	zap.L().Info("tracing enabled",
		zap.String("protocol", cfg.Otel.Protocol),
		zap.String("endpoint", cfg.Otel.Endpoint),
	)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})
	return nil
}
