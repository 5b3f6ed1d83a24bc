// Package observability wires the process-wide tracer provider. Tracing is
// off unless OTEL_TRACES_EXPORTER selects a backend.
package observability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/avaraper/calily-backend/internal/pkg/logger"
	"github.com/avaraper/calily-backend/internal/utils"
)

// InitTracing sets the global tracer provider and returns a shutdown hook.
// Unknown or empty exporter selections leave the no-op global in place.
func InitTracing(ctx context.Context, log *logger.Logger) (func(context.Context) error, error) {
	mode := strings.ToLower(strings.TrimSpace(utils.GetEnv("OTEL_TRACES_EXPORTER", "none", log)))

	var exporter sdktrace.SpanExporter
	var err error
	switch mode {
	case "", "none":
		return func(context.Context) error { return nil }, nil
	case "otlp":
		exporter, err = otlptracehttp.New(ctx)
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		log.Warn("Unknown trace exporter, tracing disabled", "exporter", mode)
		return func(context.Context) error { return nil }, nil
	}
	if err != nil {
		return nil, fmt.Errorf("init trace exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceNameKey.String("calily-backend"),
	))
	if err != nil {
		return nil, fmt.Errorf("init trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info("Tracing initialized", "exporter", mode)
	return tp.Shutdown, nil
}
