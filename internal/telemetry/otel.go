// Package telemetry wires OpenTelemetry tracing for the server and worker,
// including trace context carried inside queued reminder jobs.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
	"go.opentelemetry.io/otel/trace"
)

// Service names for the two long-running processes
const (
	ServiceName       = "replan-api"
	WorkerServiceName = "replan-worker"
)

// InitTracer installs a global tracer provider exporting over OTLP/HTTP.
// An empty endpoint defers to the exporter's OTEL_EXPORTER_OTLP_* env handling.
func InitTracer(ctx context.Context, serviceName, version, endpoint string) (*sdktrace.TracerProvider, error) {
	var opts []otlptracehttp.Option
	if endpoint != "" {
		// collectors run as a sidecar in local and compose deployments
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	attrs := []attribute.KeyValue{semconv.ServiceName(serviceName)}
	if version != "" {
		attrs = append(attrs, semconv.ServiceVersion(version))
	}
	res, err := resource.New(ctx, resource.WithAttributes(attrs...))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(Propagator())
	return tp, nil
}

// Propagator is the W3C trace context plus baggage propagator used for HTTP and jobs
func Propagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// Shutdown flushes and stops the tracer provider
func Shutdown(ctx context.Context, tp *sdktrace.TracerProvider) error {
	if tp == nil {
		return nil
	}
	return tp.Shutdown(ctx)
}

// Tracer returns the named tracer from the global provider. It is a no-op
// tracer until InitTracer installs a provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer("github.com/benvon/replan/" + name)
}

// StartSpan starts a span on the named tracer with string attributes given as key/value pairs
func StartSpan(ctx context.Context, tracer, op string, kv ...string) (context.Context, trace.Span) {
	return Tracer(tracer).Start(ctx, op, trace.WithAttributes(stringAttrs(kv)...))
}

// StartConsumerSpan starts a consumer span linked to the trace carried in a job
func StartConsumerSpan(ctx context.Context, carrier map[string]string, tracer, op string, kv ...string) (context.Context, trace.Span) {
	ctx = Extract(ctx, carrier)
	return Tracer(tracer).Start(ctx, op,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(stringAttrs(kv)...),
	)
}

func stringAttrs(kv []string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, attribute.String(kv[i], kv[i+1]))
	}
	return attrs
}

// Inject returns the trace context of ctx as a string map, or nil when
// ctx carries no span.
func Inject(ctx context.Context) map[string]string {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	if len(carrier) == 0 {
		return nil
	}
	return carrier
}

// Extract restores a trace context captured by Inject
func Extract(ctx context.Context, carrier map[string]string) context.Context {
	if len(carrier) == 0 {
		return ctx
	}
	return otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(carrier))
}

// RecordError marks the span as failed when err is non-nil and returns err
func RecordError(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
