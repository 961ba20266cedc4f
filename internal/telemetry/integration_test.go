package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

const incomingTraceID = "4bf92f3577b34da6a3ce929d0e0e4736"

func installTestProvider(t *testing.T) (*sdktrace.TracerProvider, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(Propagator())
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, exporter
}

// A plan request's store span must hang off the incoming request span
func TestTraceContextPropagation(t *testing.T) {
	_, exporter := installTestProvider(t)

	r := mux.NewRouter()
	r.Use(otelmux.Middleware(ServiceName))
	r.HandleFunc("/api/v1/plans/{date}", func(w http.ResponseWriter, r *http.Request) {
		_, span := StartSpan(r.Context(), "store", "store.LoadPlan", "plan.date", mux.Vars(r)["date"])
		span.End()
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name        string
		traceParent string
	}{
		{name: "without existing trace ID"},
		{name: "with existing trace ID", traceParent: "00-" + incomingTraceID + "-00f067aa0ba902b7-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter.Reset()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/plans/2026-10-19", nil)
			if tt.traceParent != "" {
				req.Header.Set("traceparent", tt.traceParent)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			if rr.Code != http.StatusOK {
				t.Fatalf("Expected status OK, got %d", rr.Code)
			}

			spans := exporter.GetSpans()
			if len(spans) != 2 {
				t.Fatalf("Expected store and request spans, got %d", len(spans))
			}
			child, parent := spans[0], spans[1]
			if child.Parent.SpanID() != parent.SpanContext.SpanID() {
				t.Error("Expected the store span to be a child of the request span")
			}
			if tt.traceParent != "" && parent.SpanContext.TraceID().String() != incomingTraceID {
				t.Errorf("Expected incoming trace ID, got %s", parent.SpanContext.TraceID())
			}
		})
	}
}

// A reminder scheduled during a request is delivered by the worker in the same trace
func TestJobTraceRoundTrip(t *testing.T) {
	_, exporter := installTestProvider(t)

	if carrier := Inject(context.Background()); carrier != nil {
		t.Errorf("Expected nil carrier without a span, got %v", carrier)
	}

	ctx, producer := StartSpan(context.Background(), "reminder", "reminder.enqueue")
	carrier := Inject(ctx)
	producer.End()
	if carrier["traceparent"] == "" {
		t.Fatalf("Expected traceparent in carrier, got %v", carrier)
	}

	_, consumer := StartConsumerSpan(context.Background(), carrier, "worker", "reminder.deliver", "block.id", "exercise")
	consumer.End()

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("Expected 2 spans, got %d", len(spans))
	}
	p, c := spans[0], spans[1]
	if c.SpanContext.TraceID() != p.SpanContext.TraceID() {
		t.Error("Expected consumer span in the producer's trace")
	}
	if c.Parent.SpanID() != p.SpanContext.SpanID() {
		t.Error("Expected consumer span to be a child of the producer span")
	}
	if c.SpanKind != trace.SpanKindConsumer {
		t.Errorf("Expected consumer span kind, got %v", c.SpanKind)
	}

	if got := Extract(context.Background(), nil); trace.SpanContextFromContext(got).IsValid() {
		t.Error("Extract with empty carrier must not invent a span")
	}
}
