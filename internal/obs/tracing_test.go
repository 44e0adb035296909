package obs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpanRouteMiddlewareNamesSpanAfterRoute(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx, span := tp.Tracer("test").Start(req.Context(), "HTTP "+req.Method)
			defer span.End()
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Use(SpanRouteMiddleware)
	r.Get("/api/v1/carts/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/carts/42", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "GET /api/v1/carts/{id}", spans[0].Name())
	require.Contains(t, spans[0].Attributes(), attribute.String("http.route", "/api/v1/carts/{id}"))
}

func TestSpanRouteMiddlewareWithoutSpan(t *testing.T) {
	called := false
	handler := SpanRouteMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, called)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestInitTracerWithoutExporter(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := InitTracer(context.Background(), TracingConfig{
		ServiceName: "toko-pricing-test",
		Exporter:    ExporterNone,
		Environment: "test",
	})
	require.NoError(t, err)

	_, span := otel.Tracer("cart.Service").Start(context.Background(), "cart.calculate")
	require.True(t, span.IsRecording())
	span.End()
	require.NoError(t, shutdown(context.Background()))
}

func TestInitTracerRejectsUnknownExporter(t *testing.T) {
	_, err := InitTracer(context.Background(), TracingConfig{ServiceName: "x", Exporter: "zipkin"})
	require.ErrorContains(t, err, `unsupported tracing exporter "zipkin"`)
}

func TestSamplerFor(t *testing.T) {
	require.Contains(t, samplerFor(0).Description(), "AlwaysOnSampler")
	require.Contains(t, samplerFor(1.5).Description(), "AlwaysOnSampler")
	require.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased{0.25}")
}
