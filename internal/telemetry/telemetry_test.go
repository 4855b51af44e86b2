package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"izakaya-order/internal/config"
	"izakaya-order/internal/models"
)

func TestInit_StdoutExporter(t *testing.T) {
	tp, err := Init(context.Background(), "test-service", config.TelemetryConfig{Enabled: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := otel.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	assert.True(t, span.SpanContext().IsValid())
}

func TestInit_Disabled(t *testing.T) {
	tp, err := Init(context.Background(), "test-service", config.TelemetryConfig{})
	require.NoError(t, err)
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestMiddleware_StartsServerSpan(t *testing.T) {
	tp, err := Init(context.Background(), "test-service", config.TelemetryConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	var got trace.SpanContext
	h := Middleware("test-service")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = trace.SpanContextFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, got.IsValid())
}

func TestOrderMetrics_Record(t *testing.T) {
	m := NewOrderMetrics()
	assert.NotPanics(t, func() {
		m.RecordSubmitted(context.Background(), models.Order{TableID: "1", TotalAmount: 1200})
		m.RecordStatusChange(context.Background(), models.StatusPending, models.StatusServed)
	})
}
