package api

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// clientMetrics counts gateway requests and retries. Counters are
// no-ops unless the host application installs a meter provider.
type clientMetrics struct {
	requests metric.Int64Counter
	retries  metric.Int64Counter
}

func newClientMetrics() *clientMetrics {
	meter := otel.Meter("github.com/vibeflo/vibeflo-go/internal/api")

	requests, _ := meter.Int64Counter("vibeflo.client.requests",
		metric.WithDescription("Gateway requests issued, by method and status"))
	retries, _ := meter.Int64Counter("vibeflo.client.retries",
		metric.WithDescription("Backoff retries performed, by operation"))

	return &clientMetrics{requests: requests, retries: retries}
}

func (m *clientMetrics) recordRequest(ctx context.Context, method string, status int) {
	if m == nil || m.requests == nil {
		return
	}
	m.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.Int("status", status),
	))
}

func (m *clientMetrics) recordRetry(ctx context.Context, operation string) {
	if m == nil || m.retries == nil {
		return
	}
	m.retries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}
