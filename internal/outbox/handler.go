package outbox

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"

	"github.com/NordCoder/sessiongate/internal/domain/session"
	"github.com/NordCoder/sessiongate/internal/obs/retry"
)

var (
	handlerLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outbox_handler_latency_seconds",
		Help:    "Latency of session event delivery including retries.",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})
	handlerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_handler_errors_total",
		Help: "Session events that failed delivery after retries.",
	}, []string{"type"})
)

// Handler delivers one event.
type Handler func(ctx context.Context, e session.Event) error

// Instrument wraps pub with retry, a span and latency/error metrics.
func Instrument(pub session.Publisher, pol retry.Policy) Handler {
	tr := otel.Tracer("outbox.handler")
	return func(ctx context.Context, e session.Event) error {
		ctx, span := tr.Start(ctx, "outbox.handle")
		defer span.End()

		start := time.Now()
		err := retry.Do(ctx, func() error { return pub.Publish(ctx, e) }, pol)
		handlerLatency.WithLabelValues(string(e.Type)).Observe(time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			handlerErrors.WithLabelValues(string(e.Type)).Inc()
		}
		return err
	}
}
