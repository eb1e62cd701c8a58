package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/NordCoder/sessiongate/internal/domain/session"
	"github.com/NordCoder/sessiongate/internal/obs"
)

var (
	mEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outbox_enqueued_total", Help: "Session events accepted into the queue.",
	})
	mDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outbox_dropped_total", Help: "Session events dropped because the queue was full or closed.",
	})
	mOk = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outbox_processed_ok_total", Help: "Session events delivered.",
	})
	mErr = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outbox_processed_err_total", Help: "Session events not delivered.",
	})
	mQueueLen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "outbox_queue_length", Help: "Session events waiting for delivery.",
	})
)

var _ session.Emitter = (*Runner)(nil)

type message struct {
	carrier propagation.MapCarrier
	event   session.Event
}

// Runner queues session events in memory and delivers them from a fixed
// worker pool. Emit never blocks; a full queue drops the event.
type Runner struct {
	log     *zap.Logger
	handle  Handler
	workers int
	timeout time.Duration

	mu     sync.RWMutex
	queue  chan message
	closed bool
	wg     sync.WaitGroup
}

func NewRunner(log *zap.Logger, handle Handler, workers, buffer int, timeout time.Duration) *Runner {
	if workers <= 0 {
		workers = 1
	}
	if buffer <= 0 {
		buffer = 1
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Runner{
		log:     obs.Component(log, "outbox"),
		handle:  handle,
		workers: workers,
		timeout: timeout,
		queue:   make(chan message, buffer),
	}
}

func (r *Runner) Emit(ctx context.Context, e session.Event) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		mDropped.Inc()
		return
	}
	select {
	case r.queue <- message{carrier: carrier, event: e}:
		mEnqueued.Inc()
		mQueueLen.Set(float64(len(r.queue)))
	default:
		mDropped.Inc()
		obs.WithTrace(ctx, r.log).Warn("session event dropped, queue full",
			zap.String("type", string(e.Type)))
	}
}

// Start launches the workers. They exit once Shutdown has drained the queue
// or ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(ctx)
	}
}

func (r *Runner) worker(ctx context.Context) {
	defer r.wg.Done()
	r.log.Debug("outbox worker started")

	tr := otel.Tracer("outbox.runner")
	prop := otel.GetTextMapPropagator()

	for {
		select {
		case <-ctx.Done():
			r.log.Debug("outbox worker stop", zap.Error(ctx.Err()))
			return
		case m, ok := <-r.queue:
			if !ok {
				return
			}
			mQueueLen.Set(float64(len(r.queue)))

			parent := prop.Extract(context.Background(), m.carrier)
			msgCtx, span := tr.Start(parent, "outbox.dispatch",
				trace.WithAttributes(
					attribute.String("event.type", string(m.event.Type)),
					attribute.Int64("event.subject_id", int64(m.event.SubjectID)),
				),
			)
			msgCtx, cancel := context.WithTimeout(msgCtx, r.timeout)

			if err := r.handle(msgCtx, m.event); err != nil {
				span.RecordError(err)
				mErr.Inc()
				obs.WithTrace(msgCtx, r.log).Error("session event delivery failed",
					zap.String("type", string(m.event.Type)), zap.Error(err))
			} else {
				mOk.Inc()
			}
			cancel()
			span.End()
		}
	}
}

// Shutdown stops accepting events and waits for queued ones to be delivered
// or for ctx to expire.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
