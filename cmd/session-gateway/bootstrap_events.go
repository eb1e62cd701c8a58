package main

import (
	"context"

	config "github.com/NordCoder/sessiongate/internal/config/session-gateway"
	"github.com/NordCoder/sessiongate/internal/domain/session"
	"github.com/NordCoder/sessiongate/internal/obs/retry"
	"github.com/NordCoder/sessiongate/internal/outbox"
	"github.com/NordCoder/sessiongate/internal/repository/kafka"
	"go.uber.org/zap"
)

type eventsHandle struct {
	emitter  session.Emitter
	shutdown func(context.Context) error
}

func initEvents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*eventsHandle, error) {
	if !cfg.Events.Enable {
		return &eventsHandle{
			emitter:  session.NopEmitter{},
			shutdown: func(context.Context) error { return nil },
		}, nil
	}

	producer := kafka.BootstrapProducer(ctx, cfg.Events.Brokers, cfg.Events.Topic, logger)
	handler := outbox.Instrument(producer, retry.EventPolicy(logger, cfg.Events.Attempts))
	runner := outbox.NewRunner(logger, handler, cfg.Events.Workers, cfg.Events.Buffer, cfg.Events.PublishTimeout)
	// workers outlive the signal context so Shutdown can drain the queue
	runner.Start(context.WithoutCancel(ctx))

	logger.Info("session events enabled",
		zap.Strings("brokers", cfg.Events.Brokers),
		zap.String("topic", cfg.Events.Topic),
	)
	return &eventsHandle{
		emitter: runner,
		shutdown: func(ctx context.Context) error {
			err := runner.Shutdown(ctx)
			if cerr := producer.Close(); err == nil {
				err = cerr
			}
			return err
		},
	}, nil
}
