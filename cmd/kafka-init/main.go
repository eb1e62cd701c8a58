package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	config "github.com/NordCoder/sessiongate/internal/config/session-gateway"
	"github.com/NordCoder/sessiongate/internal/obs"
	"github.com/NordCoder/sessiongate/internal/repository/kafka"
)

// kafka-init creates the session events topic before the gateway starts.
func main() {
	cfgPath := flag.String("config", "config/session-gateway.yaml", "config file")
	partitions := flag.Int("partitions", 3, "topic partitions")
	rf := flag.Int("rf", 1, "replication factor")
	flag.Parse()
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		*cfgPath = p
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	logger, err := obs.NewLogger(cfg.LogConfig())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	err = kafka.EnsureTopic(ctx, cfg.Events.Brokers, kafka.TopicSpec{
		Name:              cfg.Events.Topic,
		NumPartitions:     *partitions,
		ReplicationFactor: *rf,
		MaxWait:           30 * time.Second,
	}, logger)
	if err != nil {
		logger.Fatal("ensure topic", zap.String("topic", cfg.Events.Topic), zap.Error(err))
	}
	logger.Info("kafka-init ok", zap.String("topic", cfg.Events.Topic))
}
