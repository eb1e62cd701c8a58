package main

import (
	config "github.com/NordCoder/sessiongate/internal/config/session-gateway"
	"github.com/NordCoder/sessiongate/internal/obs"
	"go.uber.org/zap"
)

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return obs.NewLogger(cfg.LogConfig())
}
