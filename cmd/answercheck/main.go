package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/park285/llm-kakao-bots/answer-check-go/internal/app"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/bootstrap"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/health"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/config"
)

// Version: 빌드 시 ldflags로 주입됨 (예: -ldflags="-X main.Version=1.0.0")
var Version = "dev"

func main() {
	health.Init(Version)

	logger := bootstrap.NewLogger()
	slog.SetDefault(logger)

	finalLogger, err := bootstrap.RunEntrypoint(
		context.Background(),
		logger,
		config.ServiceName+".log",
		config.LoadFromEnv,
		func(cfg *config.Config) bootstrap.LogSetup {
			return bootstrap.LogSetup{Config: cfg.Log, OTelCorrelation: cfg.Telemetry.Enabled}
		},
		app.Initialize,
	)
	if err != nil {
		logger = finalLogger
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}
