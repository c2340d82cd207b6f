package app

import (
	"context"
	"log/slog"

	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/bootstrap"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/config"
)

// Initialize 는 정답 판정 서비스 의존성을 초기화하고 ServerApp 을 반환한다.
func Initialize(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*bootstrap.ServerApp, func(), error) {
	tracing, cleanupTracing, err := newTelemetryProvider(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	remoteCache, cleanupDataValkey, err := newAnswerSetCache(ctx, cfg, logger)
	if err != nil {
		cleanupTracing()
		return nil, nil, err
	}

	repo, cleanupDB, err := newLexiconRepository(ctx, cfg, logger)
	if err != nil {
		cleanupDataValkey()
		cleanupTracing()
		return nil, nil, err
	}

	checker, err := newCheckerService(ctx, cfg, repo, remoteCache, logger)
	if err != nil {
		cleanupDB()
		cleanupDataValkey()
		cleanupTracing()
		return nil, nil, err
	}

	httpServer := newHTTPServer(cfg, newHTTPHandler(cfg, checker, repo, logger), tracing.Enabled(), logger)

	mqPipeline, cleanupMQValkey, err := newMQPipeline(ctx, cfg, checker, logger)
	if err != nil {
		cleanupDB()
		cleanupDataValkey()
		cleanupTracing()
		return nil, nil, err
	}

	serverApp := newServerApp(logger, httpServer, mqPipeline)

	cleanup := func() {
		cleanupMQValkey()
		cleanupDB()
		cleanupDataValkey()
		cleanupTracing()
	}

	return serverApp, cleanup, nil
}
