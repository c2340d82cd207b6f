// Package app 은 설정을 받아 정답 판정 서비스의 구성 요소를 조립한다.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/park285/llm-kakao-bots/answer-check-go/internal/answer"
	checkerhttp "github.com/park285/llm-kakao-bots/answer-check-go/internal/checker/httpapi"
	checkermq "github.com/park285/llm-kakao-bots/answer-check-go/internal/checker/mq"
	checkerredis "github.com/park285/llm-kakao-bots/answer-check-go/internal/checker/redis"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/checker/service"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/bootstrap"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/dbutil"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/health"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/httpserver"
	commonmq "github.com/park285/llm-kakao-bots/answer-check-go/internal/common/mq"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/telemetry"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/valkeyx"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/config"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/lexicon"
)

const shutdownTimeout = 10 * time.Second

func noop() {}

func newTelemetryProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*telemetry.Provider, func(), error) {
	provider, err := telemetry.NewProvider(ctx, cfg.Telemetry, health.Version())
	if err != nil {
		return nil, nil, fmt.Errorf("init telemetry failed: %w", err)
	}
	if provider.Enabled() {
		logger.Info("telemetry_enabled",
			"endpoint", cfg.Telemetry.OTLPEndpoint,
			"sample_rate", cfg.Telemetry.SampleRate,
		)
	}
	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry_shutdown_failed", "err", err)
		}
	}
	return provider, cleanup, nil
}

// newAnswerSetCache: 공유 캐시가 꺼져 있으면 (nil, noop) 을 반환한다.
func newAnswerSetCache(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*checkerredis.AnswerSetStore, func(), error) {
	if !cfg.Cache.RemoteEnabled {
		logger.Info("answer_set_remote_cache_disabled")
		return nil, noop, nil
	}
	client, closeFn, err := bootstrap.OpenValkey(ctx, "valkey", bootstrap.DataValkeyConfig(cfg.Redis), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init valkey failed: %w", err)
	}
	health.Register("valkey", func(ctx context.Context) error {
		return valkeyx.Ping(ctx, client)
	})
	return checkerredis.NewAnswerSetStore(client, cfg.Cache.RemoteTTL, logger), closeFn, nil
}

// newLexiconRepository: 어휘 DB 가 비활성화면 (nil, noop) 을 반환한다.
func newLexiconRepository(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*lexicon.Repository, func(), error) {
	if !cfg.Database.Enabled() {
		logger.Info("lexicon_db_disabled")
		return nil, noop, nil
	}
	db, err := dbutil.Open(ctx, cfg.Database, dbutil.DefaultRetryConfig(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open lexicon db failed: %w", err)
	}
	closeFn := func() {
		if closeErr := dbutil.Close(db); closeErr != nil {
			logger.Warn("lexicon_db_close_failed", "err", closeErr)
		}
	}

	repo := lexicon.New(db)
	if cfg.Database.AutoMigrate {
		if err := repo.AutoMigrate(ctx); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("auto migrate failed: %w", err)
		}
	}
	health.Register("lexicon_db", func(ctx context.Context) error {
		return pingDB(ctx, db)
	})
	logger.Info("lexicon_db_connected", "driver", cfg.Database.Driver)
	return repo, closeFn, nil
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db failed: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping failed: %w", err)
	}
	return nil
}

func newCheckerService(
	ctx context.Context,
	cfg *config.Config,
	repo *lexicon.Repository,
	remote *checkerredis.AnswerSetStore,
	logger *slog.Logger,
) (*service.Service, error) {
	base, err := answer.DefaultTables()
	if err != nil {
		return nil, fmt.Errorf("load default tables failed: %w", err)
	}

	// nil 포인터를 인터페이스에 담지 않는다
	var overrides service.TableSource
	if repo != nil {
		overrides = repo
	}
	var cache service.AnswerSetCache
	if remote != nil {
		cache = remote
	}

	svc, err := service.New(ctx, base, overrides, cache, service.Options{
		LocalCacheEntries: cfg.Cache.LocalEntries,
		LocalCacheTTL:     cfg.Cache.LocalTTL,
		BatchConcurrency:  cfg.Cache.BatchConcurrency,
		RemoteTimeout:     cfg.Cache.RemoteTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init checker service failed: %w", err)
	}
	return svc, nil
}

func newHTTPHandler(
	cfg *config.Config,
	checker *service.Service,
	repo *lexicon.Repository,
	logger *slog.Logger,
) http.Handler {
	deps := checkerhttp.Deps{
		Checker:     checker,
		AdminAPIKey: cfg.Admin.APIKey,
		Logger:      logger,
	}
	if repo != nil {
		deps.Lexicon = repo
	}

	mux := http.NewServeMux()
	checkerhttp.Register(mux, deps)
	return checkerhttp.RateLimit(checkerhttp.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst), mux)
}

func newHTTPServer(cfg *config.Config, handler http.Handler, tracing bool, logger *slog.Logger) *http.Server {
	opts := httpserver.ServerOptions{
		UseH2C:            true,
		ReadHeaderTimeout: cfg.ServerTuning.ReadHeaderTimeout,
		IdleTimeout:       cfg.ServerTuning.IdleTimeout,
		MaxHeaderBytes:    cfg.ServerTuning.MaxHeaderBytes,
		Logger:            logger,
	}
	if tracing {
		opts.TraceOperation = config.ServiceName
	}
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	return httpserver.NewServer(addr, handler, opts)
}

type mqPipeline struct {
	consumer *commonmq.StreamConsumer
	handler  *checkermq.RequestHandler
}

// newMQPipeline: 스트림이 꺼져 있으면 (nil, noop) 을 반환한다.
func newMQPipeline(
	ctx context.Context,
	cfg *config.Config,
	checker *service.Service,
	logger *slog.Logger,
) (*mqPipeline, func(), error) {
	if !cfg.Valkey.Enabled {
		logger.Info("mq_disabled")
		return nil, noop, nil
	}
	client, closeFn, err := bootstrap.OpenValkey(ctx, "valkey_mq", bootstrap.MQValkeyConfig(cfg.Valkey), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init valkey mq failed: %w", err)
	}
	health.Register("valkey_mq", func(ctx context.Context) error {
		return valkeyx.Ping(ctx, client)
	})

	consumer := commonmq.NewStreamConsumer(client, logger, commonmq.StreamConsumerConfig{
		Stream:              cfg.Valkey.StreamKey,
		Group:               cfg.Valkey.ConsumerGroup,
		Name:                cfg.Valkey.ConsumerName,
		BatchSize:           cfg.Valkey.BatchSize,
		Block:               cfg.Valkey.BlockTimeout,
		Concurrency:         cfg.Valkey.Concurrency,
		ResetGroupOnStartup: cfg.Valkey.ResetConsumerGroupOnStartup,
		// 그룹이 처음 만들어질 때 이미 쌓여 있던 요청도 처리한다
		GroupStartFrom: "0",
		ClaimMinIdle:   cfg.Valkey.ClaimMinIdle,
	})
	replies := commonmq.NewStreamPublisher(client, logger, commonmq.StreamPublisherConfig{
		Stream: cfg.Valkey.ReplyStreamKey,
		MaxLen: cfg.Valkey.StreamMaxLen,
	})

	return &mqPipeline{
		consumer: consumer,
		handler:  checkermq.NewRequestHandler(checker, replies, logger),
	}, closeFn, nil
}

func newServerApp(logger *slog.Logger, server *http.Server, pipeline *mqPipeline) *bootstrap.ServerApp {
	var tasks []bootstrap.BackgroundTask
	if pipeline != nil {
		tasks = append(tasks, bootstrap.BackgroundTask{
			Name:        "mq_consumer",
			ErrorLogKey: "mq_consumer_failed",
			Run: func(ctx context.Context) error {
				return pipeline.consumer.Run(ctx, pipeline.handler.Handle)
			},
		})
	}
	return bootstrap.NewServerApp(config.ServiceName, logger, server, shutdownTimeout, tasks...)
}
