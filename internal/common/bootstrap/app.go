package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/httpserver"
)

// BackgroundTask: 서버와 같은 수명으로 실행되는 작업 (스트림 소비자 등)
type BackgroundTask struct {
	Name        string
	ErrorLogKey string // 비어 있으면 background_task_failed
	Run         func(ctx context.Context) error
}

// ServerApp: HTTP 서버와 백그라운드 작업을 하나의 수명으로 묶는다.
type ServerApp struct {
	Name            string
	Logger          *slog.Logger
	Server          *http.Server
	ShutdownTimeout time.Duration
	BackgroundTasks []BackgroundTask
}

// NewServerApp: 새로운 ServerApp 인스턴스를 생성합니다.
func NewServerApp(
	name string,
	logger *slog.Logger,
	server *http.Server,
	shutdownTimeout time.Duration,
	backgroundTasks ...BackgroundTask,
) *ServerApp {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServerApp{
		Name:            name,
		Logger:          logger,
		Server:          server,
		ShutdownTimeout: shutdownTimeout,
		BackgroundTasks: backgroundTasks,
	}
}

// Run: SIGINT/SIGTERM, ctx 종료, 작업 실패 중 먼저 오는 것까지 실행한다.
// 하나라도 실패하면 나머지를 취소하고 첫 에러를 반환한다.
func (a *ServerApp) Run(ctx context.Context) error {
	if a == nil {
		return nil
	}
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(signalCtx)

	for _, task := range a.BackgroundTasks {
		if task.Run == nil {
			continue
		}
		g.Go(func() error {
			return runTask(gctx, logger, task)
		})
	}

	if a.Server != nil {
		logger.Info("server_start", "service", a.Name, "addr", a.Server.Addr)
		g.Go(func() error {
			if err := httpserver.Serve(gctx, a.Server, a.ShutdownTimeout); err != nil {
				return fmt.Errorf("http server serve failed: %w", err)
			}
			return nil
		})
	}

	err := g.Wait()
	logger.Info("server_stopped", "service", a.Name, "err", err)
	if err != nil {
		return fmt.Errorf("run %s failed: %w", a.Name, err)
	}
	return nil
}

func runTask(ctx context.Context, logger *slog.Logger, task BackgroundTask) error {
	logger.Debug("background_task_started", "task", task.Name)
	if err := task.Run(ctx); err != nil {
		key := task.ErrorLogKey
		if key == "" {
			key = "background_task_failed"
		}
		logger.Error(key, "task", task.Name, "err", err)
		return fmt.Errorf("%s failed: %w", task.Name, err)
	}
	return nil
}
