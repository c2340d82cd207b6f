package dbutil

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/gorm"
)

// RetryConfig: DB 연결 재시도 설정
type RetryConfig struct {
	MaxAttempts int           // 최대 시도 횟수 (기본: 5)
	BaseDelay   time.Duration // 초기 대기 시간 (기본: 2초)
	MaxDelay    time.Duration // 최대 대기 시간 (기본: 30초)
}

// DefaultRetryConfig: 기본 재시도 설정
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   2 * time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// OpenFunc: DB 연결을 시도하는 함수 타입
type OpenFunc func(ctx context.Context) (*gorm.DB, error)

// OpenWithRetry: 지수 백오프로 DB 연결을 재시도합니다.
// DB 컨테이너가 앱보다 늦게 올라오는 경우를 흡수한다.
func OpenWithRetry(ctx context.Context, openFn OpenFunc, cfg RetryConfig, logger *slog.Logger) (*gorm.DB, error) {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 2 * time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = cfg.BaseDelay
	policy.MaxInterval = cfg.MaxDelay
	policy.Multiplier = 2
	policy.RandomizationFactor = 0.2
	policy.MaxElapsedTime = 0

	attempt := 0
	var db *gorm.DB
	operation := func() error {
		attempt++
		opened, err := openFn(ctx)
		if err != nil {
			return err
		}
		db = opened
		return nil
	}
	notify := func(err error, delay time.Duration) {
		logger.Warn("db_connect_retry",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", delay),
			slog.Any("error", err),
		)
	}

	bounded := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(cfg.MaxAttempts-1)), ctx)
	if err := backoff.RetryNotify(operation, bounded, notify); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("db connect cancelled: %w", ctxErr)
		}
		return nil, fmt.Errorf("db connect failed after %d attempts: %w", attempt, err)
	}

	if attempt > 1 {
		logger.Info("db_connect_success_after_retry", slog.Int("attempts", attempt))
	}
	return db, nil
}
