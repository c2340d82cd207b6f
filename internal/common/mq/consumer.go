package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sourcegraph/conc/pool"
	"github.com/valkey-io/valkey-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/telemetry"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/valkeyx"
)

// StreamConsumerConfig: 스트림 소비자 설정 구조체
type StreamConsumerConfig struct {
	Stream string
	Group  string
	Name   string

	BatchSize   int64
	Block       time.Duration
	Concurrency int

	ResetGroupOnStartup bool
	// AckOnError: 핸들러가 에러를 반환해도 ACK 할지 여부. false 면 PEL 에 남는다.
	AckOnError bool

	AckMaxRetries  int
	AckRetryDelay  time.Duration
	GroupStartFrom string

	// 읽기 실패 시 지수 백오프
	BackoffInitial time.Duration
	BackoffMax     time.Duration
	BackoffFactor  float64

	// ClaimMinIdle 이상 ACK 되지 않은 PEL 메시지를 ClaimInterval 마다 XAUTOCLAIM 으로 다시 가져온다
	ClaimMinIdle  time.Duration
	ClaimInterval time.Duration
}

// XMessage: 스트림에서 읽어온 메시지
type XMessage struct {
	ID     string
	Values map[string]string
}

// Handler: 메시지 하나를 처리한다. 반환된 에러는 로그와 span 에 기록된다.
type Handler func(ctx context.Context, msg XMessage) error

// StreamConsumer: Consumer Group 으로 스트림 메시지를 동시 처리하는 소비자
type StreamConsumer struct {
	client valkey.Client
	logger *slog.Logger
	cfg    StreamConsumerConfig
}

// NewStreamConsumer: 새로운 StreamConsumer 인스턴스를 생성합니다.
func NewStreamConsumer(client valkey.Client, logger *slog.Logger, cfg StreamConsumerConfig) *StreamConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamConsumer{client: client, logger: logger, cfg: cfg}
}

// Run: ctx 가 끝날 때까지 메시지를 읽어 handler 로 넘긴다. 진행 중인 핸들러는 기다린 뒤 반환한다.
func (c *StreamConsumer) Run(ctx context.Context, handler Handler) error {
	cfg, err := c.normalizedConfig()
	if err != nil {
		return err
	}
	if err := c.prepareGroup(ctx, cfg); err != nil {
		return err
	}

	workers := pool.New().WithMaxGoroutines(cfg.Concurrency)
	defer workers.Wait()

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = cfg.BackoffInitial
	retry.MaxInterval = cfg.BackoffMax
	retry.Multiplier = cfg.BackoffFactor
	retry.MaxElapsedTime = 0
	retry.Reset()

	var inflight sync.Map
	dispatch := func(msg XMessage) {
		// 아직 처리 중인 메시지를 재수거로 두 번 넘기지 않는다
		if _, busy := inflight.LoadOrStore(msg.ID, struct{}{}); busy {
			return
		}
		// 최대 동시성에 도달하면 Go 가 블로킹되어 읽기 속도를 조절한다
		workers.Go(func() {
			defer inflight.Delete(msg.ID)
			c.handleMessage(ctx, cfg, msg, handler)
		})
	}

	c.logger.Info("stream_consumer_started",
		slog.String("stream", cfg.Stream),
		slog.String("group", cfg.Group),
		slog.String("consumer", cfg.Name),
		slog.Int("concurrency", cfg.Concurrency),
	)

	var nextClaim time.Time
	for {
		if ctx.Err() != nil {
			return nil
		}

		if now := time.Now(); !now.Before(nextClaim) {
			nextClaim = now.Add(cfg.ClaimInterval)
			claimed, claimErr := c.claimStale(ctx, cfg)
			if claimErr != nil && ctx.Err() == nil && !isNoGroupOrNoStream(claimErr) {
				c.logger.Warn("xautoclaim_failed", "err", claimErr, "stream", cfg.Stream, "group", cfg.Group)
			}
			if len(claimed) > 0 {
				c.logger.Info("pending_messages_reclaimed", "stream", cfg.Stream, "count", len(claimed))
			}
			for _, msg := range claimed {
				dispatch(msg)
			}
		}

		messages, err := c.readBatch(ctx, cfg)
		if err != nil {
			if valkeyx.IsNil(err) || (errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil) {
				retry.Reset()
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			if isNoGroupOrNoStream(err) {
				if recreateErr := c.ensureGroup(ctx, cfg); recreateErr == nil {
					c.logger.Info("consumer_group_recreated", "stream", cfg.Stream, "group", cfg.Group)
					retry.Reset()
					continue
				}
			}

			wait := retry.NextBackOff()
			c.logger.Warn("xreadgroup_failed", "err", err, "stream", cfg.Stream, "group", cfg.Group, "retry_in", wait)
			if !sleepWithContext(ctx, wait) {
				return nil
			}
			continue
		}
		retry.Reset()

		for _, msg := range messages {
			if ctx.Err() != nil {
				return nil
			}
			dispatch(msg)
		}
	}
}

func (c *StreamConsumer) prepareGroup(ctx context.Context, cfg StreamConsumerConfig) error {
	if cfg.ResetGroupOnStartup {
		destroy := c.client.B().XgroupDestroy().Key(cfg.Stream).Group(cfg.Group).Build()
		if err := c.client.Do(ctx, destroy).Error(); err != nil && !isNoGroupOrNoStream(err) {
			return fmt.Errorf("xgroup destroy failed stream=%s group=%s: %w", cfg.Stream, cfg.Group, err)
		}
	}
	return c.ensureGroup(ctx, cfg)
}

func (c *StreamConsumer) ensureGroup(ctx context.Context, cfg StreamConsumerConfig) error {
	create := c.client.B().XgroupCreate().Key(cfg.Stream).Group(cfg.Group).Id(cfg.GroupStartFrom).Mkstream().Build()
	if err := c.client.Do(ctx, create).Error(); err != nil && !valkeyx.IsBusyGroup(err) {
		return fmt.Errorf("xgroup create failed stream=%s group=%s: %w", cfg.Stream, cfg.Group, err)
	}
	return nil
}

func (c *StreamConsumer) readBatch(ctx context.Context, cfg StreamConsumerConfig) ([]XMessage, error) {
	cmd := c.client.B().Xreadgroup().
		Group(cfg.Group, cfg.Name).
		Count(cfg.BatchSize).
		Block(cfg.Block.Milliseconds()).
		Streams().Key(cfg.Stream).Id(">").
		Build()

	result, err := c.client.Do(ctx, cmd).AsXRead()
	if err != nil {
		return nil, fmt.Errorf("xreadgroup failed: %w", err)
	}

	entries := result[cfg.Stream]
	messages := make([]XMessage, 0, len(entries))
	for _, entry := range entries {
		messages = append(messages, XMessage{ID: entry.ID, Values: entry.FieldValues})
	}
	return messages, nil
}

// claimStale: ClaimMinIdle 동안 방치된 PEL 메시지를 이 소비자로 가져온다. 한 번에 최대 BatchSize*10 개까지만 훑는다.
func (c *StreamConsumer) claimStale(ctx context.Context, cfg StreamConsumerConfig) ([]XMessage, error) {
	minIdle := strconv.FormatInt(cfg.ClaimMinIdle.Milliseconds(), 10)
	cursor := "0-0"
	var claimed []XMessage
	for range 10 {
		cmd := c.client.B().Xautoclaim().
			Key(cfg.Stream).
			Group(cfg.Group).
			Consumer(cfg.Name).
			MinIdleTime(minIdle).
			Start(cursor).
			Count(cfg.BatchSize).
			Build()

		reply, err := c.client.Do(ctx, cmd).ToArray()
		if err != nil {
			return claimed, fmt.Errorf("xautoclaim failed: %w", err)
		}
		if len(reply) < 2 {
			return claimed, fmt.Errorf("xautoclaim unexpected reply length %d", len(reply))
		}
		next, err := reply[0].ToString()
		if err != nil {
			return claimed, fmt.Errorf("xautoclaim cursor: %w", err)
		}
		entries, err := reply[1].AsXRange()
		if err != nil {
			return claimed, fmt.Errorf("xautoclaim entries: %w", err)
		}
		for _, entry := range entries {
			// 스트림에서 지워진 항목은 ID 만 남고 값이 없다
			if entry.ID == "" || entry.FieldValues == nil {
				continue
			}
			claimed = append(claimed, XMessage{ID: entry.ID, Values: entry.FieldValues})
		}
		if next == "0-0" {
			break
		}
		cursor = next
	}
	return claimed, nil
}

func (c *StreamConsumer) handleMessage(ctx context.Context, cfg StreamConsumerConfig, msg XMessage, handler Handler) {
	// 종료 신호 이후에도 이미 읽은 메시지는 처리와 ACK 를 마친다
	parentCtx := telemetry.ExtractContext(context.WithoutCancel(ctx), telemetry.MapCarrier(msg.Values))
	spanCtx, span := telemetry.Tracer().Start(parentCtx, "valkey.consume "+cfg.Stream,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "valkey"),
			attribute.String("messaging.destination.name", cfg.Stream),
			attribute.String("messaging.message.id", msg.ID),
			attribute.String("messaging.consumer.group.name", cfg.Group),
		),
	)
	defer span.End()

	if err := handler(spanCtx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.ErrorContext(spanCtx, "message_handler_failed", "err", err, "stream", cfg.Stream, "id", msg.ID)
		if !cfg.AckOnError {
			return
		}
	}

	if err := c.ackWithRetry(spanCtx, cfg, msg.ID); err != nil {
		c.logger.WarnContext(spanCtx, "xack_failed", "err", err, "stream", cfg.Stream, "id", msg.ID)
	}
}

func (c *StreamConsumer) ackWithRetry(ctx context.Context, cfg StreamConsumerConfig, id string) error {
	var lastErr error
	for attempt := 0; attempt < cfg.AckMaxRetries; attempt++ {
		if attempt > 0 && !sleepWithContext(ctx, cfg.AckRetryDelay) {
			return ctx.Err()
		}
		cmd := c.client.B().Xack().Key(cfg.Stream).Group(cfg.Group).Id(id).Build()
		if lastErr = c.client.Do(ctx, cmd).Error(); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("xack failed after %d attempts: %w", cfg.AckMaxRetries, lastErr)
}

func (c *StreamConsumer) normalizedConfig() (StreamConsumerConfig, error) {
	cfg := c.cfg
	cfg.Stream = strings.TrimSpace(cfg.Stream)
	cfg.Group = strings.TrimSpace(cfg.Group)
	cfg.Name = strings.TrimSpace(cfg.Name)
	if cfg.Stream == "" || cfg.Group == "" || cfg.Name == "" {
		return StreamConsumerConfig{}, errors.New("stream/group/name must be set")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.Block <= 0 {
		cfg.Block = 5 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 10
	}
	if cfg.AckMaxRetries <= 0 {
		cfg.AckMaxRetries = 3
	}
	if cfg.AckRetryDelay <= 0 {
		cfg.AckRetryDelay = 100 * time.Millisecond
	}
	if strings.TrimSpace(cfg.GroupStartFrom) == "" {
		cfg.GroupStartFrom = "$"
	}
	if cfg.BackoffInitial <= 0 {
		cfg.BackoffInitial = time.Second
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = 30 * time.Second
	}
	if cfg.BackoffFactor <= 1 {
		cfg.BackoffFactor = 2.0
	}
	if cfg.ClaimMinIdle <= 0 {
		cfg.ClaimMinIdle = 30 * time.Second
	}
	if cfg.ClaimInterval <= 0 {
		cfg.ClaimInterval = cfg.ClaimMinIdle
	}
	return cfg, nil
}

func isNoGroupOrNoStream(err error) bool {
	if err == nil {
		return false
	}
	if valkeyx.IsNoGroup(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such key") || strings.Contains(msg, "requires the key to exist")
}

// sleepWithContext: 정상 대기 완료 시 true, ctx 취소 시 false
func sleepWithContext(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
