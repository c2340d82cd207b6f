package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/valkey-io/valkey-go"
)

// StreamPublisherConfig: 발행 대상 스트림과 근사 최대 길이 (0 이면 제한 없음)
type StreamPublisherConfig struct {
	Stream string
	MaxLen int64
}

// StreamPublisher: 스트림으로 메시지를 XADD 한다.
type StreamPublisher struct {
	client valkey.Client
	logger *slog.Logger
	cfg    StreamPublisherConfig
}

// NewStreamPublisher: 새로운 StreamPublisher 인스턴스를 생성한다.
func NewStreamPublisher(client valkey.Client, logger *slog.Logger, cfg StreamPublisherConfig) *StreamPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamPublisher{client: client, logger: logger, cfg: cfg}
}

// Publish: 필드 맵을 XADD 로 발행하고 메시지 ID 를 반환한다. MAXLEN ~ 로 길이를 제한한다.
// 필드 순서는 키 이름순으로 고정된다.
func (p *StreamPublisher) Publish(ctx context.Context, values map[string]string) (string, error) {
	if len(values) == 0 {
		return "", errors.New("no values to publish")
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, len(values)*2+4)
	if p.cfg.MaxLen > 0 {
		args = append(args, "MAXLEN", "~", strconv.FormatInt(p.cfg.MaxLen, 10))
	}
	args = append(args, "*")
	for _, k := range keys {
		args = append(args, k, values[k])
	}

	cmd := p.client.B().Arbitrary("XADD").Keys(p.cfg.Stream).Args(args...).Build()
	id, err := p.client.Do(ctx, cmd).ToString()
	if err != nil {
		return "", fmt.Errorf("xadd failed stream=%s: %w", p.cfg.Stream, err)
	}

	p.logger.Debug("message_published", "stream", p.cfg.Stream, "id", id)
	return id, nil
}
