package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"

	commonconfig "github.com/park285/llm-kakao-bots/answer-check-go/internal/common/config"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/valkeyx"
)

const valkeyPingTimeout = 5 * time.Second

// DataValkeyConfig: 정답 집합 캐시 연결 설정. 읽기 위주라 클라이언트 캐싱을 켠다.
func DataValkeyConfig(cfg commonconfig.RedisConfig) valkeyx.Config {
	return valkeyx.Config{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// MQValkeyConfig: 요청/응답 스트림 연결 설정. 스트림은 캐싱 대상이 아니다.
func MQValkeyConfig(cfg commonconfig.ValkeyMQConfig) valkeyx.Config {
	return valkeyx.Config{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password:     cfg.Password,
		DialTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		DisableCache: true,
	}
}

// OpenValkey: 클라이언트를 만들고 PING 이 통과해야 반환한다. 실패하면 클라이언트를 닫는다.
func OpenValkey(
	ctx context.Context,
	name string,
	cfg valkeyx.Config,
	logger *slog.Logger,
) (valkey.Client, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := valkeyx.NewClient(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s client failed: %w", name, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, valkeyPingTimeout)
	defer cancel()
	if err := valkeyx.Ping(pingCtx, client); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("%s ping failed addr=%s: %w", name, cfg.Addr, err)
	}
	logger.Info("valkey_connected", "name", name, "addr", cfg.Addr, "client_cache", !cfg.DisableCache)

	closeFn := func() {
		client.Close()
		logger.Debug("valkey_client_closed", "name", name)
	}
	return client, closeFn, nil
}
