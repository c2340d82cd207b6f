// Package config 는 정답 판정 서비스 전체 설정을 환경 변수에서 조립한다.
package config

import (
	"fmt"
	"time"

	commonconfig "github.com/park285/llm-kakao-bots/answer-check-go/internal/common/config"
)

// ServiceName: 로그 파일 이름과 OTel 서비스 이름 기본값
const ServiceName = "answercheck"

// CacheConfig: 정답 집합 캐시 설정
type CacheConfig struct {
	LocalEntries     int
	LocalTTL         time.Duration
	RemoteEnabled    bool // false 면 Valkey 공유 캐시를 쓰지 않는다
	RemoteTTL        time.Duration
	RemoteTimeout    time.Duration
	BatchConcurrency int
}

// AdminConfig: 관리자 API 설정
type AdminConfig struct {
	APIKey string // 비어 있으면 관리자 라우트 비활성화
}

// RateLimitConfig: HTTP 요청 속도 제한. RPS 가 0 이면 제한 없음.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Config: 전체 애플리케이션 설정 구조체
type Config struct {
	Server       commonconfig.ServerConfig
	ServerTuning commonconfig.ServerTuningConfig
	Redis        commonconfig.RedisConfig
	Valkey       commonconfig.ValkeyMQConfig
	Database     commonconfig.DatabaseConfig
	Cache        CacheConfig
	Admin        AdminConfig
	RateLimit    RateLimitConfig
	Log          commonconfig.LogConfig
	Telemetry    commonconfig.TelemetryConfig
}

// LoadFromEnv: 환경 변수로부터 전체 애플리케이션 설정을 로드합니다.
func LoadFromEnv() (*Config, error) {
	server, err := commonconfig.ReadServerConfigFromEnv(commonconfig.DefaultServerPort)
	if err != nil {
		return nil, fmt.Errorf("read server config: %w", err)
	}
	serverTuning, err := commonconfig.ReadServerTuningConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read server tuning config: %w", err)
	}
	redisCfg, err := commonconfig.ReadRedisConfigFromEnv(commonconfig.RedisConfigEnvOptions{
		HostKeys:     []string{"CACHE_HOST", "REDIS_HOST"},
		PortKeys:     []string{"CACHE_PORT", "REDIS_PORT"},
		PasswordKeys: []string{"CACHE_PASSWORD", "REDIS_PASSWORD"},
		DefaultHost:  "localhost",
		DefaultPort:  6379,
	})
	if err != nil {
		return nil, fmt.Errorf("read redis config: %w", err)
	}
	valkey, err := commonconfig.ReadValkeyMQConfigFromEnv(redisCfg)
	if err != nil {
		return nil, fmt.Errorf("read valkey mq config: %w", err)
	}
	database, err := commonconfig.ReadDatabaseConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read database config: %w", err)
	}
	cache, err := readCacheConfig()
	if err != nil {
		return nil, err
	}
	rateLimit, err := readRateLimitConfig()
	if err != nil {
		return nil, err
	}
	logCfg, err := commonconfig.ReadLogConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read log config: %w", err)
	}
	telemetry, err := commonconfig.ReadTelemetryConfigFromEnv(ServiceName)
	if err != nil {
		return nil, fmt.Errorf("read telemetry config: %w", err)
	}

	return &Config{
		Server:       server,
		ServerTuning: serverTuning,
		Redis:        redisCfg,
		Valkey:       valkey,
		Database:     database,
		Cache:        cache,
		Admin:        AdminConfig{APIKey: commonconfig.StringFromEnv("ADMIN_API_KEY", "")},
		RateLimit:    rateLimit,
		Log:          logCfg,
		Telemetry:    telemetry,
	}, nil
}

func readCacheConfig() (CacheConfig, error) {
	entries, err := commonconfig.IntFromEnv("ANSWER_CACHE_LOCAL_ENTRIES", commonconfig.DefaultLocalCacheEntries)
	if err != nil {
		return CacheConfig{}, fmt.Errorf("read ANSWER_CACHE_LOCAL_ENTRIES failed: %w", err)
	}
	localTTL, err := commonconfig.DurationSecondsFromEnv("ANSWER_CACHE_LOCAL_TTL_SECONDS", commonconfig.DefaultLocalCacheTTLSeconds)
	if err != nil {
		return CacheConfig{}, fmt.Errorf("read ANSWER_CACHE_LOCAL_TTL_SECONDS failed: %w", err)
	}
	remoteEnabled, err := commonconfig.BoolFromEnv("ANSWER_CACHE_REMOTE_ENABLED", true)
	if err != nil {
		return CacheConfig{}, fmt.Errorf("read ANSWER_CACHE_REMOTE_ENABLED failed: %w", err)
	}
	remoteTTL, err := commonconfig.DurationSecondsFromEnv("ANSWER_CACHE_REMOTE_TTL_SECONDS", commonconfig.DefaultRemoteCacheTTLSeconds)
	if err != nil {
		return CacheConfig{}, fmt.Errorf("read ANSWER_CACHE_REMOTE_TTL_SECONDS failed: %w", err)
	}
	remoteTimeout, err := commonconfig.DurationMillisFromEnv("ANSWER_CACHE_REMOTE_TIMEOUT_MS", 1000)
	if err != nil {
		return CacheConfig{}, fmt.Errorf("read ANSWER_CACHE_REMOTE_TIMEOUT_MS failed: %w", err)
	}
	concurrency, err := commonconfig.IntFromEnv("BATCH_CONCURRENCY", 8)
	if err != nil {
		return CacheConfig{}, fmt.Errorf("read BATCH_CONCURRENCY failed: %w", err)
	}

	return CacheConfig{
		LocalEntries:     entries,
		LocalTTL:         localTTL,
		RemoteEnabled:    remoteEnabled,
		RemoteTTL:        remoteTTL,
		RemoteTimeout:    remoteTimeout,
		BatchConcurrency: concurrency,
	}, nil
}

func readRateLimitConfig() (RateLimitConfig, error) {
	rps, err := commonconfig.Float64FromEnv("HTTP_RATE_LIMIT_RPS", 0)
	if err != nil {
		return RateLimitConfig{}, fmt.Errorf("read HTTP_RATE_LIMIT_RPS failed: %w", err)
	}
	if rps < 0 {
		return RateLimitConfig{}, fmt.Errorf("HTTP_RATE_LIMIT_RPS must be >= 0: %v", rps)
	}
	burst, err := commonconfig.IntFromEnv("HTTP_RATE_LIMIT_BURST", 0)
	if err != nil {
		return RateLimitConfig{}, fmt.Errorf("read HTTP_RATE_LIMIT_BURST failed: %w", err)
	}
	return RateLimitConfig{RPS: rps, Burst: burst}, nil
}
