package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// ReadServerConfigFromEnv: HTTP 서버 호스트와 포트 설정을 환경 변수에서 읽어옵니다.
func ReadServerConfigFromEnv(defaultPort int) (ServerConfig, error) {
	serverPort, err := IntFromEnv("SERVER_PORT", defaultPort)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("read SERVER_PORT failed: %w", err)
	}

	return ServerConfig{
		Host: StringFromEnv("SERVER_HOST", "0.0.0.0"),
		Port: serverPort,
	}, nil
}

// ReadServerTuningConfigFromEnv: HTTP 서버 튜닝 설정(Timeouts, Limits)을 환경 변수에서 읽어옵니다.
// 명시적으로 0 을 주면 해당 제한을 끈다.
func ReadServerTuningConfigFromEnv() (ServerTuningConfig, error) {
	readHeaderTimeout, err := DurationSecondsFromEnv("SERVER_READ_HEADER_TIMEOUT_SECONDS", 5)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_READ_HEADER_TIMEOUT_SECONDS failed: %w", err)
	}

	idleTimeout, err := DurationSecondsFromEnv("SERVER_IDLE_TIMEOUT_SECONDS", 90)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_IDLE_TIMEOUT_SECONDS failed: %w", err)
	}

	maxHeaderBytes, err := IntFromEnv("SERVER_MAX_HEADER_BYTES", 1<<20)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_MAX_HEADER_BYTES failed: %w", err)
	}
	if maxHeaderBytes < 0 {
		return ServerTuningConfig{}, fmt.Errorf("invalid SERVER_MAX_HEADER_BYTES: %d", maxHeaderBytes)
	}

	return ServerTuningConfig{
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}, nil
}

// RedisConfigEnvOptions: Valkey 연결 설정을 읽을 환경 변수 키와 기본값입니다.
// 앞쪽 키가 우선한다.
type RedisConfigEnvOptions struct {
	HostKeys     []string
	PortKeys     []string
	PasswordKeys []string

	DefaultHost string
	DefaultPort int
}

// ReadRedisConfigFromEnv: Valkey 연결 설정을 환경 변수에서 읽어옵니다.
func ReadRedisConfigFromEnv(opts RedisConfigEnvOptions) (RedisConfig, error) {
	port, err := IntFromEnvFirstNonEmpty(opts.PortKeys, opts.DefaultPort)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read redis port failed: %w", err)
	}

	return RedisConfig{
		Host:     StringFromEnvFirstNonEmpty(opts.HostKeys, opts.DefaultHost),
		Port:     port,
		Password: StringFromEnvFirstNonEmpty(opts.PasswordKeys, ""),

		DialTimeout:  10 * time.Second,
		WriteTimeout: 3 * time.Second,
	}, nil
}

// ReadValkeyMQConfigFromEnv: 판정 요청/응답 스트림 설정을 환경 변수에서 읽어옵니다.
// 연결 정보가 따로 없으면 캐시용 Valkey 설정(cache)을 그대로 쓴다.
func ReadValkeyMQConfigFromEnv(cache RedisConfig) (ValkeyMQConfig, error) {
	enabled, err := BoolFromEnv("MQ_ENABLED", true)
	if err != nil {
		return ValkeyMQConfig{}, fmt.Errorf("read MQ_ENABLED failed: %w", err)
	}

	port, err := IntFromEnv("MQ_REDIS_PORT", cache.Port)
	if err != nil {
		return ValkeyMQConfig{}, fmt.Errorf("read MQ_REDIS_PORT failed: %w", err)
	}

	timeout, err := DurationMillisFromEnv("MQ_TIMEOUT_MS", 5000)
	if err != nil {
		return ValkeyMQConfig{}, fmt.Errorf("read MQ_TIMEOUT_MS failed: %w", err)
	}

	batchSize, err := Int64FromEnv("MQ_BATCH_SIZE", MQBatchSize)
	if err != nil {
		return ValkeyMQConfig{}, fmt.Errorf("read MQ_BATCH_SIZE failed: %w", err)
	}

	blockTimeout, err := DurationMillisFromEnv("MQ_READ_TIMEOUT_MS", MQReadTimeoutMS)
	if err != nil {
		return ValkeyMQConfig{}, fmt.Errorf("read MQ_READ_TIMEOUT_MS failed: %w", err)
	}

	concurrency, err := IntFromEnv("MQ_CONCURRENCY", MQConsumerConcurrency)
	if err != nil {
		return ValkeyMQConfig{}, fmt.Errorf("read MQ_CONCURRENCY failed: %w", err)
	}

	streamMaxLen, err := Int64FromEnv("MQ_STREAM_MAX_LEN", MQStreamMaxLen)
	if err != nil {
		return ValkeyMQConfig{}, fmt.Errorf("read MQ_STREAM_MAX_LEN failed: %w", err)
	}

	claimMinIdle, err := DurationMillisFromEnv("MQ_CLAIM_MIN_IDLE_MS", MQClaimMinIdleMS)
	if err != nil {
		return ValkeyMQConfig{}, fmt.Errorf("read MQ_CLAIM_MIN_IDLE_MS failed: %w", err)
	}

	resetGroup, err := BoolFromEnv("MQ_RESET_CONSUMER_GROUP_ON_STARTUP", false)
	if err != nil {
		return ValkeyMQConfig{}, fmt.Errorf("read MQ_RESET_CONSUMER_GROUP_ON_STARTUP failed: %w", err)
	}

	// 0 이하 튜닝 값은 기본값으로 되돌린다
	if batchSize <= 0 {
		batchSize = MQBatchSize
	}
	if blockTimeout <= 0 {
		blockTimeout = MQReadTimeoutMS * time.Millisecond
	}
	if concurrency <= 0 {
		concurrency = MQConsumerConcurrency
	}
	if streamMaxLen <= 0 {
		streamMaxLen = MQStreamMaxLen
	}
	if claimMinIdle <= 0 {
		claimMinIdle = MQClaimMinIdleMS * time.Millisecond
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "answercheck"
	}

	return ValkeyMQConfig{
		Enabled:  enabled,
		Host:     StringFromEnv("MQ_REDIS_HOST", cache.Host),
		Port:     port,
		Password: StringFromEnv("MQ_REDIS_PASSWORD", cache.Password),

		Timeout:                     timeout,
		ConsumerGroup:               StringFromEnv("MQ_CONSUMER_GROUP", DefaultConsumerGroup),
		ConsumerName:                StringFromEnv("MQ_CONSUMER_NAME", "consumer-"+hostname),
		ResetConsumerGroupOnStartup: resetGroup,
		StreamKey:                   StringFromEnv("MQ_STREAM_KEY", DefaultRequestStreamKey),
		ReplyStreamKey:              StringFromEnv("MQ_REPLY_STREAM_KEY", DefaultReplyStreamKey),

		BatchSize:    batchSize,
		BlockTimeout: blockTimeout,
		Concurrency:  concurrency,
		StreamMaxLen: streamMaxLen,
		ClaimMinIdle: claimMinIdle,
	}, nil
}

// ReadDatabaseConfigFromEnv: 어휘 오버라이드 DB 설정을 환경 변수에서 읽어옵니다.
func ReadDatabaseConfigFromEnv() (DatabaseConfig, error) {
	driver := strings.ToLower(StringFromEnv("LEXICON_DB_DRIVER", "none"))
	switch driver {
	case "postgres", "sqlite", "none":
	default:
		return DatabaseConfig{}, fmt.Errorf("invalid LEXICON_DB_DRIVER: %q", driver)
	}

	dsn := StringFromEnvFirstNonEmpty([]string{"LEXICON_DB_DSN", "DATABASE_URL"}, "")
	if driver == "sqlite" && dsn == "" {
		dsn = "file:lexicon.db?_pragma=busy_timeout(5000)"
	}
	if driver == "postgres" && dsn == "" {
		return DatabaseConfig{}, fmt.Errorf("LEXICON_DB_DSN is required for driver=postgres")
	}

	maxOpen, err := IntFromEnv("LEXICON_DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("read LEXICON_DB_MAX_OPEN_CONNS failed: %w", err)
	}
	maxIdle, err := IntFromEnv("LEXICON_DB_MAX_IDLE_CONNS", 2)
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("read LEXICON_DB_MAX_IDLE_CONNS failed: %w", err)
	}
	lifetime, err := DurationSecondsFromEnv("LEXICON_DB_CONN_MAX_LIFETIME_SECONDS", 1800)
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("read LEXICON_DB_CONN_MAX_LIFETIME_SECONDS failed: %w", err)
	}
	autoMigrate, err := BoolFromEnv("LEXICON_DB_AUTO_MIGRATE", true)
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("read LEXICON_DB_AUTO_MIGRATE failed: %w", err)
	}

	return DatabaseConfig{
		Driver:          driver,
		DSN:             dsn,
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: lifetime,
		AutoMigrate:     autoMigrate,
	}, nil
}

// ReadLogConfigFromEnv: 로그 파일 출력 설정(디렉터리, 크기, 백업 수)을 환경 변수에서 읽어옵니다.
func ReadLogConfigFromEnv() (LogConfig, error) {
	level := strings.ToLower(StringFromEnv("LOG_LEVEL", "info"))
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return LogConfig{}, fmt.Errorf("invalid LOG_LEVEL: %s", level)
	}

	dir := StringFromEnv("LOG_DIR", "")
	if dir == "" {
		return LogConfig{Level: level}, nil
	}

	maxSizeMB, err := positiveIntFromEnv("LOG_FILE_MAX_SIZE_MB", 1)
	if err != nil {
		return LogConfig{}, err
	}
	maxBackups, err := positiveIntFromEnv("LOG_FILE_MAX_BACKUPS", 30)
	if err != nil {
		return LogConfig{}, err
	}
	maxAgeDays, err := positiveIntFromEnv("LOG_FILE_MAX_AGE_DAYS", 7)
	if err != nil {
		return LogConfig{}, err
	}

	compress, err := BoolFromEnv("LOG_FILE_COMPRESS", true)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_COMPRESS failed: %w", err)
	}

	return LogConfig{
		Level:      level,
		Dir:        dir,
		MaxSizeMB:  maxSizeMB,
		MaxBackups: maxBackups,
		MaxAgeDays: maxAgeDays,
		Compress:   compress,
	}, nil
}

func positiveIntFromEnv(key string, defaultValue int) (int, error) {
	value, err := IntFromEnv(key, defaultValue)
	if err != nil {
		return 0, fmt.Errorf("read %s failed: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("invalid %s: %d", key, value)
	}
	return value, nil
}

// ReadTelemetryConfigFromEnv: OpenTelemetry 설정을 환경 변수에서 읽어옵니다.
func ReadTelemetryConfigFromEnv(defaultServiceName string) (TelemetryConfig, error) {
	enabled, err := BoolFromEnv("OTEL_ENABLED", false)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_ENABLED failed: %w", err)
	}
	insecure, err := BoolFromEnv("OTEL_EXPORTER_OTLP_INSECURE", true)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_EXPORTER_OTLP_INSECURE failed: %w", err)
	}
	sampleRate, err := Float64FromEnv("OTEL_SAMPLE_RATE", 1.0)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_SAMPLE_RATE failed: %w", err)
	}
	if sampleRate < 0 || sampleRate > 1 {
		return TelemetryConfig{}, fmt.Errorf("invalid OTEL_SAMPLE_RATE: %v", sampleRate)
	}

	endpoint := StringFromEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "http://"), "https://")

	return TelemetryConfig{
		Enabled:      enabled,
		ServiceName:  StringFromEnv("OTEL_SERVICE_NAME", defaultServiceName),
		Environment:  StringFromEnv("OTEL_ENVIRONMENT", "production"),
		OTLPEndpoint: endpoint,
		OTLPInsecure: insecure,
		SampleRate:   sampleRate,
	}, nil
}
