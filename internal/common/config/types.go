package config

import "time"

// ServerConfig: HTTP 서버 주소/포트 설정입니다.
type ServerConfig struct {
	Host string // 서버 바인딩 호스트
	Port int    // 서버 리스닝 포트
}

// ServerTuningConfig: HTTP 서버 튜닝 설정(Timeouts, Limits)입니다.
type ServerTuningConfig struct {
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
}

// RedisConfig: Valkey 캐시 연결 설정입니다.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int

	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// ValkeyMQConfig: Valkey Streams 기반 요청/응답 큐 설정입니다.
type ValkeyMQConfig struct {
	Enabled  bool // false 면 스트림 소비자를 띄우지 않는다
	Host     string
	Port     int
	Password string

	Timeout                     time.Duration // 명령/연결 타임아웃
	ConsumerGroup               string
	ConsumerName                string
	ResetConsumerGroupOnStartup bool
	StreamKey                   string // 요청 스트림
	ReplyStreamKey              string // 응답 스트림

	BatchSize    int64
	BlockTimeout time.Duration
	Concurrency  int
	StreamMaxLen int64
	ClaimMinIdle time.Duration // 실패해 PEL 에 남은 요청을 재처리하기까지의 대기
}

// DatabaseConfig: 어휘 오버라이드 DB 설정입니다.
type DatabaseConfig struct {
	Driver          string // postgres | sqlite | none
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// Enabled: 어휘 DB 를 사용하는지 여부.
func (c DatabaseConfig) Enabled() bool {
	return c.Driver != "" && c.Driver != "none"
}

// LogConfig: 파일 로그 로테이션 설정입니다.
type LogConfig struct {
	Level string // debug | info | warn | error
	Dir   string // 비어 있으면 파일 로그 비활성화

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// TelemetryConfig: OpenTelemetry 트레이싱 설정입니다.
type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string // host:port (gRPC)
	OTLPInsecure bool
	SampleRate   float64
}
