package config

// HTTP API 상수.
const (
	// DefaultServerPort: 정답 판정 HTTP 서버 기본 포트
	DefaultServerPort = 40620
	// MaxRequestBodyBytes: 요청 본문 최대 크기 (1MiB)
	MaxRequestBodyBytes = 1 << 20
	// MaxBatchItems: 일괄 판정 요청 최대 항목 수
	MaxBatchItems = 200
)

// MQ 공통 상수.
const (
	// MQBatchSize: XREADGROUP 한 번에 읽을 메시지 수
	MQBatchSize = 10
	// MQReadTimeoutMS: 스트림 블록 타임아웃(ms)
	MQReadTimeoutMS = 5000
	// MQConsumerConcurrency: 메시지 동시 처리 수
	MQConsumerConcurrency = 8
	// MQStreamMaxLen: 응답 스트림 최대 길이 (MAXLEN ~)
	MQStreamMaxLen = 10000
	// MQClaimMinIdleMS: 이 시간(ms) 이상 ACK 되지 않은 요청은 다시 가져와 처리한다
	MQClaimMinIdleMS = 30000
)

// 스트림 키 상수.
const (
	// DefaultRequestStreamKey: 판정 요청 스트림 키
	DefaultRequestStreamKey = "answercheck:requests"
	// DefaultReplyStreamKey: 판정 응답 스트림 키
	DefaultReplyStreamKey = "answercheck:replies"
	// DefaultConsumerGroup: 판정 요청 Consumer Group
	DefaultConsumerGroup = "answercheck-group"
)

// 캐시 상수.
const (
	// AnswerSetKeyPrefix: Valkey 허용 답안 집합 캐시 키 접두사
	AnswerSetKeyPrefix = "answercheck:answerset"
	// DefaultLocalCacheEntries: 프로세스 내 허용 답안 집합 캐시 크기
	DefaultLocalCacheEntries = 4096
	// DefaultLocalCacheTTLSeconds: 프로세스 내 캐시 TTL (10분)
	DefaultLocalCacheTTLSeconds = 600
	// DefaultRemoteCacheTTLSeconds: Valkey 캐시 TTL (1일)
	DefaultRemoteCacheTTLSeconds = 86400
)
