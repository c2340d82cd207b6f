package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	cerrors "github.com/park285/llm-kakao-bots/answer-check-go/internal/common/errors"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/valkeyx"
)

const answerSetPayloadVersion = 1

type answerSetPayload struct {
	V       int      `json:"v"`
	Members []string `json:"members"`
}

// AnswerSetStore: 확장된 정답 집합을 인스턴스 간에 공유하는 Valkey 캐시.
// 값은 JSON 을 zstd 로 압축해 저장한다.
type AnswerSetStore struct {
	client valkey.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewAnswerSetStore 는 AnswerSetStore 를 만든다. ttl 이 0 이하이면 만료 없이 저장한다.
func NewAnswerSetStore(client valkey.Client, ttl time.Duration, logger *slog.Logger) *AnswerSetStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerSetStore{client: client, ttl: ttl, logger: logger}
}

// Get: 저장된 멤버 목록을 반환한다. 없거나 형식이 다르면 (nil, false, nil).
func (s *AnswerSetStore) Get(ctx context.Context, key AnswerSetKey) ([]string, bool, error) {
	cacheKey := key.CacheKey()
	raw, err := s.client.Do(ctx, s.client.B().Get().Key(cacheKey).Build()).AsBytes()
	if err != nil {
		if valkeyx.IsNil(err) {
			return nil, false, nil
		}
		return nil, false, cerrors.RedisError{Operation: "answer_set_get", Err: err}
	}

	decoded, err := decompressZstd(raw)
	if err != nil {
		s.logger.Warn("answer_set_cache_corrupt", "key", cacheKey, "err", err)
		return nil, false, nil
	}
	var payload answerSetPayload
	if err := json.Unmarshal(decoded, &payload); err != nil || payload.V != answerSetPayloadVersion {
		s.logger.Warn("answer_set_cache_corrupt", "key", cacheKey, "err", err)
		return nil, false, nil
	}
	return payload.Members, true, nil
}

// Set: 멤버 목록을 저장한다.
func (s *AnswerSetStore) Set(ctx context.Context, key AnswerSetKey, members []string) error {
	data, err := json.Marshal(answerSetPayload{V: answerSetPayloadVersion, Members: members})
	if err != nil {
		return fmt.Errorf("marshal answer set failed: %w", err)
	}
	compressed, err := compressZstd(data)
	if err != nil {
		return err
	}

	cacheKey := key.CacheKey()
	var cmd valkey.Completed
	if s.ttl > 0 {
		cmd = s.client.B().Set().Key(cacheKey).Value(valkey.BinaryString(compressed)).Ex(s.ttl).Build()
	} else {
		cmd = s.client.B().Set().Key(cacheKey).Value(valkey.BinaryString(compressed)).Build()
	}
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return cerrors.RedisError{Operation: "answer_set_set", Err: err}
	}
	return nil
}
