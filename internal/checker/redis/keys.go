package redis

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/config"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/valkeyx"
)

// AnswerSetKey: 확장된 정답 집합을 식별하는 값.
// Version 은 어휘 테이블 내용 해시이므로 테이블이 바뀌면 이전 항목은 더 이상 조회되지 않는다.
type AnswerSetKey struct {
	Version       string
	Language      string
	AllowSynonyms bool
	Spec          string
}

// CacheKey: {prefix}:{version}:{language}:{synonyms}:{sha256(spec)}
func (k AnswerSetKey) CacheKey() string {
	sum := sha256.Sum256([]byte(k.Spec))
	return valkeyx.BuildKey(config.AnswerSetKeyPrefix,
		k.Version,
		k.Language,
		strconv.FormatBool(k.AllowSynonyms),
		hex.EncodeToString(sum[:]),
	)
}
