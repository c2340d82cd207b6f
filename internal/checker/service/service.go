// Package service 는 정답 판정 코어(answer) 위에 캐시, 어휘 오버라이드 재로딩, 일괄 판정을 얹는다.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sourcegraph/conc/iter"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/park285/llm-kakao-bots/answer-check-go/internal/answer"
	checkerredis "github.com/park285/llm-kakao-bots/answer-check-go/internal/checker/redis"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/cache"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/config"
	cerrors "github.com/park285/llm-kakao-bots/answer-check-go/internal/common/errors"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/telemetry"
)

// Request: 판정 요청 하나
type Request struct {
	UserAnswer    string `json:"userAnswer" validate:"max=1000"`
	CorrectAnswer string `json:"correctAnswer" validate:"max=2000"`
	Language      string `json:"language,omitempty" validate:"omitempty,max=35"`
	AllowSynonyms *bool  `json:"allowSynonyms,omitempty"`
}

func (r Request) language() string {
	if strings.TrimSpace(r.Language) == "" {
		return answer.DefaultLanguage
	}
	return answer.CanonicalLanguage(r.Language)
}

func (r Request) synonymsAllowed() bool {
	return r.AllowSynonyms == nil || *r.AllowSynonyms
}

// TableSource: 기본 테이블 위에 오버라이드를 덧붙이는 공급자 (lexicon.Repository)
type TableSource interface {
	ApplyTo(ctx context.Context, base answer.Tables) (answer.Tables, error)
}

// AnswerSetCache: 인스턴스 간 공유 정답 집합 캐시 (redis.AnswerSetStore)
type AnswerSetCache interface {
	Get(ctx context.Context, key checkerredis.AnswerSetKey) ([]string, bool, error)
	Set(ctx context.Context, key checkerredis.AnswerSetKey, members []string) error
}

// Snapshot: 현재 사용 중인 Matcher 와 그 테이블 버전
type Snapshot struct {
	Matcher    *answer.Matcher
	Version    string
	Generation uint64
	LoadedAt   time.Time
}

// Options: 서비스 튜닝 값
type Options struct {
	LocalCacheEntries int
	LocalCacheTTL     time.Duration
	BatchConcurrency  int
	MaxBatchItems     int
	// RemoteTimeout: 공유 캐시 조회/저장 한 번의 제한 시간 (기본 1초)
	RemoteTimeout time.Duration
}

// Service: 판정 서비스
type Service struct {
	base      answer.Tables
	overrides TableSource
	remote    AnswerSetCache
	local     *cache.TTLLRU[string, *answer.AnswerSet]
	logger    *slog.Logger
	opts      Options

	snapshot   atomic.Pointer[Snapshot]
	generation atomic.Uint64
	reloadMu   sync.Mutex
	sf         singleflight.Group
}

// New: 서비스를 만들고 첫 스냅샷을 로드한다. overrides 와 remote 는 nil 이어도 된다.
func New(
	ctx context.Context,
	base answer.Tables,
	overrides TableSource,
	remote AnswerSetCache,
	opts Options,
	logger *slog.Logger,
) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 8
	}
	if opts.MaxBatchItems <= 0 {
		opts.MaxBatchItems = config.MaxBatchItems
	}
	if opts.RemoteTimeout <= 0 {
		opts.RemoteTimeout = time.Second
	}

	s := &Service{
		base:      base.Clone(),
		overrides: overrides,
		remote:    remote,
		local:     cache.NewTTLLRU[string, *answer.AnswerSet](opts.LocalCacheEntries, opts.LocalCacheTTL),
		logger:    logger,
		opts:      opts,
	}
	if _, err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Current: 현재 스냅샷
func (s *Service) Current() *Snapshot {
	return s.snapshot.Load()
}

// Reload: 기본 테이블과 오버라이드로 Matcher 를 다시 만들어 원자적으로 교체한다.
// 오버라이드 로드에 실패하면 기존 스냅샷을 유지한다.
func (s *Service) Reload(ctx context.Context) (*Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	ctx, span := telemetry.Tracer().Start(ctx, "checker.Reload")
	defer span.End()

	tables := s.base.Clone()
	if s.overrides != nil {
		merged, err := s.overrides.ApplyTo(ctx, tables)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("apply lexicon overrides failed: %w", err)
		}
		tables = merged
	}

	version, err := tablesVersion(tables)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Matcher:    answer.New(tables),
		Version:    version,
		Generation: s.generation.Add(1),
		LoadedAt:   time.Now(),
	}
	prev := s.snapshot.Swap(snap)
	if prev == nil || prev.Version != version {
		s.local.Purge()
	}

	span.SetAttributes(attribute.String("lexicon.version", version))
	s.logger.InfoContext(ctx, "lexicon_reloaded",
		slog.String("version", version),
		slog.Uint64("generation", snap.Generation),
		slog.Int("languages", len(snap.Matcher.Languages())),
	)
	return snap, nil
}

// Validate: 답안 하나를 판정한다. 판정 결과는 캐시하지 않는다.
func (s *Service) Validate(ctx context.Context, req Request) (answer.MatchResult, error) {
	lang := req.language()
	ctx, span := telemetry.Tracer().Start(ctx, "checker.Validate",
		trace.WithAttributes(
			attribute.String("answer.language", lang),
			attribute.Bool("answer.allow_synonyms", req.synonymsAllowed()),
		),
	)
	defer span.End()

	if strings.TrimSpace(req.UserAnswer) == "" || strings.TrimSpace(req.CorrectAnswer) == "" {
		return answer.MatchResult{}, nil
	}

	snap := s.snapshot.Load()
	set, err := s.answerSet(ctx, snap, lang, req.synonymsAllowed(), req.CorrectAnswer)
	if err != nil {
		span.RecordError(err)
		return answer.MatchResult{}, err
	}

	result := snap.Matcher.Match(req.UserAnswer, set, lang)
	span.SetAttributes(
		attribute.Bool("answer.correct", result.IsCorrect),
		attribute.Bool("answer.missing_accents", result.MissingAccents),
	)
	return result, nil
}

// ValidateBatch: 요청 순서를 유지하며 여러 답안을 동시에 판정한다.
func (s *Service) ValidateBatch(ctx context.Context, reqs []Request) ([]answer.MatchResult, error) {
	if len(reqs) > s.opts.MaxBatchItems {
		return nil, cerrors.BatchTooLargeError{Size: len(reqs), Limit: s.opts.MaxBatchItems}
	}
	if len(reqs) == 0 {
		return []answer.MatchResult{}, nil
	}

	mapper := iter.Mapper[Request, answer.MatchResult]{MaxGoroutines: s.opts.BatchConcurrency}
	results, err := mapper.MapErr(reqs, func(req *Request) (answer.MatchResult, error) {
		return s.Validate(ctx, *req)
	})
	if err != nil {
		return nil, fmt.Errorf("validate batch failed: %w", err)
	}
	return results, nil
}

// Expand: 정답 문자열을 허용 답안 목록으로 펼친다.
func (s *Service) Expand(ctx context.Context, spec, language string, allowSynonyms bool) ([]string, error) {
	req := Request{Language: language}
	snap := s.snapshot.Load()
	set, err := s.answerSet(ctx, snap, req.language(), allowSynonyms, spec)
	if err != nil {
		return nil, err
	}
	return set.Members(), nil
}

// Normalize: 정규화 결과와 숫자 정규형을 반환한다.
func (s *Service) Normalize(text, language string) (normalized string, canonicalNumber string) {
	lang := Request{Language: language}.language()
	m := s.snapshot.Load().Matcher
	normalized = m.Normalize(text, lang)
	return normalized, m.CanonicalNumber(normalized, lang)
}

// Languages: 지원 언어 코드 목록
func (s *Service) Languages() []string {
	return s.snapshot.Load().Matcher.Languages()
}

func (s *Service) answerSet(ctx context.Context, snap *Snapshot, lang string, allowSynonyms bool, spec string) (*answer.AnswerSet, error) {
	key := checkerredis.AnswerSetKey{Version: snap.Version, Language: lang, AllowSynonyms: allowSynonyms, Spec: spec}
	cacheKey := key.CacheKey()
	if set, ok := s.local.Get(cacheKey); ok {
		return set, nil
	}

	resultCh := s.sf.DoChan(cacheKey, func() (any, error) {
		remoteUp := s.remote != nil
		if remoteUp {
			members, ok, err := s.remoteGet(ctx, key)
			switch {
			case err != nil:
				remoteUp = false
				s.logger.WarnContext(ctx, "answer_set_cache_get_failed", "err", err)
			case ok:
				set := answer.NewAnswerSet(members...)
				s.local.Set(cacheKey, set)
				return set, nil
			}
		}

		set := snap.Matcher.Expand(spec, lang, allowSynonyms)
		s.logger.DebugContext(ctx, "answer_set_cache_miss", "language", lang, "members", set.Len())
		if remoteUp {
			if err := s.remoteSet(ctx, key, set.Members()); err != nil {
				s.logger.WarnContext(ctx, "answer_set_cache_set_failed", "err", err)
			}
		}
		s.local.Set(cacheKey, set)
		return set, nil
	})

	select {
	case result := <-resultCh:
		if result.Err != nil {
			return nil, result.Err
		}
		set, ok := result.Val.(*answer.AnswerSet)
		if !ok {
			return nil, fmt.Errorf("invalid singleflight result type: %T", result.Val)
		}
		return set, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("answer set lookup cancelled: %w", ctx.Err())
	}
}

func (s *Service) remoteGet(ctx context.Context, key checkerredis.AnswerSetKey) ([]string, bool, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.RemoteTimeout)
	defer cancel()
	return s.remote.Get(ctx, key)
}

func (s *Service) remoteSet(ctx context.Context, key checkerredis.AnswerSetKey, members []string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.RemoteTimeout)
	defer cancel()
	return s.remote.Set(ctx, key, members)
}

// tablesVersion: 테이블 내용의 해시. 인스턴스가 달라도 같은 테이블이면 같은 값이다.
func tablesVersion(t answer.Tables) (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("marshal tables failed: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8]), nil
}
