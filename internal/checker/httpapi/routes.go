// Package httpapi 는 정답 판정 HTTP API 를 제공한다.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/park285/llm-kakao-bots/answer-check-go/internal/answer"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/checker/service"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/config"
	cerrors "github.com/park285/llm-kakao-bots/answer-check-go/internal/common/errors"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/health"
	commonhttputil "github.com/park285/llm-kakao-bots/answer-check-go/internal/common/httputil"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/validation"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/lexicon"
)

// Checker: HTTP 핸들러가 쓰는 판정 서비스 기능
type Checker interface {
	Validate(ctx context.Context, req service.Request) (answer.MatchResult, error)
	ValidateBatch(ctx context.Context, reqs []service.Request) ([]answer.MatchResult, error)
	Expand(ctx context.Context, spec, language string, allowSynonyms bool) ([]string, error)
	Normalize(text, language string) (string, string)
	Languages() []string
	Current() *service.Snapshot
	Reload(ctx context.Context) (*service.Snapshot, error)
}

// LexiconStore: 관리자 API 가 쓰는 오버라이드 저장소
type LexiconStore interface {
	Upsert(ctx context.Context, e lexicon.Entry) (lexicon.Entry, error)
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context, language string) ([]lexicon.Entry, error)
}

// Deps: 핸들러 의존성
type Deps struct {
	Checker      Checker
	Lexicon      LexiconStore // nil 이면 어휘 CRUD 라우트를 등록하지 않는다
	AdminAPIKey  string       // 비어 있으면 관리자 라우트 전체를 등록하지 않는다
	MaxBodyBytes int64
	Logger       *slog.Logger
}

func (d Deps) bodyLimit() int64 {
	if d.MaxBodyBytes <= 0 {
		return config.MaxRequestBodyBytes
	}
	return d.MaxBodyBytes
}

// Register: 공개 라우트와 (키가 설정된 경우) 관리자 라우트를 등록한다.
func Register(mux *http.ServeMux, deps Deps) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /api/languages", func(w http.ResponseWriter, r *http.Request) {
		handleLanguages(w, r, deps)
	})
	mux.HandleFunc("POST /api/answers/validate", func(w http.ResponseWriter, r *http.Request) {
		handleValidate(w, r, deps)
	})
	mux.HandleFunc("POST /api/answers/validate/batch", func(w http.ResponseWriter, r *http.Request) {
		handleValidateBatch(w, r, deps)
	})
	mux.HandleFunc("POST /api/answers/expand", func(w http.ResponseWriter, r *http.Request) {
		handleExpand(w, r, deps)
	})
	mux.HandleFunc("POST /api/answers/normalize", func(w http.ResponseWriter, r *http.Request) {
		handleNormalize(w, r, deps)
	})

	if deps.AdminAPIKey != "" {
		registerAdminRoutes(mux, deps)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := health.Get(r.Context())
	status := http.StatusOK
	if !resp.Healthy() {
		status = http.StatusServiceUnavailable
	}
	_ = commonhttputil.WriteJSON(w, status, resp)
}

func handleLanguages(w http.ResponseWriter, _ *http.Request, deps Deps) {
	_ = commonhttputil.WriteJSON(w, http.StatusOK, LanguagesResponse{
		Languages: deps.Checker.Languages(),
		Version:   deps.Checker.Current().Version,
	})
}

func handleValidate(w http.ResponseWriter, r *http.Request, deps Deps) {
	var req service.Request
	if !decodeAndValidate(w, r, &req, deps) {
		return
	}

	result, err := deps.Checker.Validate(r.Context(), req)
	if err != nil {
		writeError(w, r, deps.Logger, err)
		return
	}
	_ = commonhttputil.WriteJSON(w, http.StatusOK, result)
}

func handleValidateBatch(w http.ResponseWriter, r *http.Request, deps Deps) {
	var req ValidateBatchRequest
	if !decodeAndValidate(w, r, &req, deps) {
		return
	}

	results, err := deps.Checker.ValidateBatch(r.Context(), req.Items)
	if err != nil {
		writeError(w, r, deps.Logger, err)
		return
	}
	_ = commonhttputil.WriteJSON(w, http.StatusOK, ValidateBatchResponse{Results: results})
}

func handleExpand(w http.ResponseWriter, r *http.Request, deps Deps) {
	var req ExpandRequest
	if !decodeAndValidate(w, r, &req, deps) {
		return
	}

	allow := req.AllowSynonyms == nil || *req.AllowSynonyms
	answers, err := deps.Checker.Expand(r.Context(), req.CorrectAnswer, req.Language, allow)
	if err != nil {
		writeError(w, r, deps.Logger, err)
		return
	}
	_ = commonhttputil.WriteJSON(w, http.StatusOK, ExpandResponse{Answers: answers})
}

func handleNormalize(w http.ResponseWriter, r *http.Request, deps Deps) {
	var req NormalizeRequest
	if !decodeAndValidate(w, r, &req, deps) {
		return
	}

	normalized, number := deps.Checker.Normalize(req.Text, req.Language)
	_ = commonhttputil.WriteJSON(w, http.StatusOK, NormalizeResponse{Normalized: normalized, CanonicalNumber: number})
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, out any, deps Deps) bool {
	if err := commonhttputil.ReadJSON(w, r, out, deps.bodyLimit()); err != nil {
		writeError(w, r, deps.Logger, err)
		return false
	}
	if err := validation.Struct(out); err != nil {
		writeError(w, r, deps.Logger, err)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := commonhttputil.StatusFromError(err)
	if status >= http.StatusInternalServerError && !cerrors.IsExpectedUserBehavior(err) {
		logger.ErrorContext(r.Context(), "request_failed", "path", r.URL.Path, "code", code, "err", err)
	} else {
		logger.WarnContext(r.Context(), "request_rejected", "path", r.URL.Path, "code", code, "err", err)
	}
	_ = commonhttputil.WriteError(w, err)
}
