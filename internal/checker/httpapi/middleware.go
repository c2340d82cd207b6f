package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	cerrors "github.com/park285/llm-kakao-bots/answer-check-go/internal/common/errors"
	commonhttputil "github.com/park285/llm-kakao-bots/answer-check-go/internal/common/httputil"
)

// RequireAPIKey: X-API-Key 헤더가 key 와 같을 때만 next 로 넘긴다.
func RequireAPIKey(key string, next http.Handler) http.Handler {
	expected := []byte(key)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := []byte(r.Header.Get(commonhttputil.HeaderAPIKey))
		if len(expected) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
			_ = commonhttputil.WriteError(w, cerrors.AccessDeniedError{Reason: "invalid api key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit: 프로세스 전체 요청 속도를 토큰 버킷으로 제한한다. limiter 가 nil 이면 그대로 통과.
// /health 는 제한하지 않는다.
func RateLimit(limiter *rate.Limiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" && !limiter.Allow() {
			w.Header().Set("Retry-After", strconv.Itoa(1))
			_ = commonhttputil.WriteErrorJSON(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewLimiter: rps 가 0 이하면 nil (제한 없음).
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = int(rps) + 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
