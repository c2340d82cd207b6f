package httputil

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	cerrors "github.com/park285/llm-kakao-bots/answer-check-go/internal/common/errors"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/validation"
)

// HTTP 헤더 관련 상수
const (
	// ContentTypeJSON: JSON 응답을 위한 Content-Type 헤더 값
	ContentTypeJSON = "application/json"
	// HeaderAPIKey: 관리자 API 키 인증 헤더 이름
	HeaderAPIKey = "X-API-Key"
	// HeaderContentType: Content-Type 헤더 이름
	HeaderContentType = "Content-Type"
)

// ErrEmptyBody: 요청 바디가 비어있을 때 발생하는 에러
var ErrEmptyBody = errors.New("empty request body")

// ReadJSON: 요청 바디를 maxBytes 까지 읽어 out 으로 디코딩한다.
// 디코딩 실패는 MalformedInputError 로 감싼다.
func ReadJSON(w http.ResponseWriter, r *http.Request, out any, maxBytes int64) error {
	if r.Body == nil || r.Body == http.NoBody {
		return ErrEmptyBody
	}

	body := http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body too large: %w", err)
		}
		return cerrors.MalformedInputError{Message: fmt.Sprintf("decode json failed: %v", err)}
	}
	return nil
}

// WriteJSON: 데이터를 JSON으로 인코딩하여 HTTP 응답으로 전송한다.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set(HeaderContentType, ContentTypeJSON)
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json failed: %w", err)
	}
	return nil
}

// ErrorResponse: 표준 에러 응답 구조체
type ErrorResponse struct {
	Error   string                  `json:"error"`
	Message string                  `json:"message"`
	Details []validation.FieldError `json:"details,omitempty"`
}

// WriteErrorJSON: 에러 코드와 메시지를 포함한 표준 에러 응답을 전송한다.
func WriteErrorJSON(w http.ResponseWriter, status int, code string, message string) error {
	return WriteJSON(w, status, ErrorResponse{
		Error:   strings.TrimSpace(code),
		Message: strings.TrimSpace(message),
	})
}

// WriteError: err 를 StatusFromError 로 분류해 에러 응답을 전송한다.
// 내부 에러는 메시지를 노출하지 않는다.
func WriteError(w http.ResponseWriter, err error) error {
	status, code := StatusFromError(err)
	message := "internal server error"
	if status != http.StatusInternalServerError {
		message = err.Error()
	}
	return WriteJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
		Details: validation.Details(err),
	})
}

// StatusFromError: 공통 에러 타입을 HTTP 상태 코드와 에러 코드로 바꾼다.
func StatusFromError(err error) (int, string) {
	var (
		tooLarge     *http.MaxBytesError
		malformed    cerrors.MalformedInputError
		batch        cerrors.BatchTooLargeError
		lexicon      cerrors.LexiconError
		accessDenied cerrors.AccessDeniedError
		invalid      validator.ValidationErrors
	)
	switch {
	case errors.Is(err, ErrEmptyBody):
		return http.StatusBadRequest, "empty_body"
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "body_too_large"
	case errors.As(err, &malformed):
		return http.StatusBadRequest, "malformed_input"
	case errors.As(err, &batch):
		return http.StatusRequestEntityTooLarge, "batch_too_large"
	case errors.As(err, &invalid):
		return http.StatusUnprocessableEntity, "validation_failed"
	case errors.As(err, &lexicon):
		return http.StatusUnprocessableEntity, "invalid_lexicon_entry"
	case errors.As(err, &accessDenied):
		return http.StatusUnauthorized, "access_denied"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
