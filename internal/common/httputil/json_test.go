package httputil

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	cerrors "github.com/park285/llm-kakao-bots/answer-check-go/internal/common/errors"
)

func TestReadJSON_Success(t *testing.T) {
	body := `{"userAnswer":"hable","correctAnswer":"hablé"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var out struct {
		UserAnswer    string `json:"userAnswer"`
		CorrectAnswer string `json:"correctAnswer"`
	}
	if err := ReadJSON(httptest.NewRecorder(), req, &out, 1024); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.UserAnswer != "hable" || out.CorrectAnswer != "hablé" {
		t.Errorf("unexpected decode: %+v", out)
	}
}

func TestReadJSON_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	var out struct{}
	if err := ReadJSON(httptest.NewRecorder(), req, &out, 1024); !errors.Is(err, ErrEmptyBody) {
		t.Errorf("expected ErrEmptyBody, got %v", err)
	}
}

func TestReadJSON_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{invalid json}`))

	var out struct{}
	err := ReadJSON(httptest.NewRecorder(), req, &out, 1024)
	var malformed cerrors.MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedInputError, got %v", err)
	}
	if status, _ := StatusFromError(err); status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
}

func TestReadJSON_LargeBody(t *testing.T) {
	body := `{"data":"` + string(bytes.Repeat([]byte("a"), 2000)) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var out struct {
		Data string `json:"data"`
	}
	if err := ReadJSON(httptest.NewRecorder(), req, &out, 1024); err == nil {
		t.Error("expected error for body exceeding maxBytes")
	}
}

func TestWriteJSON_NoHTMLEscape(t *testing.T) {
	rr := httptest.NewRecorder()

	if err := WriteJSON(rr, http.StatusOK, map[string]string{"answer": "<b>don't</b>"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rr.Header().Get(HeaderContentType) != ContentTypeJSON {
		t.Errorf("unexpected content type: %s", rr.Header().Get(HeaderContentType))
	}
	if strings.Contains(rr.Body.String(), "\\u003c") {
		t.Errorf("HTML should not be escaped: %s", rr.Body.String())
	}
}

func TestWriteErrorJSON_TrimWhitespace(t *testing.T) {
	rr := httptest.NewRecorder()

	if err := WriteErrorJSON(rr, http.StatusBadRequest, "  malformed_input  ", " bad "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"error":"malformed_input"`) {
		t.Errorf("expected trimmed code: %s", rr.Body.String())
	}
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{ErrEmptyBody, http.StatusBadRequest, "empty_body"},
		{fmt.Errorf("x: %w", cerrors.BatchTooLargeError{Size: 201, Limit: 200}), http.StatusRequestEntityTooLarge, "batch_too_large"},
		{cerrors.LexiconError{Kind: "number"}, http.StatusUnprocessableEntity, "invalid_lexicon_entry"},
		{cerrors.AccessDeniedError{}, http.StatusUnauthorized, "access_denied"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		status, code := StatusFromError(tt.err)
		if status != tt.status || code != tt.code {
			t.Errorf("StatusFromError(%v) = %d %s, want %d %s", tt.err, status, code, tt.status, tt.code)
		}
	}
}
