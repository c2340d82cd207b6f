package mqmsg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// 스트림 요청 파싱 에러 목록.
var (
	ErrMissingRequestID = errors.New("missing request id")
	ErrEmptyFields      = errors.New("empty stream fields")
)

// ValidateRequest: 정답 판정 요청 스트림 메시지
type ValidateRequest struct {
	RequestID     string `json:"requestId"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Language      string `json:"language"`
	// AllowSynonyms 필드가 없으면 nil 로 남아 기본값(true)을 따른다.
	AllowSynonyms *bool `json:"allowSynonyms"`
}

// SynonymsAllowed: AllowSynonyms 가 비어 있으면 true 를 반환한다.
func (r ValidateRequest) SynonymsAllowed() bool {
	return r.AllowSynonyms == nil || *r.AllowSynonyms
}

// ParseValidateRequest: XREADGROUP 필드 맵을 ValidateRequest 로 디코딩한다.
// 값은 모두 문자열이므로 "true"/"1" 같은 표현도 약한 타입 변환으로 받아들인다.
func ParseValidateRequest(fields map[string]string) (ValidateRequest, error) {
	if len(fields) == 0 {
		return ValidateRequest{}, ErrEmptyFields
	}

	input := make(map[string]any, len(fields))
	for k, v := range fields {
		if strings.TrimSpace(v) == "" {
			continue
		}
		input[k] = v
	}

	var out ValidateRequest
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return ValidateRequest{}, fmt.Errorf("create decoder failed: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return ValidateRequest{}, fmt.Errorf("decode validate request failed: %w", err)
	}

	out.RequestID = strings.TrimSpace(out.RequestID)
	if out.RequestID == "" {
		return ValidateRequest{}, ErrMissingRequestID
	}
	out.Language = strings.TrimSpace(out.Language)
	return out, nil
}

// ToStreamValues: 요청을 XADD 필드 맵으로 변환한다.
func (r ValidateRequest) ToStreamValues() map[string]string {
	values := map[string]string{
		"requestId":     r.RequestID,
		"userAnswer":    r.UserAnswer,
		"correctAnswer": r.CorrectAnswer,
	}
	if r.Language != "" {
		values["language"] = r.Language
	}
	if r.AllowSynonyms != nil {
		values["allowSynonyms"] = strconv.FormatBool(*r.AllowSynonyms)
	}
	return values
}

// ValidateReply: 판정 결과 응답 메시지. Error 가 있으면 판정 필드는 생략된다.
type ValidateReply struct {
	RequestID      string
	IsCorrect      bool
	MissingAccents bool
	Error          string
}

// NewErrorReply 는 실패 응답을 만든다.
func NewErrorReply(requestID string, err error) ValidateReply {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return ValidateReply{RequestID: requestID, Error: msg}
}

// ToStreamValues: 응답을 XADD 필드 맵으로 변환한다.
func (r ValidateReply) ToStreamValues() map[string]string {
	values := map[string]string{"requestId": r.RequestID}
	if r.Error != "" {
		values["error"] = r.Error
		return values
	}
	values["isCorrect"] = strconv.FormatBool(r.IsCorrect)
	values["missingAccents"] = strconv.FormatBool(r.MissingAccents)
	return values
}

func (r ValidateRequest) String() string {
	return fmt.Sprintf("requestId=%s language=%s allowSynonyms=%t", r.RequestID, r.Language, r.SynonymsAllowed())
}
