package httpapi

import (
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/answer"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/checker/service"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/lexicon"
)

// ValidateBatchRequest: 일괄 판정 요청
type ValidateBatchRequest struct {
	Items []service.Request `json:"items" validate:"required,dive"`
}

// ValidateBatchResponse: 일괄 판정 응답. Results 순서는 Items 순서와 같다.
type ValidateBatchResponse struct {
	Results []answer.MatchResult `json:"results"`
}

// ExpandRequest: 정답 확장 요청
type ExpandRequest struct {
	CorrectAnswer string `json:"correctAnswer" validate:"required,max=2000"`
	Language      string `json:"language,omitempty" validate:"omitempty,max=35"`
	AllowSynonyms *bool  `json:"allowSynonyms,omitempty"`
}

// ExpandResponse: 확장된 허용 답안 목록
type ExpandResponse struct {
	Answers []string `json:"answers"`
}

// NormalizeRequest: 정규화 디버그 요청
type NormalizeRequest struct {
	Text     string `json:"text" validate:"max=2000"`
	Language string `json:"language,omitempty" validate:"omitempty,max=35"`
}

// NormalizeResponse: 정규화 결과
type NormalizeResponse struct {
	Normalized      string `json:"normalized"`
	CanonicalNumber string `json:"canonicalNumber"`
}

// LanguagesResponse: 지원 언어와 어휘 버전
type LanguagesResponse struct {
	Languages []string `json:"languages"`
	Version   string   `json:"version"`
}

// LexiconListResponse: 오버라이드 목록
type LexiconListResponse struct {
	Entries []lexicon.Entry `json:"entries"`
	Count   int             `json:"count"`
}

// ReloadResponse: 재로딩 결과
type ReloadResponse struct {
	Version    string `json:"version"`
	Generation uint64 `json:"generation"`
}
