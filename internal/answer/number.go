package answer

import (
	"sort"
	"strings"
)

// NumberTable: 수사 <-> 숫자 문자열 양방향 조회 테이블입니다.
// nil 테이블은 모든 조회에서 "매핑 없음" 으로 동작한다.
type NumberTable struct {
	forward map[string]string
	reverse map[string][]string
}

// NewNumberTable: 정방향 맵(수사 -> 숫자)으로 테이블을 만들고 역방향 맵을 파생합니다.
func NewNumberTable(forward map[string]string) *NumberTable {
	t := &NumberTable{
		forward: make(map[string]string, len(forward)),
		reverse: make(map[string][]string),
	}
	for word, digits := range forward {
		key := strings.ToLower(strings.TrimSpace(word))
		value := strings.TrimSpace(digits)
		if key == "" || !isDigits(value) {
			continue
		}
		t.forward[key] = value
	}
	for word, digits := range t.forward {
		t.reverse[digits] = append(t.reverse[digits], word)
	}
	for digits, words := range t.reverse {
		sort.Strings(words)
		t.reverse[digits] = words
	}
	return t
}

// Len: 정방향 항목 수.
func (t *NumberTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.forward)
}

// Lookup: 수사를 숫자 문자열로 바꿉니다. 하이픈/공백 표기를 서로 바꿔 재시도한다.
func (t *NumberTable) Lookup(text string) (string, bool) {
	if t == nil || len(t.forward) == 0 {
		return "", false
	}
	key := strings.ToLower(strings.TrimSpace(text))
	if key == "" {
		return "", false
	}
	candidates := []string{
		key,
		strings.ReplaceAll(key, "-", " "),
		strings.ReplaceAll(key, " ", "-"),
	}
	for _, c := range candidates {
		if digits, ok := t.forward[c]; ok {
			return digits, true
		}
	}
	return "", false
}

// Canonical: 숫자 문자열이면 그대로, 알려진 수사면 숫자로, 아니면 입력 그대로 반환합니다.
func (t *NumberTable) Canonical(text string) string {
	if isDigits(text) {
		return text
	}
	if digits, ok := t.Lookup(text); ok {
		return digits
	}
	return text
}

// Words: 숫자 문자열에 대응하는 수사 목록 (정렬, 중복 없음). 복사본을 반환한다.
func (t *NumberTable) Words(digits string) []string {
	if t == nil {
		return nil
	}
	words := t.reverse[strings.TrimSpace(digits)]
	if len(words) == 0 {
		return nil
	}
	out := make([]string, len(words))
	copy(out, words)
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// samePhrase: 하이픈과 공백 차이를 무시하고 비교한다.
func samePhrase(a, b string) bool {
	norm := func(s string) string {
		return strings.Join(strings.Fields(strings.ReplaceAll(s, "-", " ")), " ")
	}
	return norm(a) == norm(b)
}
