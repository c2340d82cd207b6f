package answer

import (
	"strings"
	"unicode"
)

// 단독 단어 구분자. 양옆이 공백일 때만 구분자로 본다.
var wordDelimiters = map[string]struct{}{
	"and": {},
	"or":  {},
	"i":   {},
}

func isSymbolDelimiter(r rune) bool {
	switch r {
	case ',', ';', '/', '|':
		return true
	}
	return false
}

// parseAnswerSpec: 정답 문자열을 후보 목록으로 분해합니다.
// 구분자로 나눈 뒤 각 조각에 선택적 접두사 문법 "(" word+ ")" word+ 를 적용한다.
func parseAnswerSpec(spec string) []string {
	var out []string
	for _, segment := range splitAnswerSpec(spec) {
		out = append(out, expandOptionalPrefix(segment)...)
	}
	return out
}

// splitAnswerSpec: , ; / | 와 단독 and/or/I 로 나눈다.
// 괄호 안에 있는 구분자도 똑같이 나눈다. 남은 괄호 조각은 정규화 단계에서 구두점으로 지워진다.
func splitAnswerSpec(spec string) []string {
	runes := []rune(spec)

	var (
		segments []string
		cur      strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			segments = append(segments, s)
		}
		cur.Reset()
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if isSymbolDelimiter(r) {
			flush()
			continue
		}
		if unicode.IsSpace(r) {
			if next, ok := wordDelimiterAfter(runes, i); ok {
				flush()
				i = next - 1
				continue
			}
		}
		cur.WriteRune(r)
	}
	flush()
	return segments
}

// wordDelimiterAfter: runes[i] 가 공백일 때, 이어지는 단어가 구분자 단어이고
// 뒤에 다시 공백이 오면 그 공백 위치를 반환한다.
func wordDelimiterAfter(runes []rune, i int) (int, bool) {
	j := i
	for j < len(runes) && unicode.IsSpace(runes[j]) {
		j++
	}
	k := j
	for k < len(runes) && !unicode.IsSpace(runes[k]) {
		k++
	}
	if j == k || k >= len(runes) {
		return 0, false
	}
	if _, ok := wordDelimiters[strings.ToLower(string(runes[j:k]))]; !ok {
		return 0, false
	}
	return k, true
}

// expandOptionalPrefix: "(to) recycle" -> ["to recycle", "recycle"].
// 패턴이 아니면 조각을 그대로 반환한다.
func expandOptionalPrefix(segment string) []string {
	if !strings.HasPrefix(segment, "(") {
		return []string{segment}
	}
	closeIdx := strings.IndexByte(segment, ')')
	if closeIdx < 0 {
		return []string{segment}
	}
	inner := strings.TrimSpace(segment[1:closeIdx])
	rest := strings.TrimSpace(segment[closeIdx+1:])
	if inner == "" || rest == "" || strings.ContainsRune(inner, '(') {
		return []string{segment}
	}
	return []string{inner + " " + rest, rest}
}
