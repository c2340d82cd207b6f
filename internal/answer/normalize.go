package answer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// parentheticalPattern: 괄호 묶음과 양옆 공백. 중첩은 안쪽부터 반복 제거한다.
var parentheticalPattern = regexp.MustCompile(`\s*\([^()]*\)\s*`)

var apostropheReplacer = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'")

func isStrippedPunct(r rune) bool {
	switch r {
	case '¿', '¡', '?', '!', '.', ',', ';', ':', '(', ')', '[', ']', '{', '}', '«', '»':
		return true
	}
	return false
}

// normalizeWith: 소문자화 -> 괄호 제거 -> 구두점 제거 -> 지역 철자 -> 공백 정리.
// 하이픈과 아포스트로피는 남긴다. 멱등이다.
func normalizeWith(text string, p *Profile) string {
	if text == "" {
		return ""
	}

	s := norm.NFC.String(strings.ToLower(apostropheReplacer.Replace(text)))

	for {
		next := parentheticalPattern.ReplaceAllString(s, " ")
		if next == s {
			break
		}
		s = next
	}

	s = strings.Map(func(r rune) rune {
		if isStrippedPunct(r) {
			return -1
		}
		return r
	}, s)

	if p.HasRegional() {
		s = p.regional.Replace(s)
	}

	return strings.Join(strings.Fields(s), " ")
}

// CanonicalizeRegional: 영국식 철자를 미국식으로 단어 단위 치환합니다.
// 지역 철자 테이블이 없는 Profile 이면 입력을 그대로 반환한다.
func CanonicalizeRegional(text string, p *Profile) string {
	if !p.HasRegional() {
		return text
	}
	return p.regional.Replace(text)
}

// StripDiacritics: 결합 분음 기호를 제거합니다. ("hablé" -> "hable")
func StripDiacritics(s string) string {
	if s == "" {
		return s
	}
	// transform.Chain 은 상태를 가지므로 호출마다 새로 만든다.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
