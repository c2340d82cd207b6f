package answer

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// wordReplacer: 단어 경계를 지키는 대소문자 무시 치환기.
// 긴 키를 먼저 시도하므로 "do not" 과 "do" 가 함께 있어도 긴 쪽이 이긴다.
type wordReplacer struct {
	keys             []string
	table            map[string]string
	apostropheIsWord bool
}

func newWordReplacer(table map[string]string, apostropheIsWord bool) *wordReplacer {
	keys := make([]string, 0, len(table))
	for k := range table {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return &wordReplacer{keys: keys, table: table, apostropheIsWord: apostropheIsWord}
}

func (r *wordReplacer) isWordRune(c rune) bool {
	if c == '\'' {
		return r.apostropheIsWord
	}
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c) || unicode.Is(unicode.Mn, c)
}

// Replace: s 안의 키를 단어 단위로 치환한다. nil 이면 그대로 반환.
func (r *wordReplacer) Replace(s string) string {
	if r == nil || len(r.keys) == 0 || s == "" {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	changed := false

	prevIsWord := false
	for i := 0; i < len(s); {
		if !prevIsWord {
			if key, ok := r.matchAt(s, i); ok {
				b.WriteString(r.table[key])
				i += len(key)
				changed = true
				last, _ := utf8.DecodeLastRuneInString(s[:i])
				prevIsWord = r.isWordRune(last)
				continue
			}
		}
		c, size := utf8.DecodeRuneInString(s[i:])
		b.WriteString(s[i : i+size])
		prevIsWord = r.isWordRune(c)
		i += size
	}

	if !changed {
		return s
	}
	return b.String()
}

func (r *wordReplacer) matchAt(s string, i int) (string, bool) {
	for _, key := range r.keys {
		end := i + len(key)
		if end > len(s) || !strings.EqualFold(s[i:end], key) {
			continue
		}
		if end < len(s) {
			next, _ := utf8.DecodeRuneInString(s[end:])
			if r.isWordRune(next) {
				continue
			}
		}
		return key, true
	}
	return "", false
}
