// Package valkeyx 는 Valkey 클라이언트 공통 유틸리티를 제공한다.
package valkeyx

import "strings"

// BuildKey 는 prefix 와 파트들을 ':' 로 결합한다. 각 파트의 앞뒤 공백은 제거한다.
// 형식: {prefix}:{part1}:{part2}...
func BuildKey(prefix string, parts ...string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(strings.TrimSpace(p))
	}
	return b.String()
}
