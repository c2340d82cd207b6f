package answer

import "slices"

// contractionTable: 축약형 <-> 풀어쓴 형태의 양방향 치환 테이블.
type contractionTable struct {
	expander   *wordReplacer
	contractor *wordReplacer
}

func newContractionTable(pairs map[string]string) *contractionTable {
	forward := make(map[string]string, len(pairs))
	reverse := make(map[string]string, len(pairs))
	for contracted, expanded := range pairs {
		c := normalizeWith(contracted, nil)
		e := normalizeWith(expanded, nil)
		if c == "" || e == "" || c == e {
			continue
		}
		forward[c] = e
		// 같은 풀어쓴 형태에 축약형이 여럿이면 사전순으로 앞선 것을 쓴다.
		if prev, ok := reverse[e]; !ok || c < prev {
			reverse[e] = c
		}
	}
	t := &contractionTable{}
	if len(forward) > 0 {
		t.expander = newWordReplacer(forward, true)
		t.contractor = newWordReplacer(reverse, true)
	}
	return t
}

// Expand: 축약형만 풀어쓴다. 사용자 입력 쪽에 쓰인다.
func (t *contractionTable) Expand(s string) string {
	if t == nil {
		return s
	}
	return t.expander.Replace(s)
}

// Variants: {s, 풀어쓴 형태, 축약한 형태} 를 중복 없이 반환한다.
func (t *contractionTable) Variants(s string) []string {
	out := []string{s}
	if t == nil || t.expander == nil {
		return out
	}
	for _, v := range []string{t.expander.Replace(s), t.contractor.Replace(s)} {
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
