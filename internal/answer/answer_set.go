package answer

// AnswerSet: 정규화된 허용 답안의 순서 보존 집합입니다.
// 분음 기호를 뗀 형태를 함께 보관해 매칭 때 다시 계산하지 않는다.
type AnswerSet struct {
	members []string
	folded  []string
	index   map[string]struct{}
}

// NewAnswerSet: 주어진 멤버로 집합을 만듭니다. 중복은 버린다.
// 빈 문자열도 멤버가 될 수 있다 (구두점뿐인 정답의 정규형).
func NewAnswerSet(members ...string) *AnswerSet {
	s := &AnswerSet{index: make(map[string]struct{}, len(members))}
	for _, m := range members {
		s.Add(m)
	}
	return s
}

// Add: 새 멤버면 추가하고 true 를 반환합니다.
func (s *AnswerSet) Add(member string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[member]; ok {
		return false
	}
	s.index[member] = struct{}{}
	s.members = append(s.members, member)
	s.folded = append(s.folded, StripDiacritics(member))
	return true
}

// Contains: 정확히 같은 멤버(분음 기호 포함)가 있는지 확인합니다.
func (s *AnswerSet) Contains(member string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[member]
	return ok
}

// Members: 삽입 순서대로의 멤버 복사본.
func (s *AnswerSet) Members() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.members))
	copy(out, s.members)
	return out
}

// Len: 멤버 수.
func (s *AnswerSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.members)
}

func (s *AnswerSet) matchFolded(folded string) bool {
	for _, f := range s.folded {
		if f == folded {
			return true
		}
	}
	return false
}
