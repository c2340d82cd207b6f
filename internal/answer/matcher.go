package answer

import (
	"strings"
	"sync"
)

// MatchResult: 정답 판정 결과입니다.
type MatchResult struct {
	IsCorrect bool `json:"isCorrect"`
	// MissingAccents: 분음 기호를 무시해야만 일치했을 때 true
	MissingAccents bool `json:"missingAccents"`
}

// Matcher: 사용자 답안을 허용 답안 집합과 비교한다.
// 생성 후 불변이므로 여러 고루틴에서 동시에 써도 된다.
type Matcher struct {
	catalog *Catalog
}

// New: 어휘 테이블로 Matcher 를 생성합니다. tables 는 복사되지 않으므로 이후 수정하지 않는다.
func New(tables Tables) *Matcher {
	return &Matcher{catalog: NewCatalog(tables)}
}

// Profile: 언어 코드에 해당하는 Profile.
func (m *Matcher) Profile(lang string) *Profile {
	return m.catalog.Profile(lang)
}

// Languages: 테이블이 있는 언어 목록.
func (m *Matcher) Languages() []string {
	return m.catalog.Languages()
}

// Normalize: 비교용 정규형을 만듭니다.
func (m *Matcher) Normalize(text, lang string) string {
	return normalizeWith(text, m.catalog.Profile(lang))
}

// CanonicalNumber: 수사를 숫자 문자열로 바꿉니다. 매핑이 없으면 입력 그대로.
func (m *Matcher) CanonicalNumber(text, lang string) string {
	return m.catalog.Profile(lang).Numbers().Canonical(text)
}

// Expand: 정답 문자열로부터 허용 답안 집합을 만듭니다.
// 첫 멤버는 항상 원문 전체의 정규형이다. 구두점뿐인 원문이면 빈 문자열이 들어간다.
func (m *Matcher) Expand(spec, lang string, allowSynonyms bool) *AnswerSet {
	set := NewAnswerSet()
	if strings.TrimSpace(spec) == "" {
		return set
	}
	p := m.catalog.Profile(lang)

	set.Add(normalizeWith(spec, p))

	base := parseAnswerSpec(spec)
	if allowSynonyms && p.HasSynonyms() {
		// 한 단계만 확장한다. 동의어의 동의어는 보지 않는다.
		n := len(base)
		for _, b := range base[:n] {
			base = append(base, p.Synonyms(normalizeWith(b, p))...)
		}
	}

	for _, b := range base {
		normalized := normalizeWith(b, p)
		for _, v := range m.catalog.contractions.Variants(normalized) {
			set.Add(v)
		}
	}
	return set
}

// Match: 미리 만든 허용 답안 집합에 대해 사용자 답안을 판정합니다.
func (m *Matcher) Match(userAnswer string, set *AnswerSet, lang string) MatchResult {
	if strings.TrimSpace(userAnswer) == "" || set.Len() == 0 {
		return MatchResult{}
	}
	p := m.catalog.Profile(lang)

	user := m.catalog.contractions.Expand(normalizeWith(userAnswer, p))

	if !set.matchFolded(StripDiacritics(user)) && !matchNumber(user, set, p.Numbers()) {
		return MatchResult{}
	}
	// 어느 단계로 맞췄든 집합에 그대로 같은 멤버가 없으면 true
	return MatchResult{IsCorrect: true, MissingAccents: !set.Contains(user)}
}

// Validate: 정답 문자열을 확장한 뒤 사용자 답안을 판정합니다.
func (m *Matcher) Validate(userAnswer, spec, lang string, allowSynonyms bool) MatchResult {
	if strings.TrimSpace(userAnswer) == "" || strings.TrimSpace(spec) == "" {
		return MatchResult{}
	}
	return m.Match(userAnswer, m.Expand(spec, lang, allowSynonyms), lang)
}

// matchNumber: 수사/숫자 동치 비교.
func matchNumber(user string, set *AnswerSet, numbers *NumberTable) bool {
	userCanonical := numbers.Canonical(user)
	userIsDigits := isDigits(user)

	for _, member := range set.members {
		if c := numbers.Canonical(member); isDigits(c) && c == userCanonical {
			return true
		}
		if userIsDigits {
			if digits, ok := numbers.Lookup(member); ok && digits == user {
				return true
			}
			continue
		}
		if isDigits(member) {
			for _, w := range numbers.Words(member) {
				if samePhrase(w, user) {
					return true
				}
			}
		}
	}
	return false
}

var (
	defaultMatcherOnce sync.Once
	defaultMatcher     *Matcher
)

// Default: 임베드된 기본 테이블로 만든 공용 Matcher.
// 임베드 YAML 이 깨져 있으면 패닉한다 (빌드 산출물 결함).
func Default() *Matcher {
	defaultMatcherOnce.Do(func() {
		tables, err := DefaultTables()
		if err != nil {
			panic(err)
		}
		defaultMatcher = New(tables)
	})
	return defaultMatcher
}

type validateOptions struct {
	language      string
	allowSynonyms bool
}

// Option: ValidateAnswer 옵션.
type Option func(*validateOptions)

// WithLanguage: 언어 코드 지정 (기본 "en").
func WithLanguage(lang string) Option {
	return func(o *validateOptions) { o.language = lang }
}

// WithSynonyms: 동의어 허용 여부 (기본 true).
func WithSynonyms(allow bool) Option {
	return func(o *validateOptions) { o.allowSynonyms = allow }
}

// ValidateAnswer: 기본 Matcher 로 답안을 판정합니다.
func ValidateAnswer(userAnswer, spec string, opts ...Option) MatchResult {
	o := validateOptions{language: DefaultLanguage, allowSynonyms: true}
	for _, opt := range opts {
		opt(&o)
	}
	return Default().Validate(userAnswer, spec, o.language, o.allowSynonyms)
}
