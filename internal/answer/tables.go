package answer

import (
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/park285/llm-kakao-bots/answer-check-go/internal/answer/assets"
)

// Tables: 정답 판정에 쓰이는 읽기 전용 어휘 테이블 묶음입니다.
// New 로 Matcher 를 만든 뒤에는 변경하지 않는다.
type Tables struct {
	// Contractions: 축약형 -> 풀어쓴 형태 (언어 공통)
	Contractions map[string]string         `yaml:"contractions"`
	Languages    map[string]LanguageTables `yaml:"languages"`
}

// LanguageTables: 언어별 지역 철자, 동의어, 수사 테이블입니다.
type LanguageTables struct {
	Regional map[string]string   `yaml:"regional"`
	Synonyms map[string][]string `yaml:"synonyms"`
	Numbers  map[string]string   `yaml:"numbers"`
}

var (
	defaultTablesOnce sync.Once
	defaultTables     Tables
	defaultTablesErr  error
)

// ParseTables: YAML 문서를 Tables 로 디코딩합니다.
func ParseTables(data []byte) (Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tables{}, fmt.Errorf("decode lexicon yaml failed: %w", err)
	}
	return t, nil
}

// DefaultTables: 임베드된 어휘 테이블과 생성된 영어/스페인어 수사 테이블을 합쳐 반환합니다.
// 호출마다 독립된 복사본을 반환하므로 호출자가 수정해도 된다.
func DefaultTables() (Tables, error) {
	defaultTablesOnce.Do(func() {
		parsed, err := ParseTables([]byte(assets.LexiconYAML))
		if err != nil {
			defaultTablesErr = err
			return
		}

		base := Tables{}
		for term, digits := range englishNumberWords() {
			base.AddNumber("en", term, digits)
		}
		for term, digits := range spanishNumberWords() {
			base.AddNumber("es", term, digits)
		}
		base.Merge(parsed)
		defaultTables = base
	})
	if defaultTablesErr != nil {
		return Tables{}, defaultTablesErr
	}
	return defaultTables.Clone(), nil
}

// Clone: 깊은 복사본을 만듭니다.
func (t Tables) Clone() Tables {
	out := Tables{}
	out.Merge(t)
	return out
}

// Merge: other 의 항목을 덮어씁니다. 동의어 목록은 이어 붙인다.
func (t *Tables) Merge(other Tables) {
	for term, expanded := range other.Contractions {
		t.AddContraction(term, expanded)
	}
	for lang, lt := range other.Languages {
		t.language(lang)
		for term, value := range lt.Regional {
			t.AddRegional(lang, term, value)
		}
		for term, values := range lt.Synonyms {
			for _, v := range values {
				t.AddSynonym(lang, term, v)
			}
		}
		for term, digits := range lt.Numbers {
			t.AddNumber(lang, term, digits)
		}
	}
}

// AddContraction: 축약형 항목을 추가하거나 교체합니다.
func (t *Tables) AddContraction(term, expanded string) {
	if t.Contractions == nil {
		t.Contractions = make(map[string]string)
	}
	t.Contractions[term] = expanded
}

// AddRegional: 지역 철자 항목을 추가하거나 교체합니다.
func (t *Tables) AddRegional(lang, term, canonical string) {
	lt := t.language(lang)
	if lt.Regional == nil {
		lt.Regional = make(map[string]string)
	}
	lt.Regional[term] = canonical
	t.Languages[CanonicalLanguage(lang)] = lt
}

// AddSynonym: 동의어를 추가합니다. 이미 있는 값은 무시한다.
func (t *Tables) AddSynonym(lang, term, synonym string) {
	lt := t.language(lang)
	if lt.Synonyms == nil {
		lt.Synonyms = make(map[string][]string)
	}
	for _, existing := range lt.Synonyms[term] {
		if existing == synonym {
			return
		}
	}
	lt.Synonyms[term] = append(lt.Synonyms[term], synonym)
	t.Languages[CanonicalLanguage(lang)] = lt
}

// AddNumber: 수사 항목을 추가하거나 교체합니다.
func (t *Tables) AddNumber(lang, term, digits string) {
	lt := t.language(lang)
	if lt.Numbers == nil {
		lt.Numbers = make(map[string]string)
	}
	lt.Numbers[term] = digits
	t.Languages[CanonicalLanguage(lang)] = lt
}

func (t *Tables) language(lang string) LanguageTables {
	if t.Languages == nil {
		t.Languages = make(map[string]LanguageTables)
	}
	code := CanonicalLanguage(lang)
	lt, ok := t.Languages[code]
	if !ok {
		t.Languages[code] = lt
	}
	return lt
}
