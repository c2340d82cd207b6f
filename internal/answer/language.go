package answer

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage: 언어 코드가 비어 있을 때 사용하는 기본 언어입니다.
const DefaultLanguage = "en"

// CanonicalLanguage: 언어 코드를 기본 언어 태그로 정규화합니다. ("EN-gb" -> "en")
// 파싱할 수 없는 코드는 소문자로만 바꿔 그대로 쓴다.
func CanonicalLanguage(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return DefaultLanguage
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return strings.ToLower(trimmed)
	}
	base, _ := tag.Base()
	return base.String()
}

// Profile: 언어별 처리 능력 묶음입니다. 없는 항목은 no-op 으로 동작한다.
type Profile struct {
	Code     string
	regional *wordReplacer
	synonyms map[string][]string
	numbers  *NumberTable
}

// HasRegional: 지역 철자 정규화 테이블이 있는지 여부.
func (p *Profile) HasRegional() bool { return p != nil && p.regional != nil }

// HasSynonyms: 동의어 테이블이 있는지 여부.
func (p *Profile) HasSynonyms() bool { return p != nil && len(p.synonyms) > 0 }

// Numbers: 수사 테이블. 없으면 nil 이며 nil 테이블도 안전하게 호출할 수 있다.
func (p *Profile) Numbers() *NumberTable {
	if p == nil {
		return nil
	}
	return p.numbers
}

// Synonyms: 정규화된 기본 답안에 대한 동의어 목록 (원문 그대로).
func (p *Profile) Synonyms(normalized string) []string {
	if p == nil {
		return nil
	}
	return p.synonyms[normalized]
}

// Catalog: 언어 코드 -> Profile 조회 테이블입니다.
type Catalog struct {
	profiles     map[string]*Profile
	contractions *contractionTable
}

// NewCatalog: Tables 로부터 언어별 Profile 을 구성합니다.
func NewCatalog(t Tables) *Catalog {
	c := &Catalog{
		profiles:     make(map[string]*Profile, len(t.Languages)),
		contractions: newContractionTable(t.Contractions),
	}

	for lang, lt := range t.Languages {
		code := CanonicalLanguage(lang)
		p := &Profile{Code: code}
		if len(lt.Regional) > 0 {
			p.regional = newWordReplacer(lowerKeys(lt.Regional), false)
		}
		if len(lt.Numbers) > 0 {
			p.numbers = NewNumberTable(lt.Numbers)
		}
		if len(lt.Synonyms) > 0 {
			// 동의어 키는 조회 시점의 기본 답안과 같은 방식으로 정규화한다.
			p.synonyms = make(map[string][]string, len(lt.Synonyms))
			for term, values := range lt.Synonyms {
				key := normalizeWith(term, p)
				if key == "" {
					continue
				}
				p.synonyms[key] = appendUnique(p.synonyms[key], values...)
			}
		}
		c.profiles[code] = p
	}
	return c
}

// Profile: 언어 코드에 해당하는 Profile 을 반환합니다. 모르는 언어는 빈 Profile.
func (c *Catalog) Profile(code string) *Profile {
	canonical := CanonicalLanguage(code)
	if p, ok := c.profiles[canonical]; ok {
		return p
	}
	return &Profile{Code: canonical}
}

// Languages: 테이블이 등록된 언어 코드 목록 (정렬됨).
func (c *Catalog) Languages() []string {
	out := make([]string, 0, len(c.profiles))
	for code := range c.profiles {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func lowerKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		out[key] = strings.ToLower(strings.TrimSpace(v))
	}
	return out
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		dup := false
		for _, existing := range dst {
			if existing == v {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, v)
		}
	}
	return dst
}
