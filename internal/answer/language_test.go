package answer

import (
	"reflect"
	"testing"
)

func TestCanonicalLanguage(t *testing.T) {
	tests := map[string]string{
		"":       "en",
		"en":     "en",
		"EN-gb":  "en",
		"es-419": "es",
		" fr ":   "fr",
		"pt_BR":  "pt",
	}
	for in, want := range tests {
		if got := CanonicalLanguage(in); got != want {
			t.Errorf("CanonicalLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCatalog_UnknownLanguageEmptyProfile(t *testing.T) {
	p := Default().Profile("klingon-xx")
	if p.HasRegional() || p.HasSynonyms() || p.Numbers() != nil {
		t.Errorf("expected empty profile, got %+v", p)
	}
}

func TestCatalog_Languages(t *testing.T) {
	got := Default().Languages()
	want := []string{"en", "es", "fr"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDefaultTables_IndependentCopies(t *testing.T) {
	a, err := DefaultTables()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.AddRegional("en", "aluminium", "aluminum")
	a.Languages["en"].Synonyms["happy"][0] = "mutated"

	b, err := DefaultTables()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := b.Languages["en"].Regional["aluminium"]; ok {
		t.Error("regional mutation leaked into defaults")
	}
	if b.Languages["en"].Synonyms["happy"][0] == "mutated" {
		t.Error("synonym mutation leaked into defaults")
	}
}

func TestParseTables_Invalid(t *testing.T) {
	if _, err := ParseTables([]byte("languages: [")); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestWordReplacer_Boundaries(t *testing.T) {
	r := newWordReplacer(map[string]string{"do not": "don't", "it is": "it's"}, true)
	tests := map[string]string{
		"do not":       "don't",
		"i do nothing": "i do nothing",
		"it is it is":  "it's it's",
		"bit is":       "bit is",
		"so it is.":    "so it's.",
		"it isn't":     "it isn't",
	}
	for in, want := range tests {
		if got := r.Replace(in); got != want {
			t.Errorf("Replace(%q) = %q, want %q", in, got, want)
		}
	}
}
