package answer

import (
	"reflect"
	"testing"
)

func TestExpand_OriginalFirst(t *testing.T) {
	set := Default().Expand("Children, Sons", "en", false)
	members := set.Members()
	if len(members) == 0 || members[0] != "children sons" {
		t.Fatalf("expected normalized original first, got %v", members)
	}
	for _, want := range []string{"children", "sons"} {
		if !set.Contains(want) {
			t.Errorf("expected %q in %v", want, members)
		}
	}
}

func TestExpand_NoDuplicates(t *testing.T) {
	set := Default().Expand("cat, cat; CAT", "en", false)
	want := []string{"cat cat cat", "cat"}
	if got := set.Members(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExpand_ContractionVariants(t *testing.T) {
	set := Default().Expand("I can't", "en", false)
	for _, want := range []string{"i can't", "i cannot"} {
		if !set.Contains(want) {
			t.Errorf("expected %q in %v", want, set.Members())
		}
	}
}

func TestExpand_Synonyms(t *testing.T) {
	m := Default()
	with := m.Expand("happy", "en", true)
	without := m.Expand("happy", "en", false)

	if !with.Contains("joyful") || !with.Contains("glad") {
		t.Errorf("expected synonyms in %v", with.Members())
	}
	if without.Contains("joyful") {
		t.Errorf("unexpected synonym in %v", without.Members())
	}
}

func TestExpand_SplitsInsideParentheses(t *testing.T) {
	set := Default().Expand("to eat (food, meal)", "en", false)
	want := []string{"to eat", "to eat food", "meal"}
	if got := set.Members(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExpand_PunctuationOnlyKeepsEmptyForm(t *testing.T) {
	set := Default().Expand("?", "en", false)
	if !set.Contains("") || set.Len() != 1 {
		t.Errorf("expected only the empty normalized form, got %q", set.Members())
	}
}

func TestExpand_Empty(t *testing.T) {
	if n := Default().Expand("   ", "en", true).Len(); n != 0 {
		t.Errorf("expected empty set, got %d members", n)
	}
}

func TestParseAnswerSpec(t *testing.T) {
	tests := []struct {
		spec string
		want []string
	}{
		{"(to) recycle", []string{"to recycle", "recycle"}},
		{"(you) play", []string{"you play", "play"}},
		{"red, blue; green/yellow|pink", []string{"red", "blue", "green", "yellow", "pink"}},
		{"salt and pepper", []string{"salt", "pepper"}},
		{"tea OR coffee", []string{"tea", "coffee"}},
		{"I run", []string{"I run"}},
		{"you I me", []string{"you", "me"}},
		{"android", []string{"android"}},
		{"sand or", []string{"sand or"}},
		{"to eat (food, drink)", []string{"to eat (food", "drink)"}},
		{"pet (dog or cat)", []string{"pet (dog", "cat)"}},
		{"a (b, c", []string{"a (b", "c"}},
		{"()", []string{"()"}},
		{" , ; ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got := parseAnswerSpec(tt.spec)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseAnswerSpec(%q) = %#v, want %#v", tt.spec, got, tt.want)
			}
		})
	}
}
