package tagger

import (
	"reflect"
	"testing"
)

func TestTagMatchesKnownKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single keyword",
			text: "So much fatigue today",
			want: []string{"fatigue"},
		},
		{
			name: "multiple keywords in vocabulary order",
			text: "Headache and nausea after the gym",
			want: []string{"ache", "headache", "nausea", "gym"},
		},
		{
			name: "case insensitive",
			text: "BRAIN FOG all morning",
			want: []string{"brain fog", "rain"},
		},
		{
			name: "substring match without word boundaries",
			text: "felt the coldest it has been",
			want: []string{"cold"},
		},
		{
			name: "no keywords",
			text: "completely unremarkable",
			want: []string{},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Tag(tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("want=%v got=%v", tc.want, got)
			}
		})
	}
}

func TestTagIsDeterministic(t *testing.T) {
	text := "migraine, dizzy, anxious after bad sleep"
	first := Tag(text)
	for i := 0; i < 5; i++ {
		if got := Tag(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: want=%v got=%v", i, first, got)
		}
	}
}

func TestTagSubsetOfVocabulary(t *testing.T) {
	vocab := make(map[string]bool, len(Vocabulary()))
	for _, kw := range Vocabulary() {
		vocab[kw] = true
	}

	for _, tag := range Tag("pain fatigue sleep food weather family doctor workout") {
		if !vocab[tag] {
			t.Fatalf("tag %q not in vocabulary", tag)
		}
	}
}

func TestFrequencyCountsEntriesNotOccurrences(t *testing.T) {
	texts := []string{
		"pain and more pain",
		"pain again",
		"a calm day",
	}
	counts := Frequency(texts)
	if counts["pain"] != 2 {
		t.Fatalf("pain count: want=2 got=%d", counts["pain"])
	}
	if _, ok := counts["nausea"]; ok {
		t.Fatalf("unmentioned keyword should be omitted")
	}
}
