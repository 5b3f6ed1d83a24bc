// Package tagger derives topic tags from raw entry text against a fixed
// keyword vocabulary. Matching is plain case-insensitive substring search
// with no word-boundary enforcement; "cold" inside "coldest" still counts.
package tagger

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var vocabularyYAML []byte

type vocabularyFile struct {
	Keywords []string `yaml:"keywords"`
}

var vocabulary = mustLoadVocabulary()

func mustLoadVocabulary() []string {
	var f vocabularyFile
	if err := yaml.Unmarshal(vocabularyYAML, &f); err != nil {
		panic(fmt.Sprintf("tagger: invalid embedded vocabulary: %v", err))
	}
	if len(f.Keywords) == 0 {
		panic("tagger: embedded vocabulary is empty")
	}
	out := make([]string, 0, len(f.Keywords))
	for _, kw := range f.Keywords {
		out = append(out, strings.ToLower(strings.TrimSpace(kw)))
	}
	return out
}

// Vocabulary returns the keyword list in match order. Callers must not
// mutate the returned slice.
func Vocabulary() []string {
	return vocabulary
}

// Tag returns the vocabulary keywords present in text, in vocabulary order.
// Pure and deterministic; empty text yields an empty set.
func Tag(text string) []string {
	if text == "" {
		return []string{}
	}
	lower := strings.ToLower(text)
	tags := []string{}
	for _, kw := range vocabulary {
		if strings.Contains(lower, kw) {
			tags = append(tags, kw)
		}
	}
	return tags
}

// Frequency counts, per vocabulary keyword, how many of the given texts
// mention it at least once. Keywords never mentioned are omitted.
func Frequency(texts []string) map[string]int {
	counts := make(map[string]int)
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, kw := range vocabulary {
			if strings.Contains(lower, kw) {
				counts[kw]++
			}
		}
	}
	return counts
}
