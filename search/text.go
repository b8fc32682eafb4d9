package search

import "strings"

// Synonym pairs used by the semantic strategy. Expansion is symmetric: each
// term maps to its synonyms and each synonym maps back to the term.
var synonymPairs = map[string][]string{
	"user":        {"customer", "client", "end-user"},
	"system":      {"platform", "application", "service"},
	"feature":     {"functionality", "capability", "component"},
	"requirement": {"specification", "need", "criteria"},
}

var synonyms map[string][]string

func init() {
	synonyms = make(map[string][]string, len(synonymPairs)*4)
	for term, syns := range synonymPairs {
		synonyms[term] = append(synonyms[term], syns...)
		for _, syn := range syns {
			synonyms[syn] = append(synonyms[syn], term)
		}
	}
}

// Tokenize splits text into lowercase tokens, trims punctuation, and drops
// tokens of length <= 2. All strategies share these token rules.
func Tokenize(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if len(cleaned) > 2 {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

// tokenSet builds a set from a token list.
func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
	}
	return set
}

// expandTokens builds a token set enriched with synonyms.
// Originals are kept; synonyms are added alongside them.
func expandTokens(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
		for _, syn := range synonyms[tok] {
			set[syn] = true
		}
	}
	return set
}

// phraseSet extracts the 2-gram and 3-gram phrase set from raw text.
// Phrases are built over tokenized words without synonym expansion.
func phraseSet(text string) map[string]bool {
	tokens := Tokenize(text)
	set := make(map[string]bool)
	for _, n := range []int{2, 3} {
		for i := 0; i+n <= len(tokens); i++ {
			set[strings.Join(tokens[i:i+n], " ")] = true
		}
	}
	return set
}

// jaccard computes |A∩B| / |A∪B| for two sets.
// Two empty sets have similarity 0.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
