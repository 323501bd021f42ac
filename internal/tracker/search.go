package tracker

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// SearchDocuments matches query against name, category, and description.
// Substrings always match; words of four or more letters also match on a
// small edit distance so "audiogarm" still finds "Audiogram".
func SearchDocuments(docs []Document, query string) []Document {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append([]Document(nil), docs...)
	}
	terms := splitWords(query)
	var out []Document
	for _, d := range docs {
		if matchesDocument(d, query, terms) {
			out = append(out, d)
		}
	}
	return out
}

func matchesDocument(d Document, query string, terms []string) bool {
	hay := strings.ToLower(d.Name + " " + d.Category + " " + d.Description)
	if strings.Contains(hay, query) {
		return true
	}
	words := splitWords(hay)
	for _, term := range terms {
		if !termMatches(term, words) {
			return false
		}
	}
	return len(terms) > 0
}

func termMatches(term string, words []string) bool {
	limit := fuzzLimit(term)
	for _, w := range words {
		if strings.Contains(w, term) {
			return true
		}
		if limit > 0 && levenshtein.ComputeDistance(term, w) <= limit {
			return true
		}
	}
	return false
}

func fuzzLimit(term string) int {
	n := len([]rune(term))
	switch {
	case n >= 8:
		return 2
	case n >= 4:
		return 1
	default:
		return 0
	}
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
