// Package entity derives normalized searchable tokens from text.
package entity

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// MaxEntities bounds the output of Extract.
const MaxEntities = 20

const minTokenLen = 3

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "from": true, "was": true, "were": true, "are": true,
	"not": true, "but": true, "you": true, "all": true, "any": true,
	"can": true, "has": true, "had": true, "have": true, "been": true,
	"will": true, "its": true, "into": true, "out": true, "our": true,
}

var (
	backtickRe = regexp.MustCompile("`([^`]+)`")
	quotedRe   = regexp.MustCompile(`"([^"]+)"`)
	errTypeRe  = regexp.MustCompile(`\b[A-Z][a-zA-Z]*(?:Error|Exception)\b`)
	defNameRe  = regexp.MustCompile(`\b(?:func|def|class|type)\s+(\w+)`)
	pathRe     = regexp.MustCompile(`\b\w[\w.-]*(?:/[\w.-]+)+\b`)
	capitalRe  = regexp.MustCompile(`\b[A-Z][a-zA-Z]+\b`)
)

// Tokenize splits text into the normalized token set used on both the index
// and query side: case-folded, punctuation stripped at token edges while
// identifier and path characters survive inside, short tokens and stopwords
// dropped. Output is sorted and duplicate-free.
func Tokenize(text string) []string {
	seen := make(map[string]struct{})
	for _, raw := range splitTokens(text) {
		if tok, ok := normalize(raw); ok {
			seen[tok] = struct{}{}
		}
	}
	return sortedSet(seen)
}

// Extract pulls selective entities: backticked and quoted terms, error-type
// tokens, definition names, file paths, and a bounded number of capitalized
// terms. Normalized like Tokenize, deduplicated, capped at MaxEntities,
// sorted.
func Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var candidates []string
	for _, m := range backtickRe.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, m[1])
	}
	for _, m := range quotedRe.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, m[1])
	}
	candidates = append(candidates, errTypeRe.FindAllString(text, -1)...)
	for _, m := range defNameRe.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, m[1])
	}
	candidates = append(candidates, pathRe.FindAllString(text, -1)...)

	caps := capitalRe.FindAllString(text, -1)
	if len(caps) > 10 {
		caps = caps[:10]
	}
	candidates = append(candidates, caps...)

	seen := make(map[string]struct{})
	var out []string
	for _, c := range candidates {
		tok, ok := normalize(c)
		if !ok {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
		if len(out) == MaxEntities {
			break
		}
	}
	sort.Strings(out)
	return out
}

func splitTokens(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !isTokenRune(r)
	})
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) ||
		r == '.' || r == '_' || r == '-' || r == '/'
}

func normalize(raw string) (string, bool) {
	tok := strings.Trim(strings.ToLower(raw), "._-/")
	if len(tok) < minTokenLen || stopwords[tok] {
		return "", false
	}
	return tok, true
}

func sortedSet(seen map[string]struct{}) []string {
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for tok := range seen {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}
