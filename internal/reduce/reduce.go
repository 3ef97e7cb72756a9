// Package reduce shrinks record text with a content-type-specific strategy.
package reduce

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rcliao/memsift/internal/model"
)

// DefaultSizeFloor is the character count below which smart truncation keeps
// text unchanged.
const DefaultSizeFloor = 500

const (
	elision        = "[...]"
	truncationMark = "\n[... compressed ...]\n"
)

// Options configures reduction behavior.
type Options struct {
	SizeFloor int
}

// DefaultOptions returns default reduction options.
func DefaultOptions() Options {
	return Options{SizeFloor: DefaultSizeFloor}
}

// Reduce applies the strategy for the given content type and reports the
// measured ratio len(reduced)/len(text). Empty or whitespace-only input
// yields ("", 1.0); non-empty input never yields empty output. Output never
// expands: when a strategy would grow the text, the original is returned
// with ratio 1.0.
func Reduce(t model.ContentType, text string, opts Options) (string, float64) {
	if opts.SizeFloor <= 0 {
		opts = DefaultOptions()
	}
	if strings.TrimSpace(text) == "" {
		return "", 1.0
	}

	var reduced string
	switch t {
	case model.Conversation:
		reduced = conversation(text)
	case model.Code:
		reduced = code(text)
	case model.Error:
		reduced = errorTrace(text, opts)
	case model.Solution:
		reduced = solution(text, opts)
	default:
		// context, generic
		reduced = truncate(text, opts)
	}

	if strings.TrimSpace(reduced) == "" {
		reduced = truncate(text, opts)
	}
	if len(reduced) >= len(text) {
		return text, 1.0
	}
	return reduced, float64(len(reduced)) / float64(len(text))
}

var conversationKeywords = []string{
	"understand", "need", "should", "must", "important", "key", "solution", "problem",
}

const minSentenceLen = 10

// conversation keeps the first and last sentence plus any substantial
// sentence carrying an importance keyword, eliding dropped runs.
func conversation(text string) string {
	var sentences []string
	for _, part := range strings.Split(text, ".") {
		if s := strings.TrimSpace(part); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) <= 2 {
		return text
	}

	kept := []string{sentences[0]}
	dropped := false
	for _, s := range sentences[1 : len(sentences)-1] {
		if len(s) > minSentenceLen && hasKeyword(s) {
			if dropped {
				kept = append(kept, elision)
				dropped = false
			}
			kept = append(kept, s)
			continue
		}
		dropped = true
	}
	if dropped {
		kept = append(kept, elision)
	}
	kept = append(kept, sentences[len(sentences)-1])

	return strings.Join(kept, ". ")
}

func hasKeyword(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, kw := range conversationKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var codeLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(import|from|#include)\b`),
	regexp.MustCompile(`^(def|class|func|type|var|const)\b`),
	regexp.MustCompile(`^[A-Za-z_]\w*\s*:?=($|[^=])`),
}

// code keeps imports, definitions, and top-level assignments. Kept lines
// preserve their original indentation and order; blanks and comment-only
// lines never match.
func code(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		for _, re := range codeLinePatterns {
			if re.MatchString(trimmed) {
				kept = append(kept, line)
				break
			}
		}
	}
	return strings.Join(kept, "\n")
}

var (
	errTypeRe = regexp.MustCompile(`\b[A-Z][a-zA-Z]*(Error|Exception)\b`)
	lineRefRe = regexp.MustCompile(`(?i)\bline\s+\d+`)
	pathRefRe = regexp.MustCompile(`(?i)\bfile\s+"[^"]+"|\S+\.\w+:\d+`)
)

var errorMarkers = []string{"error:", "exception:", "traceback", "panic:"}

func isErrorKey(line string) bool {
	lower := strings.ToLower(line)
	for _, m := range errorMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return errTypeRe.MatchString(line) || lineRefRe.MatchString(line) || pathRefRe.MatchString(line)
}

// errorTrace keeps the first line, the last line, and every line carrying a
// file reference, line number, or error token. Each dropped run collapses
// into a single marker. Traces with no recognizable structure fall back to
// smart truncation.
func errorTrace(text string, opts Options) string {
	lines := strings.Split(text, "\n")
	if len(lines) < 3 {
		return text
	}

	var kept []string
	elided := 0
	flush := func() {
		if elided > 0 {
			kept = append(kept, fmt.Sprintf("[... %d frames elided ...]", elided))
			elided = 0
		}
	}

	anyKey := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		key := trimmed != "" && isErrorKey(trimmed)
		if key {
			anyKey = true
		}
		if key || i == 0 || i == len(lines)-1 {
			flush()
			kept = append(kept, line)
			continue
		}
		if trimmed != "" {
			elided++
		}
	}

	if !anyKey {
		return truncate(text, opts)
	}
	return strings.Join(kept, "\n")
}

var listItemRe = regexp.MustCompile(`^(\d+\.|[-*+]\s)`)

// solution keeps the first and last paragraph, numbered and bulleted list
// lines, and fenced code blocks in full, with one blank line separating
// retained paragraphs. Re-reducing retained text reproduces it unchanged.
// Single-paragraph text with no list or fence structure falls back to smart
// truncation.
func solution(text string, opts Options) string {
	lines := strings.Split(text, "\n")

	// Assign a paragraph index to each line; blank lines separate paragraphs.
	paraOf := make([]int, len(lines))
	para, lastPara := 0, 0
	inPara := false
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			if inPara {
				para++
			}
			inPara = false
			paraOf[i] = -1
			continue
		}
		inPara = true
		paraOf[i] = para
		lastPara = para
	}

	var kept []string
	lastKeptPara := 0
	keep := func(i int, line string) {
		if p := paraOf[i]; p > lastKeptPara {
			kept = append(kept, "")
			lastKeptPara = p
		}
		kept = append(kept, line)
	}

	inFence := false
	structured := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		fenceDelim := strings.HasPrefix(trimmed, "```")
		switch {
		case fenceDelim:
			inFence = !inFence
			structured = true
			keep(i, line)
		case inFence:
			keep(i, line)
		case paraOf[i] == 0 || paraOf[i] == lastPara:
			keep(i, line)
		case trimmed != "" && listItemRe.MatchString(trimmed):
			structured = true
			keep(i, line)
		}
	}

	if lastPara == 0 && !structured {
		return truncate(text, opts)
	}
	return strings.Join(kept, "\n")
}

// truncate keeps a prefix and suffix window of half the size floor each,
// measured in runes. Text at or under the floor passes through unchanged.
func truncate(text string, opts Options) string {
	if utf8.RuneCountInString(text) <= opts.SizeFloor {
		return text
	}
	half := opts.SizeFloor / 2
	r := []rune(text)
	return string(r[:half]) + truncationMark + string(r[len(r)-half:])
}
