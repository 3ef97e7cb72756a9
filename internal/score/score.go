// Package score computes record importance from weighted content signals.
package score

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/rcliao/memsift/internal/model"
)

// lengthSaturation is the character count at which the length signal maxes out.
const lengthSaturation = 1000

var errorMarkers = []string{"error", "exception", "failed", "traceback", "bug", "fix"}

var errTypeRe = regexp.MustCompile(`\b[A-Z][a-zA-Z]*(Error|Exception)\b`)

var complexityPatterns = []struct {
	re     *regexp.Regexp
	weight float64
}{
	{regexp.MustCompile(`^(func|def)\b`), 0.10},
	{regexp.MustCompile(`^(class|type)\b`), 0.15},
	{regexp.MustCompile(`^if\b`), 0.05},
	{regexp.MustCompile(`^for\b`), 0.05},
	{regexp.MustCompile(`^while\b`), 0.05},
	{regexp.MustCompile(`^try\b`), 0.10},
	{regexp.MustCompile(`^(import|from)\b`), 0.02},
	{regexp.MustCompile(`\b(TODO|FIXME|NOTE)\b`), 0.10},
}

// Score combines length, error presence, code complexity, context relevance,
// and recency into a single value in [0,1]. Weights sum to 1.0; the result is
// clamped against floating-point drift. Computed once at record creation.
func Score(text string, t model.ContentType, context map[string]string, createdAt, now time.Time) float64 {
	s := lengthSignal(text)*0.20 +
		errorSignal(text, t)*0.30 +
		complexitySignal(text)*0.20 +
		contextSignal(context)*0.20 +
		recencySignal(createdAt, now)*0.10
	return clamp(s)
}

func lengthSignal(text string) float64 {
	return math.Min(float64(len(text))/lengthSaturation, 1.0)
}

// errorSignal is 1.0 for error-typed records and for text carrying an
// error-type token, otherwise graded by how many distinct markers appear.
func errorSignal(text string, t model.ContentType) float64 {
	if t == model.Error || errTypeRe.MatchString(text) {
		return 1.0
	}
	lower := strings.ToLower(text)
	hits := 0
	for _, m := range errorMarkers {
		if strings.Contains(lower, m) {
			hits++
		}
	}
	return math.Min(float64(hits)/float64(len(errorMarkers)), 1.0)
}

// complexitySignal counts structural keywords line by line. Each pattern's
// contribution caps at 0.5 and the total at 1.0.
func complexitySignal(text string) float64 {
	counts := make([]int, len(complexityPatterns))
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		for i, p := range complexityPatterns {
			if p.re.MatchString(trimmed) {
				counts[i]++
			}
		}
	}

	total := 0.0
	for i, p := range complexityPatterns {
		total += math.Min(float64(counts[i])*p.weight, 0.5)
	}
	return math.Min(total, 1.0)
}

func contextSignal(context map[string]string) float64 {
	for _, v := range context {
		if strings.TrimSpace(v) != "" {
			return 1.0
		}
	}
	return 0.0
}

// recencySignal decays exponentially with age; a record scored at its own
// creation time gets the full signal.
func recencySignal(createdAt, now time.Time) float64 {
	ageDays := now.Sub(createdAt).Hours() / 24.0
	if ageDays < 0 {
		ageDays = 0
	}
	return math.Exp(-0.1 * ageDays)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
