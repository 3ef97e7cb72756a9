package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rcliao/memsift/internal/model"
)

const (
	maxKeyPoints    = 10
	maxEntities     = 15
	maxDecisions    = 5
	minKeyPointLen  = 20
	minDecisionLen  = 10
	defaultConsult  = 20
	defaultSumChars = 2000
)

// SummarizeParams holds parameters for summary assembly.
type SummarizeParams struct {
	Query  string            // empty summarizes the newest records
	Type   model.ContentType // optional filter
	Limit  int               // records consulted, default 20
	Budget int               // max chars of key-point material, default 2000
}

// Summary is the assembled report over a slice of store contents.
type Summary struct {
	Consulted      int      `json:"consulted"`
	Stored         int      `json:"stored"`
	KeyPoints      []string `json:"key_points,omitempty"`
	Entities       []string `json:"entities,omitempty"`
	Decisions      []string `json:"decisions,omitempty"`
	MeanRatio      float64  `json:"mean_compression_ratio"`
	MeanImportance float64  `json:"mean_importance"`
	Budget         int      `json:"budget"`
	Used           int      `json:"used"`
}

// Summarize builds a report from existing retrieval and stats output. With
// a query it consults search results, otherwise the newest records. Key
// points pack greedily into the char budget in consultation order.
func (s *Store) Summarize(p SummarizeParams) Summary {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultConsult
	}
	budget := p.Budget
	if budget <= 0 {
		budget = defaultSumChars
	}

	var recs []*model.Record
	if strings.TrimSpace(p.Query) != "" {
		for _, r := range s.Search(SearchParams{Query: p.Query, Type: p.Type, Limit: limit}) {
			rec := r.Record
			recs = append(recs, &rec)
		}
	} else {
		recs = s.List(ListParams{Type: p.Type, Limit: limit})
	}

	st := s.Stats()
	sum := Summary{
		Consulted:      len(recs),
		Stored:         st.RecordCount,
		MeanRatio:      st.MeanRatio,
		MeanImportance: st.MeanImportance,
		Budget:         budget,
	}
	if len(recs) == 0 {
		return sum
	}

	seen := make(map[string]bool)
	used := 0
	for _, rec := range recs {
		if len(sum.KeyPoints) >= maxKeyPoints {
			break
		}
		for _, line := range strings.Split(rec.Reduced, "\n") {
			point := strings.TrimSpace(line)
			if len(point) <= minKeyPointLen || seen[point] {
				continue
			}
			if used+len(point) > budget {
				break
			}
			seen[point] = true
			sum.KeyPoints = append(sum.KeyPoints, point)
			used += len(point)
			if len(sum.KeyPoints) >= maxKeyPoints {
				break
			}
		}
	}
	sum.Used = used

	counts := make(map[string]int)
	for _, rec := range recs {
		for _, e := range rec.Entities {
			counts[e]++
		}
	}
	ents := make([]string, 0, len(counts))
	for e := range counts {
		ents = append(ents, e)
	}
	sort.Slice(ents, func(i, j int) bool {
		if counts[ents[i]] != counts[ents[j]] {
			return counts[ents[i]] > counts[ents[j]]
		}
		return ents[i] < ents[j]
	})
	if len(ents) > maxEntities {
		ents = ents[:maxEntities]
	}
	sum.Entities = ents

	seenDecision := make(map[string]bool)
	for _, rec := range recs {
		if rec.Type != model.Solution || len(sum.Decisions) >= maxDecisions {
			continue
		}
		for _, line := range strings.Split(rec.Reduced, "\n") {
			d := strings.TrimSpace(line)
			if len(d) <= minDecisionLen || seenDecision[d] {
				continue
			}
			seenDecision[d] = true
			sum.Decisions = append(sum.Decisions, d)
			break
		}
	}

	return sum
}

// Render formats the summary as plain text.
func (sum Summary) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d records consulted (%d stored)\n", sum.Consulted, sum.Stored)

	if len(sum.KeyPoints) > 0 {
		b.WriteString("\nKey points:\n")
		for _, p := range sum.KeyPoints {
			fmt.Fprintf(&b, "  - %s\n", p)
		}
	}
	if len(sum.Entities) > 0 {
		fmt.Fprintf(&b, "\nEntities: %s\n", strings.Join(sum.Entities, ", "))
	}
	if len(sum.Decisions) > 0 {
		b.WriteString("\nDecisions:\n")
		for _, d := range sum.Decisions {
			fmt.Fprintf(&b, "  - %s\n", d)
		}
	}

	fmt.Fprintf(&b, "\nmean compression %.2f, mean importance %.2f\n", sum.MeanRatio, sum.MeanImportance)
	return b.String()
}
