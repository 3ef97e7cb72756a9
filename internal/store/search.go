package store

import (
	"sort"

	"github.com/rcliao/memsift/internal/entity"
	"github.com/rcliao/memsift/internal/model"
)

// DefaultSearchLimit caps search results when no limit is given.
const DefaultSearchLimit = 5

// SearchParams holds parameters for relevance-ranked retrieval.
type SearchParams struct {
	Query string
	Type  model.ContentType
	Limit int
}

// Result wraps a record with its relevance to the query.
type Result struct {
	model.Record
	Relevance float64 `json:"relevance"`
}

// Search ranks index candidates by the matched fraction of query tokens
// weighted at 0.7 plus importance at 0.3. Ties go to newer records, ID as
// the final tie-break. Returned records get their access count bumped, so
// the same query twice yields the same order with higher counts.
func (s *Store) Search(p SearchParams) []Result {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	qtokens := entity.Tokenize(p.Query)
	if len(qtokens) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make(map[string]int)
	for _, tok := range qtokens {
		for id := range s.index[tok] {
			matched[id]++
		}
	}
	if len(matched) == 0 {
		return nil
	}

	type candidate struct {
		rec *model.Record
		rel float64
	}
	cands := make([]candidate, 0, len(matched))
	for id, hits := range matched {
		rec := s.records[id]
		if p.Type != "" && rec.Type != p.Type {
			continue
		}
		overlap := float64(hits) / float64(len(qtokens))
		cands = append(cands, candidate{rec: rec, rel: overlap*0.7 + rec.Importance*0.3})
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].rel != cands[j].rel {
			return cands[i].rel > cands[j].rel
		}
		if !cands[i].rec.CreatedAt.Equal(cands[j].rec.CreatedAt) {
			return cands[i].rec.CreatedAt.After(cands[j].rec.CreatedAt)
		}
		return cands[i].rec.ID > cands[j].rec.ID
	})
	if len(cands) > limit {
		cands = cands[:limit]
	}

	results := make([]Result, len(cands))
	for i, c := range cands {
		c.rec.AccessCount++
		results[i] = Result{Record: *c.rec.Clone(), Relevance: c.rel}
	}
	return results
}
