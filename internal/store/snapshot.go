package store

import (
	"sort"

	"github.com/rcliao/memsift/internal/model"
)

// Snapshot returns copies of every record in ID order plus the lifetime
// eviction count, for handoff to persistence.
func (s *Store) Snapshot() ([]*model.Record, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, s.evicted
}

// Restore replaces store contents with the given records and rebuilds the
// index. Records keep their IDs, scores, and timestamps; entries without an
// ID or with an unknown type are skipped. When the snapshot exceeds
// capacity the eviction policy runs until it fits.
func (s *Store) Restore(recs []*model.Record, evicted uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*model.Record, len(recs))
	s.index = make(map[string]map[string]struct{})
	s.tokens = make(map[string][]string)
	s.evicted = evicted

	for _, r := range recs {
		if r == nil || r.ID == "" || !model.ValidContentTypes[r.Type] {
			continue
		}
		s.insertLocked(r.Clone())
	}
	for len(s.records) > s.cfg.MaxRecords {
		s.evictLocked()
	}
}
