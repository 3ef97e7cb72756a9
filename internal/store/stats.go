package store

// Stats summarizes store contents and reduction performance.
type Stats struct {
	RecordCount    int            `json:"record_count"`
	Capacity       int            `json:"capacity"`
	MeanRatio      float64        `json:"mean_compression_ratio"`
	MeanImportance float64        `json:"mean_importance_score"`
	Evicted        uint64         `json:"evicted_count_lifetime"`
	OriginalBytes  int            `json:"original_bytes"`
	ReducedBytes   int            `json:"reduced_bytes"`
	SpaceSavedPct  float64        `json:"space_saved_pct"`
	ByType         map[string]int `json:"by_type,omitempty"`
}

// Stats reports counts and means over the current contents plus the
// lifetime eviction total. Means are zero when the store is empty.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		RecordCount: len(s.records),
		Capacity:    s.cfg.MaxRecords,
		Evicted:     s.evicted,
	}
	if len(s.records) == 0 {
		return st
	}

	st.ByType = make(map[string]int)
	var ratioSum, impSum float64
	for _, r := range s.records {
		ratioSum += r.Ratio
		impSum += r.Importance
		st.OriginalBytes += len(r.Original)
		st.ReducedBytes += len(r.Reduced)
		st.ByType[string(r.Type)]++
	}

	n := float64(len(s.records))
	st.MeanRatio = ratioSum / n
	st.MeanImportance = impSum / n
	if st.OriginalBytes > 0 {
		st.SpaceSavedPct = (1 - float64(st.ReducedBytes)/float64(st.OriginalBytes)) * 100
	}
	return st
}
