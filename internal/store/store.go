// Package store provides the bounded in-memory record store and token index.
package store

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/memsift/internal/entity"
	"github.com/rcliao/memsift/internal/model"
	"github.com/rcliao/memsift/internal/reduce"
	"github.com/rcliao/memsift/internal/score"
)

// Error values returned by store operations.
var (
	ErrInvalidContentType = errors.New("invalid content type")
	ErrNotFound           = errors.New("record not found")
)

// Config tunes capacity and reduction behavior. Zero fields fall back to
// defaults; the store owns its configuration for its whole lifetime.
type Config struct {
	MaxRecords           int
	ImportanceThreshold  float64
	CompressionSizeFloor int
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{
		MaxRecords:           1000,
		ImportanceThreshold:  0.5,
		CompressionSizeFloor: reduce.DefaultSizeFloor,
	}
}

// IngestParams holds parameters for storing one record.
type IngestParams struct {
	Text    string
	Type    model.ContentType
	Context map[string]string
}

// BatchItem is one entry of a batch ingestion.
type BatchItem struct {
	Text    string            `json:"text"`
	Type    model.ContentType `json:"type"`
	Context map[string]string `json:"context,omitempty"`
}

// BatchResult reports the outcome of one batch item, aligned by position.
type BatchResult struct {
	ID  string
	Err error
}

// ListParams holds parameters for listing records.
type ListParams struct {
	Type  model.ContentType
	Limit int
}

// Store holds records and their token index under one lock. Operations that
// mutate state, including the access-count bump on retrieval, take the write
// lock; pure reads share the read lock.
type Store struct {
	mu      sync.RWMutex
	cfg     Config
	records map[string]*model.Record
	index   map[string]map[string]struct{}
	tokens  map[string][]string
	evicted uint64
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// New creates an empty store with the given configuration.
func New(cfg Config) *Store {
	def := DefaultConfig()
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = def.MaxRecords
	}
	if cfg.ImportanceThreshold <= 0 {
		cfg.ImportanceThreshold = def.ImportanceThreshold
	}
	if cfg.CompressionSizeFloor <= 0 {
		cfg.CompressionSizeFloor = def.CompressionSizeFloor
	}

	return &Store{
		cfg:     cfg,
		records: make(map[string]*model.Record),
		index:   make(map[string]map[string]struct{}),
		tokens:  make(map[string][]string),
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		now:     time.Now,
	}
}

// Config returns the store's effective configuration.
func (s *Store) Config() Config {
	return s.cfg
}

// newID must be called under the write lock; the entropy source is not
// concurrency-safe. Monotonic entropy keeps IDs ordered within one clock
// tick, so ID order always matches creation order.
func (s *Store) newID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

// Ingest reduces, scores, and stores one record. Unknown content types fail
// with ErrInvalidContentType; empty text is stored as a degenerate record.
// When the store is full the lowest-value record is evicted before the new
// one is admitted, so the capacity bound holds at every moment.
func (s *Store) Ingest(p IngestParams) (*model.Record, error) {
	if !model.ValidContentTypes[p.Type] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContentType, p.Type)
	}

	now := s.clock().UTC()
	reduced, ratio := reduce.Reduce(p.Type, p.Text, reduce.Options{SizeFloor: s.cfg.CompressionSizeFloor})
	entities := entity.Extract(reduced)
	importance := score.Score(p.Text, p.Type, p.Context, now, now)

	var ctx map[string]string
	if len(p.Context) > 0 {
		ctx = make(map[string]string, len(p.Context))
		for k, v := range p.Context {
			ctx[k] = v
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &model.Record{
		ID:         s.newID(now),
		Type:       p.Type,
		Original:   p.Text,
		Reduced:    reduced,
		Ratio:      ratio,
		Importance: importance,
		Entities:   entities,
		Context:    ctx,
		CreatedAt:  now,
	}

	for len(s.records) >= s.cfg.MaxRecords {
		s.evictLocked()
	}
	s.insertLocked(rec)

	return rec.Clone(), nil
}

// IngestBatch stores items one by one; a failing item never aborts the rest.
func (s *Store) IngestBatch(items []BatchItem) []BatchResult {
	results := make([]BatchResult, len(items))
	for i, it := range items {
		rec, err := s.Ingest(IngestParams{Text: it.Text, Type: it.Type, Context: it.Context})
		if err != nil {
			results[i] = BatchResult{Err: err}
			continue
		}
		results[i] = BatchResult{ID: rec.ID}
	}
	return results
}

// Get returns a copy of the record and bumps its access count.
func (s *Store) Get(id string) (*model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	rec.AccessCount++
	return rec.Clone(), nil
}

// Remove deletes a record and its index entries. Removing an absent ID is a
// no-op; the return value reports whether anything was removed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return false
	}
	s.removeLocked(id)
	return true
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// List returns copies of stored records, newest first.
func (s *Store) List(p ListParams) []*model.Record {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Record
	for _, r := range s.records {
		if p.Type != "" && r.Type != p.Type {
			continue
		}
		out = append(out, r.Clone())
	}
	sortNewestFirst(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// insertLocked adds the record and its index entries together, unindexing
// any existing record under the same ID first.
func (s *Store) insertLocked(rec *model.Record) {
	if _, ok := s.records[rec.ID]; ok {
		s.removeLocked(rec.ID)
	}
	toks := recordTokens(rec)
	s.records[rec.ID] = rec
	s.tokens[rec.ID] = toks
	for _, tok := range toks {
		ids, ok := s.index[tok]
		if !ok {
			ids = make(map[string]struct{})
			s.index[tok] = ids
		}
		ids[rec.ID] = struct{}{}
	}
}

// removeLocked drops the record and prunes its index entries exactly.
func (s *Store) removeLocked(id string) {
	for _, tok := range s.tokens[id] {
		ids := s.index[tok]
		delete(ids, id)
		if len(ids) == 0 {
			delete(s.index, tok)
		}
	}
	delete(s.tokens, id)
	delete(s.records, id)
}

// evictLocked removes the lowest-value record: lowest importance first,
// oldest losing ties, ID as the final tie-break. Records above the
// importance threshold are spared unless every record sits above it, in
// which case capacity pressure overrides the floor.
func (s *Store) evictLocked() {
	if len(s.records) == 0 {
		return
	}

	var victim *model.Record
	for _, r := range s.records {
		if r.Importance > s.cfg.ImportanceThreshold {
			continue
		}
		if victim == nil || evictionOrder(r, victim) {
			victim = r
		}
	}
	if victim == nil {
		for _, r := range s.records {
			if victim == nil || evictionOrder(r, victim) {
				victim = r
			}
		}
	}

	s.removeLocked(victim.ID)
	s.evicted++
}

// evictionOrder reports whether a goes before b in eviction order.
func evictionOrder(a, b *model.Record) bool {
	if a.Importance != b.Importance {
		return a.Importance < b.Importance
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// recordTokens derives the index token set: reduced-text tokens plus
// entities, split and normalized the same way queries are.
func recordTokens(rec *model.Record) []string {
	text := rec.Reduced
	if len(rec.Entities) > 0 {
		text += "\n" + strings.Join(rec.Entities, "\n")
	}
	return entity.Tokenize(text)
}

func sortNewestFirst(recs []*model.Record) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].ID > recs[j].ID
	})
}
