package store

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rcliao/memsift/internal/model"
)

func TestStats_Empty(t *testing.T) {
	s := newTestStore(t, Config{MaxRecords: 50})

	st := s.Stats()
	if st.RecordCount != 0 {
		t.Fatalf("expected 0 records, got %d", st.RecordCount)
	}
	if st.Capacity != 50 {
		t.Fatalf("expected capacity 50, got %d", st.Capacity)
	}
	if st.MeanRatio != 0 || st.MeanImportance != 0 {
		t.Fatal("expected zero means on empty store")
	}
	if st.ByType != nil {
		t.Fatal("expected no type breakdown on empty store")
	}
}

func TestStats_MeansAndTypes(t *testing.T) {
	s := newTestStore(t, Config{})
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	a := testRecord("a", 0.2, base, strings.Repeat("a", 50))
	a.Original = strings.Repeat("a", 100)
	a.Ratio = 0.5
	b := testRecord("b", 0.4, base.Add(time.Minute), strings.Repeat("b", 50))
	b.Original = strings.Repeat("b", 100)
	b.Ratio = 1.0
	b.Type = model.Code
	s.Restore([]*model.Record{a, b}, 4)

	st := s.Stats()
	if st.RecordCount != 2 {
		t.Fatalf("expected 2 records, got %d", st.RecordCount)
	}
	if math.Abs(st.MeanRatio-0.75) > 1e-9 {
		t.Fatalf("expected mean ratio 0.75, got %f", st.MeanRatio)
	}
	if math.Abs(st.MeanImportance-0.3) > 1e-9 {
		t.Fatalf("expected mean importance 0.3, got %f", st.MeanImportance)
	}
	if st.Evicted != 4 {
		t.Fatalf("expected lifetime evictions 4, got %d", st.Evicted)
	}
	if st.ByType["context"] != 1 || st.ByType["code"] != 1 {
		t.Fatalf("unexpected type breakdown: %v", st.ByType)
	}
	if math.Abs(st.SpaceSavedPct-50) > 1e-9 {
		t.Fatalf("expected 50%% space saved, got %f", st.SpaceSavedPct)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := newTestStore(t, Config{})

	sum := s.Summarize(SummarizeParams{})
	if sum.Consulted != 0 || sum.Stored != 0 {
		t.Fatalf("expected empty summary, got %+v", sum)
	}
	if len(sum.KeyPoints) != 0 || len(sum.Entities) != 0 || len(sum.Decisions) != 0 {
		t.Fatal("expected no sections on empty store")
	}
}

func TestSummarize_KeyPointsAndEntities(t *testing.T) {
	s := newTestStore(t, Config{})
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	a := testRecord("a", 0.5, base, "kafka broker rebalance storm during deploy")
	a.Entities = []string{"kafka"}
	b := testRecord("b", 0.5, base.Add(time.Minute), "kafka partition count doubled last week")
	b.Entities = []string{"kafka", "partition"}
	s.Restore([]*model.Record{a, b}, 0)

	sum := s.Summarize(SummarizeParams{})
	if sum.Consulted != 2 || sum.Stored != 2 {
		t.Fatalf("expected 2 consulted of 2 stored, got %+v", sum)
	}
	if len(sum.KeyPoints) != 2 {
		t.Fatalf("expected 2 key points, got %d", len(sum.KeyPoints))
	}
	if len(sum.Entities) == 0 || sum.Entities[0] != "kafka" {
		t.Fatalf("expected kafka as the most frequent entity, got %v", sum.Entities)
	}
	if sum.Used == 0 || sum.Used > sum.Budget {
		t.Fatalf("expected used chars within budget, got %d of %d", sum.Used, sum.Budget)
	}
}

func TestSummarize_QueryScope(t *testing.T) {
	s := newTestStore(t, Config{})
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	s.Restore([]*model.Record{
		testRecord("k", 0.5, base, "kafka broker rebalance storm during deploy"),
		testRecord("p", 0.5, base.Add(time.Minute), "postgres index bloat after bulk delete"),
	}, 0)

	sum := s.Summarize(SummarizeParams{Query: "kafka"})
	if sum.Consulted != 1 {
		t.Fatalf("expected 1 consulted record, got %d", sum.Consulted)
	}
	joined := strings.Join(sum.KeyPoints, " ")
	if !strings.Contains(joined, "kafka") {
		t.Fatalf("expected kafka key point, got %v", sum.KeyPoints)
	}
	if strings.Contains(joined, "postgres") {
		t.Fatalf("expected postgres excluded from scope, got %v", sum.KeyPoints)
	}
}

func TestSummarize_Decisions(t *testing.T) {
	s := newTestStore(t, Config{})
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	sol := testRecord("s", 0.6, base, "switch the queue to at-least-once delivery")
	sol.Type = model.Solution
	s.Restore([]*model.Record{
		sol,
		testRecord("c", 0.5, base.Add(time.Minute), "general chatter about the roadmap"),
	}, 0)

	sum := s.Summarize(SummarizeParams{})
	if len(sum.Decisions) != 1 {
		t.Fatalf("expected 1 decision, got %v", sum.Decisions)
	}
	if !strings.Contains(sum.Decisions[0], "at-least-once") {
		t.Fatalf("unexpected decision text: %q", sum.Decisions[0])
	}
}

func TestSummarize_BudgetCapsKeyPoints(t *testing.T) {
	s := newTestStore(t, Config{})
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	var recs []*model.Record
	for i := 0; i < 5; i++ {
		recs = append(recs, testRecord(
			string(rune('a'+i)),
			0.5,
			base.Add(time.Duration(i)*time.Minute),
			fmt.Sprintf("%s distinct point marker number %d", strings.Repeat("x", 20), i),
		))
	}
	s.Restore(recs, 0)

	sum := s.Summarize(SummarizeParams{Budget: 60})
	if sum.Used > 60 {
		t.Fatalf("expected used within budget, got %d", sum.Used)
	}
	if len(sum.KeyPoints) != 1 {
		t.Fatalf("expected budget to cap key points at 1, got %d", len(sum.KeyPoints))
	}
}

func TestSummarize_Render(t *testing.T) {
	s := newTestStore(t, Config{})
	s.Ingest(IngestParams{
		Text: "The retry queue kept growing because acknowledgements never arrived from the consumer group.",
		Type: model.Conversation,
	})

	out := s.Summarize(SummarizeParams{}).Render()
	if !strings.Contains(out, "records consulted") {
		t.Fatalf("expected header in render, got %q", out)
	}
	if !strings.Contains(out, "Key points:") {
		t.Fatalf("expected key points section, got %q", out)
	}
	if !strings.Contains(out, "mean compression") {
		t.Fatalf("expected stats tail, got %q", out)
	}
}
