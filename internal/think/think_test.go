package think

import (
	"strings"
	"testing"
)

func TestAdd_Numbering(t *testing.T) {
	c := NewChain()

	for i, text := range []string{"read the stack trace", "check the config", "conclusion: bad path"} {
		ack, err := c.Add(ThoughtParams{Text: text})
		if err != nil {
			t.Fatal(err)
		}
		if ack.Number != i+1 {
			t.Fatalf("expected number %d, got %d", i+1, ack.Number)
		}
		if ack.Total != i+1 {
			t.Fatalf("expected total %d, got %d", i+1, ack.Total)
		}
	}

	if got := len(c.Thoughts()); got != 3 {
		t.Fatalf("expected 3 thoughts, got %d", got)
	}
}

func TestAdd_EmptyRejected(t *testing.T) {
	c := NewChain()
	if _, err := c.Add(ThoughtParams{Text: "   "}); err == nil {
		t.Fatal("expected error for empty thought")
	}
}

func TestAdd_RevisionBounds(t *testing.T) {
	c := NewChain()
	c.Add(ThoughtParams{Text: "initial guess"})

	if _, err := c.Add(ThoughtParams{Text: "better guess", RevisesNumber: 5}); err == nil {
		t.Fatal("expected error revising an unrecorded thought")
	}

	ack, err := c.Add(ThoughtParams{Text: "better guess", RevisesNumber: 1})
	if err != nil {
		t.Fatal(err)
	}
	if ack.Number != 2 {
		t.Fatalf("expected number 2, got %d", ack.Number)
	}
	if got := c.Thoughts()[1].Revises; got != 1 {
		t.Fatalf("expected revises 1, got %d", got)
	}
}

func TestAdd_Branches(t *testing.T) {
	c := NewChain()
	c.Add(ThoughtParams{Text: "main line"})

	if _, err := c.Add(ThoughtParams{Text: "side idea", BranchID: "alt"}); err == nil {
		t.Fatal("expected error opening a branch without an origin")
	}

	ack, err := c.Add(ThoughtParams{Text: "side idea", BranchID: "alt", BranchFrom: 1})
	if err != nil {
		t.Fatal(err)
	}
	if ack.BranchID != "alt" {
		t.Fatalf("expected branch alt, got %q", ack.BranchID)
	}

	// Continuing a known branch needs no origin
	if _, err := c.Add(ThoughtParams{Text: "side idea continued", BranchID: "alt"}); err != nil {
		t.Fatal(err)
	}
	ts := c.Thoughts()
	if ts[2].BranchFrom != 1 {
		t.Fatalf("expected branch origin 1, got %d", ts[2].BranchFrom)
	}
}

func TestHypotheses(t *testing.T) {
	c := NewChain()
	c.Add(ThoughtParams{Text: "looking at logs"})
	c.Add(ThoughtParams{Text: "Hypothesis: the cache returns stale entries"})
	c.Add(ThoughtParams{Text: "verified with a repro"})
	c.Add(ThoughtParams{Text: "solution: invalidate on write"})

	hyps := c.Hypotheses()
	if len(hyps) != 2 {
		t.Fatalf("expected 2 hypotheses, got %d", len(hyps))
	}
	if hyps[0].Number != 2 || hyps[1].Number != 4 {
		t.Fatalf("unexpected hypothesis numbers: %d, %d", hyps[0].Number, hyps[1].Number)
	}
}

func TestSynthesis(t *testing.T) {
	c := NewChain()

	if got := c.Synthesis(); !strings.Contains(got, "no thoughts") {
		t.Fatalf("expected empty-chain message, got %q", got)
	}

	c.Add(ThoughtParams{Text: "first pass"})
	c.Add(ThoughtParams{Text: "second pass", RevisesNumber: 1})
	c.Add(ThoughtParams{Text: "conclusion: retry with backoff"})

	out := c.Synthesis()
	if !strings.Contains(out, "3 thoughts, 1 revisions, 0 branches") {
		t.Fatalf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "Hypotheses:") {
		t.Fatalf("expected hypotheses section: %q", out)
	}
	if !strings.Contains(out, "Final: conclusion: retry with backoff") {
		t.Fatalf("expected final line: %q", out)
	}
}
