// Package think records sequential reasoning traces with revisions and
// branches and synthesizes them into a wrap-up.
package think

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ThoughtParams holds parameters for appending one thought.
type ThoughtParams struct {
	Text          string
	RevisesNumber int    // >0 marks a revision of that thought
	BranchID      string // non-empty opens or continues a side branch
	BranchFrom    int    // origin thought, required when opening a branch
}

// Thought is one recorded step.
type Thought struct {
	Number     int       `json:"number"`
	Text       string    `json:"text"`
	Revises    int       `json:"revises,omitempty"`
	BranchID   string    `json:"branch_id,omitempty"`
	BranchFrom int       `json:"branch_from,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Ack reports the numbering applied to an added thought.
type Ack struct {
	Number   int    `json:"number"`
	Total    int    `json:"total"`
	BranchID string `json:"branch_id,omitempty"`
}

// Chain accumulates thoughts in arrival order. Not safe for concurrent use.
type Chain struct {
	thoughts []Thought
	branches map[string]int
	now      func() time.Time
}

// NewChain returns an empty chain.
func NewChain() *Chain {
	return &Chain{branches: make(map[string]int), now: time.Now}
}

// Add appends a thought. A revision must point at an existing thought; a
// new branch must name the thought it forks from.
func (c *Chain) Add(p ThoughtParams) (Ack, error) {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return Ack{}, errors.New("empty thought")
	}
	if p.RevisesNumber > 0 && p.RevisesNumber > len(c.thoughts) {
		return Ack{}, fmt.Errorf("cannot revise thought %d: only %d recorded",
			p.RevisesNumber, len(c.thoughts))
	}
	if p.BranchID != "" {
		if _, ok := c.branches[p.BranchID]; !ok {
			if p.BranchFrom <= 0 || p.BranchFrom > len(c.thoughts) {
				return Ack{}, fmt.Errorf("branch %q must fork from an existing thought", p.BranchID)
			}
			c.branches[p.BranchID] = p.BranchFrom
		}
	}

	t := Thought{
		Number:    len(c.thoughts) + 1,
		Text:      text,
		Revises:   p.RevisesNumber,
		BranchID:  p.BranchID,
		CreatedAt: c.now(),
	}
	if p.BranchID != "" {
		t.BranchFrom = c.branches[p.BranchID]
	}
	c.thoughts = append(c.thoughts, t)

	return Ack{Number: t.Number, Total: len(c.thoughts), BranchID: t.BranchID}, nil
}

// Thoughts returns the recorded steps in order.
func (c *Chain) Thoughts() []Thought {
	out := make([]Thought, len(c.thoughts))
	copy(out, c.thoughts)
	return out
}

var hypothesisPrefixes = []string{"hypothesis:", "conclusion:", "solution:", "answer:"}

// Hypotheses returns thoughts whose text opens with a conclusion marker.
func (c *Chain) Hypotheses() []Thought {
	var out []Thought
	for _, t := range c.thoughts {
		lower := strings.ToLower(t.Text)
		for _, p := range hypothesisPrefixes {
			if strings.HasPrefix(lower, p) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// Synthesis formats the wrap-up: totals, hypotheses, and the final thought.
func (c *Chain) Synthesis() string {
	if len(c.thoughts) == 0 {
		return "no thoughts recorded\n"
	}

	revisions := 0
	for _, t := range c.thoughts {
		if t.Revises > 0 {
			revisions++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d thoughts, %d revisions, %d branches\n",
		len(c.thoughts), revisions, len(c.branches))

	if hyps := c.Hypotheses(); len(hyps) > 0 {
		b.WriteString("\nHypotheses:\n")
		for _, h := range hyps {
			fmt.Fprintf(&b, "  %d. %s\n", h.Number, h.Text)
		}
	}

	last := c.thoughts[len(c.thoughts)-1]
	fmt.Fprintf(&b, "\nFinal: %s\n", last.Text)
	return b.String()
}
