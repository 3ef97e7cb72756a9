package score

import (
	"strings"
	"testing"
	"time"

	"github.com/rcliao/memsift/internal/model"
)

func TestScore_Bounds(t *testing.T) {
	now := time.Now()
	cases := []struct {
		text    string
		typ     model.ContentType
		context map[string]string
	}{
		{"", model.Generic, nil},
		{"short note", model.Conversation, nil},
		{strings.Repeat("x", 5000), model.Error, map[string]string{"task": "deploy"}},
		{"def a():\n" + strings.Repeat("if x:\n    pass\n", 50), model.Code, nil},
		{"error exception failed traceback bug fix", model.Generic, map[string]string{"k": "v"}},
	}

	for _, tc := range cases {
		s := Score(tc.text, tc.typ, tc.context, now, now)
		if s < 0 || s > 1 {
			t.Errorf("score %v out of [0,1] for %q type %s", s, tc.text[:min(20, len(tc.text))], tc.typ)
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now := created.Add(48 * time.Hour)
	text := "The fix for the bug was to retry the failed request."

	a := Score(text, model.Solution, map[string]string{"task": "retry"}, created, now)
	b := Score(text, model.Solution, map[string]string{"task": "retry"}, created, now)
	if a != b {
		t.Errorf("identical inputs scored differently: %v vs %v", a, b)
	}
}

func TestLengthSignal_Saturates(t *testing.T) {
	if got := lengthSignal(""); got != 0 {
		t.Errorf("empty text: got %v, want 0", got)
	}
	if got := lengthSignal(strings.Repeat("a", 500)); got != 0.5 {
		t.Errorf("500 chars: got %v, want 0.5", got)
	}
	if got := lengthSignal(strings.Repeat("a", 1000)); got != 1.0 {
		t.Errorf("1000 chars: got %v, want 1.0", got)
	}
	if got := lengthSignal(strings.Repeat("a", 9000)); got != 1.0 {
		t.Errorf("9000 chars: got %v, want saturation at 1.0", got)
	}
}

func TestErrorSignal(t *testing.T) {
	if got := errorSignal("anything at all", model.Error); got != 1.0 {
		t.Errorf("error type: got %v, want 1.0", got)
	}
	if got := errorSignal("raised a ZeroDivisionError in the worker", model.Conversation); got != 1.0 {
		t.Errorf("error token: got %v, want 1.0", got)
	}
	if got := errorSignal("all quiet today", model.Conversation); got != 0 {
		t.Errorf("clean text: got %v, want 0", got)
	}
	// Two of six markers present.
	got := errorSignal("the fix addressed the bug", model.Conversation)
	want := 2.0 / 6.0
	if got != want {
		t.Errorf("graded markers: got %v, want %v", got, want)
	}
}

func TestComplexitySignal(t *testing.T) {
	code := strings.Join([]string{
		"import os",
		"def run():",
		"    pass",
		"class Worker:",
		"    pass",
		"if ready:",
		"    go()",
	}, "\n")
	// import 0.02 + def 0.10 + class 0.15 + if 0.05
	got := complexitySignal(code)
	want := 0.32
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("got %v, want %v", got, want)
	}

	if got := complexitySignal("just prose with no structure"); got != 0 {
		t.Errorf("prose: got %v, want 0", got)
	}

	// Ten defs would be 1.0 uncapped; the per-pattern cap holds it at 0.5.
	defs := strings.Repeat("def f():\n", 10)
	if got := complexitySignal(defs); got != 0.5 {
		t.Errorf("per-pattern cap: got %v, want 0.5", got)
	}
}

func TestContextSignal(t *testing.T) {
	if got := contextSignal(nil); got != 0 {
		t.Errorf("nil context: got %v, want 0", got)
	}
	if got := contextSignal(map[string]string{"k": "  "}); got != 0 {
		t.Errorf("blank values: got %v, want 0", got)
	}
	if got := contextSignal(map[string]string{"task": "deploy"}); got != 1.0 {
		t.Errorf("non-empty value: got %v, want 1.0", got)
	}
}

func TestRecencySignal_Decays(t *testing.T) {
	now := time.Now()
	if got := recencySignal(now, now); got != 1.0 {
		t.Errorf("fresh record: got %v, want 1.0", got)
	}

	week := recencySignal(now.Add(-7*24*time.Hour), now)
	month := recencySignal(now.Add(-30*24*time.Hour), now)
	if week <= 0 || week >= 1 {
		t.Errorf("week-old signal %v out of (0,1)", week)
	}
	if month >= week {
		t.Errorf("expected monotone decay: month %v >= week %v", month, week)
	}

	// A clock that runs ahead must not push the signal past 1.
	if got := recencySignal(now.Add(time.Hour), now); got != 1.0 {
		t.Errorf("future created_at: got %v, want 1.0", got)
	}
}

func TestScore_ErrorContentRanksAboveProse(t *testing.T) {
	now := time.Now()
	errText := "Traceback with a ValueError: invalid literal"
	prose := "We talked about lunch options for a while"

	if e, p := Score(errText, model.Error, nil, now, now), Score(prose, model.Conversation, nil, now, now); e <= p {
		t.Errorf("error content %v should outrank prose %v", e, p)
	}
}
