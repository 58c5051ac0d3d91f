package command

import (
	"context"
	"testing"
	"time"
)

// newTestNumeric builds a numeric router with an instant sleep that records
// the clamped delay it was asked for.
func newTestNumeric(maxDelay int, slept *time.Duration) *Numeric {
	n := NewNumeric(maxDelay, func(ctx context.Context, seconds int) (string, string) {
		return "done", "text"
	}, testLogger())
	n.sleep = func(ctx context.Context, d time.Duration) {
		if slept != nil {
			*slept = d
		}
	}
	return n
}

func TestNumeric_WithinMaxPassesThrough(t *testing.T) {
	var slept time.Duration
	n := newTestNumeric(5, &slept)

	res := n.Dispatch(context.Background(), "/3")
	if res.Usage || res.Ignore {
		t.Fatalf("expected a normal dispatch, got %+v", res)
	}
	if slept != 3*time.Second {
		t.Errorf("expected 3s delay, got %s", slept)
	}
	if res.Command != "delay" {
		t.Errorf("expected delay command, got %q", res.Command)
	}
}

func TestNumeric_AboveMaxIsClamped(t *testing.T) {
	var slept time.Duration
	n := newTestNumeric(5, &slept)

	res := n.Dispatch(context.Background(), "/120")
	if res.Usage {
		t.Fatal("clamped input must not be a usage error")
	}
	if slept != 5*time.Second {
		t.Errorf("expected clamp to 5s, got %s", slept)
	}
}

func TestNumeric_NonNumericSuffixYieldsUsage(t *testing.T) {
	n := newTestNumeric(5, nil)
	for _, text := range []string{"/abc", "/3x", "/", "/-1", "/1.5"} {
		res := n.Dispatch(context.Background(), text)
		if !res.Usage {
			t.Errorf("%q: expected usage reply, got %+v", text, res)
		}
	}
}

func TestNumeric_NonSlashTextIgnored(t *testing.T) {
	n := newTestNumeric(5, nil)
	res := n.Dispatch(context.Background(), "good morning")
	if !res.Ignore {
		t.Errorf("expected non-slash text to be ignored, got %+v", res)
	}
}

func TestNumeric_Clamp(t *testing.T) {
	n := NewNumeric(5, nil, testLogger())
	if got := n.Clamp(3); got != 3 {
		t.Errorf("Clamp(3) = %d", got)
	}
	if got := n.Clamp(9); got != 5 {
		t.Errorf("Clamp(9) = %d", got)
	}
}

func TestParseDelay(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"0", 0, true},
		{"5", 5, true},
		{"042", 42, true},
		{"", 0, false},
		{"five", 0, false},
		{"5s", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseDelay(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("parseDelay(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
