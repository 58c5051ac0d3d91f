package command

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func echoHandler(name string) HandlerFunc {
	return func(ctx context.Context, args []string) (string, string) {
		return name + ":" + strings.Join(args, ","), "text"
	}
}

func testTable() []Descriptor {
	return []Descriptor{
		{
			Name:    "weather",
			Help:    "weather",
			Usage:   "/weather <lat> <lon>",
			MinArgs: 2,
			MaxArgs: 2,
			Validate: func(args []string) bool {
				for _, a := range args {
					if _, err := strconv.ParseFloat(a, 64); err != nil {
						return false
					}
				}
				return true
			},
			Handler: echoHandler("weather"),
		},
		{Name: "fact", Help: "fact", Usage: "/fact", MaxArgs: -1, Handler: echoHandler("fact")},
		{Name: "factorial", Help: "never matched", Usage: "/factorial", MaxArgs: -1, Handler: echoHandler("factorial")},
	}
}

func TestParse_NotACommand(t *testing.T) {
	if cmd := Parse("hello there"); cmd != nil {
		t.Errorf("expected nil for non-command, got %+v", cmd)
	}
}

func TestParse_NameLowercasedArgsSplit(t *testing.T) {
	cmd := Parse("  /Weather 48.8 2.3  ")
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if cmd.Name != "weather" {
		t.Errorf("expected name weather, got %q", cmd.Name)
	}
	if len(cmd.Args) != 2 || cmd.Args[0] != "48.8" || cmd.Args[1] != "2.3" {
		t.Errorf("unexpected args: %v", cmd.Args)
	}
}

func TestParse_IsDeterministic(t *testing.T) {
	a := Parse("/fact one two")
	b := Parse("/fact one two")
	if a.Name != b.Name || len(a.Args) != len(b.Args) || a.Raw != b.Raw {
		t.Error("parsing the same text twice gave different results")
	}
}

func TestDispatch_UnmatchedYieldsHelp(t *testing.T) {
	r := NewRouter(testTable(), testLogger())
	res := r.Dispatch(context.Background(), "what is the weather like?")
	if res.Text != r.Help() {
		t.Errorf("expected help reply, got %q", res.Text)
	}
	if res.Command != "" {
		t.Errorf("expected no matched command, got %q", res.Command)
	}
}

func TestDispatch_UnknownCommandYieldsHelp(t *testing.T) {
	r := NewRouter(testTable(), testLogger())
	res := r.Dispatch(context.Background(), "/unknown")
	if res.Text != r.Help() {
		t.Errorf("expected help reply, got %q", res.Text)
	}
}

func TestDispatch_CaseInsensitive(t *testing.T) {
	r := NewRouter(testTable(), testLogger())
	res := r.Dispatch(context.Background(), "/FACT")
	if res.Command != "fact" {
		t.Errorf("expected fact, got %q", res.Command)
	}
}

func TestDispatch_FirstDeclaredWins(t *testing.T) {
	// "/factorial" starts with "fact", which is declared earlier.
	r := NewRouter(testTable(), testLogger())
	res := r.Dispatch(context.Background(), "/factorial")
	if res.Command != "fact" {
		t.Errorf("expected first-declared fact to win, got %q", res.Command)
	}
}

func TestDispatch_ArityMismatchYieldsUsage(t *testing.T) {
	r := NewRouter(testTable(), testLogger())
	res := r.Dispatch(context.Background(), "/weather 48.8")
	if !res.Usage {
		t.Fatal("expected a usage reply")
	}
	if !strings.Contains(res.Text, "/weather <lat> <lon>") {
		t.Errorf("usage reply should carry the usage string, got %q", res.Text)
	}
}

func TestDispatch_TypeMismatchYieldsUsage(t *testing.T) {
	r := NewRouter(testTable(), testLogger())
	res := r.Dispatch(context.Background(), "/weather north south")
	if !res.Usage {
		t.Fatal("expected a usage reply for non-numeric coordinates")
	}
}

func TestDispatch_MatchedCommandRuns(t *testing.T) {
	r := NewRouter(testTable(), testLogger())
	res := r.Dispatch(context.Background(), "/weather 48.8 2.3")
	if res.Usage {
		t.Fatal("did not expect a usage reply")
	}
	if res.Text != "weather:48.8,2.3" {
		t.Errorf("unexpected handler output: %q", res.Text)
	}
}

func TestHelp_ListsEveryCommand(t *testing.T) {
	r := NewRouter(testTable(), testLogger())
	for _, want := range []string{"/weather <lat> <lon>", "/fact", "/factorial"} {
		if !strings.Contains(r.Help(), want) {
			t.Errorf("help text missing %q", want)
		}
	}
}
