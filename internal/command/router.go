package command

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"webexbot/internal/domain"
)

// HandlerFunc runs a matched command and returns reply text and format.
type HandlerFunc func(ctx context.Context, args []string) (string, string)

// Descriptor is one entry in the command table. Registered at startup,
// matched in declaration order.
type Descriptor struct {
	Name     string // command name without "/"
	Help     string // one-line description for the help reply
	Usage    string // usage hint sent on arity/type mismatch
	MinArgs  int
	MaxArgs  int // -1 = unbounded
	Validate func(args []string) bool
	Handler  HandlerFunc
}

// Dispatcher routes one message text to a reply.
type Dispatcher interface {
	Dispatch(ctx context.Context, text string) Result
}

// Router matches the leading token of a message against the command table.
// Case-insensitive, first-declared-match-wins; anything else gets the help
// reply.
type Router struct {
	table  []Descriptor
	help   string
	logger *slog.Logger
}

func NewRouter(table []Descriptor, logger *slog.Logger) *Router {
	return &Router{
		table:  table,
		help:   buildHelp(table),
		logger: logger,
	}
}

func buildHelp(table []Descriptor) string {
	var sb strings.Builder
	sb.WriteString("**Commands**\n")
	for _, d := range table {
		usage := d.Usage
		if usage == "" {
			usage = "/" + d.Name
		}
		fmt.Fprintf(&sb, "- `%s` — %s\n", usage, d.Help)
	}
	return sb.String()
}

// Help returns the fixed default reply for unmatched text.
func (r *Router) Help() string { return r.help }

func (r *Router) Dispatch(ctx context.Context, text string) Result {
	cmd := Parse(text)
	if cmd == nil {
		return Result{Text: r.help, Format: domain.FormatMarkdown}
	}

	for _, d := range r.table {
		if !strings.HasPrefix(cmd.Name, d.Name) {
			continue
		}
		if len(cmd.Args) < d.MinArgs || (d.MaxArgs >= 0 && len(cmd.Args) > d.MaxArgs) {
			return Result{
				Text:    fmt.Sprintf("Usage: `%s`", d.Usage),
				Format:  domain.FormatMarkdown,
				Command: d.Name,
				Usage:   true,
			}
		}
		if d.Validate != nil && !d.Validate(cmd.Args) {
			return Result{
				Text:    fmt.Sprintf("Usage: `%s`", d.Usage),
				Format:  domain.FormatMarkdown,
				Command: d.Name,
				Usage:   true,
			}
		}

		r.logger.Debug("command matched", "command", d.Name, "args", len(cmd.Args))
		reply, format := d.Handler(ctx, cmd.Args)
		return Result{Text: reply, Format: format, Command: d.Name}
	}

	return Result{Text: r.help, Format: domain.FormatMarkdown}
}
