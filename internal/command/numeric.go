package command

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"webexbot/internal/domain"
)

// NumericHandler runs the delay-then-lookup workflow once the delay has
// elapsed and returns reply text and format.
type NumericHandler func(ctx context.Context, seconds int) (string, string)

// Numeric is the /<integer> operating mode: wait the requested number of
// seconds (clamped), then run the lookup workflow. A deployment runs either
// this mode or the named command table, never both.
type Numeric struct {
	maxDelay int
	handler  NumericHandler
	logger   *slog.Logger

	sleep func(ctx context.Context, d time.Duration)
}

func NewNumeric(maxDelay int, handler NumericHandler, logger *slog.Logger) *Numeric {
	if maxDelay < 1 {
		maxDelay = 5
	}
	return &Numeric{
		maxDelay: maxDelay,
		handler:  handler,
		logger:   logger,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (n *Numeric) Dispatch(ctx context.Context, text string) Result {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return Result{Ignore: true}
	}

	seconds, ok := parseDelay(text[1:])
	if !ok {
		return Result{
			Text:    fmt.Sprintf("Usage: `/<number>` — wait up to %d seconds, then report the ISS position.", n.maxDelay),
			Format:  domain.FormatMarkdown,
			Command: "delay",
			Usage:   true,
		}
	}

	if seconds > n.maxDelay {
		n.logger.Debug("delay clamped", "requested", seconds, "max", n.maxDelay)
		seconds = n.maxDelay
	}

	n.sleep(ctx, time.Duration(seconds)*time.Second)
	reply, format := n.handler(ctx, seconds)
	return Result{Text: reply, Format: format, Command: "delay"}
}

// Clamp limits a requested delay to the configured maximum.
func (n *Numeric) Clamp(seconds int) int {
	if seconds > n.maxDelay {
		return n.maxDelay
	}
	return seconds
}

// parseDelay accepts only an all-digit suffix.
func parseDelay(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	v := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		v = v*10 + int(r-'0')
		if v > 1<<20 {
			// Far beyond any sane delay; clamping handles the rest.
			return 1 << 20, true
		}
	}
	return v, true
}
