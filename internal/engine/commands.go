package engine

import (
	"context"
	"log/slog"
	"strconv"

	"webexbot/internal/command"
	"webexbot/internal/domain"
	"webexbot/internal/format"
	"webexbot/internal/metrics"
)

// fetchHandler adapts one provider fetch into a command handler: a
// classified failure becomes the fixed apology and bumps the provider's
// error counter.
func fetchHandler(gw domain.Gateway, f *format.Formatter, provider string) command.HandlerFunc {
	return func(ctx context.Context, args []string) (string, string) {
		payload, err := gw.Fetch(ctx, provider, args)
		if err != nil {
			metrics.Errors.WithLabelValues(provider).Inc()
			return f.Apology(provider), domain.FormatText
		}
		return f.Reply(payload)
	}
}

func coordinatePair(args []string) bool {
	if len(args) != 2 {
		return false
	}
	for _, a := range args {
		if _, err := strconv.ParseFloat(a, 64); err != nil {
			return false
		}
	}
	return true
}

// NewCommandRouter builds the named command table over the gateway and
// formatter. Declaration order is match order.
func NewCommandRouter(gw domain.Gateway, f *format.Formatter, logger *slog.Logger) *command.Router {
	table := []command.Descriptor{
		{
			Name:     "weather",
			Help:     "Current weather for a coordinate pair",
			Usage:    "/weather <lat> <lon>",
			MinArgs:  2,
			MaxArgs:  2,
			Validate: coordinatePair,
			Handler:  fetchHandler(gw, f, "weather"),
		},
		{
			Name:    "fact",
			Help:    "Random useless fact",
			Usage:   "/fact",
			MaxArgs: -1,
			Handler: fetchHandler(gw, f, "fact"),
		},
		{
			Name:    "nasa",
			Help:    "NASA picture of the day",
			Usage:   "/nasa",
			MaxArgs: -1,
			Handler: fetchHandler(gw, f, "nasa"),
		},
		{
			Name:    "astros",
			Help:    "Who is in space right now",
			Usage:   "/astros",
			MaxArgs: -1,
			Handler: fetchHandler(gw, f, "astros"),
		},
		{
			Name:    "iss",
			Help:    "Where the ISS is flying right now",
			Usage:   "/iss",
			MaxArgs: -1,
			Handler: fetchHandler(gw, f, "iss"),
		},
	}

	var router *command.Router
	table = append(table, command.Descriptor{
		Name:    "help",
		Help:    "This help",
		Usage:   "/help",
		MaxArgs: -1,
		Handler: func(ctx context.Context, args []string) (string, string) {
			return router.Help(), domain.FormatMarkdown
		},
	})
	router = command.NewRouter(table, logger)
	return router
}

// NewNumericRouter builds the /<seconds> mode: wait, then report the ISS
// position through the same gateway and formatter.
func NewNumericRouter(maxDelay int, gw domain.Gateway, f *format.Formatter, logger *slog.Logger) *command.Numeric {
	workflow := func(ctx context.Context, seconds int) (string, string) {
		payload, err := gw.Fetch(ctx, "iss", nil)
		if err != nil {
			metrics.Errors.WithLabelValues("iss").Inc()
			return f.Apology("iss"), domain.FormatText
		}
		return f.Reply(payload)
	}
	return command.NewNumeric(maxDelay, workflow, logger)
}
