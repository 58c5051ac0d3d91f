// Package engine is the message-handling core: dedup, routing, and reply
// delivery, fed by either the poller or the webhook receiver. No failure
// past config validation ever unwinds out of this package.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"webexbot/internal/command"
	"webexbot/internal/domain"
	"webexbot/internal/metrics"
)

// Engine runs the dedup → route → send pipeline for one inbound message.
type Engine struct {
	dedup      domain.Deduper
	dispatcher command.Dispatcher
	sender     domain.Sender
	logger     *slog.Logger
}

func New(dedup domain.Deduper, dispatcher command.Dispatcher, sender domain.Sender, logger *slog.Logger) *Engine {
	return &Engine{
		dedup:      dedup,
		dispatcher: dispatcher,
		sender:     sender,
		logger:     logger,
	}
}

// Handle processes one normalized inbound message. A message id already
// dispatched for its room produces no router, gateway, or sender activity.
// Every downstream failure is absorbed here: logged, counted, and at worst
// turned into a reply that could not be delivered.
func (e *Engine) Handle(ctx context.Context, msg domain.InboundMessage) {
	start := time.Now()
	defer func() {
		metrics.HandlerLatency.Observe(time.Since(start).Seconds())
	}()

	if !e.dedup.Accept(msg.RoomID, msg.ID) {
		e.logger.Debug("duplicate message ignored", "room", msg.RoomID, "id", msg.ID)
		return
	}

	e.logger.Info("processing message",
		"room", msg.RoomID,
		"sender", msg.PersonEmail,
		"text_len", len(msg.Text),
	)

	res := e.dispatcher.Dispatch(ctx, msg.Text)
	if res.Ignore {
		return
	}
	if res.Command != "" && !res.Usage {
		metrics.Commands.WithLabelValues(res.Command).Inc()
	}

	out := domain.OutboundMessage{
		RoomID: msg.RoomID,
		Text:   res.Text,
		Format: res.Format,
	}
	if err := e.sender.Send(ctx, out); err != nil {
		metrics.Errors.WithLabelValues("send").Inc()
		e.logger.Error("reply send failed", "room", msg.RoomID, "error", err)
		return
	}
	metrics.MessagesSent.Inc()
}

// isSelf reports whether a sender address is the bot's own identity.
// Exact case-insensitive match against the configured address; without one,
// fall back to the platform's bot-address suffix.
func isSelf(botEmail, sender string) bool {
	if sender == "" {
		return false
	}
	if botEmail != "" {
		return strings.EqualFold(botEmail, sender)
	}
	return strings.HasSuffix(strings.ToLower(sender), "@webex.bot")
}
