package engine

import (
	"context"
	"log/slog"
	"time"

	"webexbot/internal/domain"
	"webexbot/internal/metrics"
	"webexbot/internal/webex"
)

// MessagePoller fetches the single most recent message for a room.
// *webex.Client satisfies this.
type MessagePoller interface {
	LatestMessage(ctx context.Context, roomID string) (*webex.Message, error)
}

// Poller is the pull-mode ingestion adapter: one sequential loop, one room,
// one iteration fully finished before the next begins. A failed poll skips
// the cycle and never terminates the loop.
type Poller struct {
	client   MessagePoller
	engine   *Engine
	roomID   string
	botEmail string
	interval time.Duration
	logger   *slog.Logger
}

func NewPoller(client MessagePoller, eng *Engine, roomID, botEmail string, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	return &Poller{
		client:   client,
		engine:   eng,
		roomID:   roomID,
		botEmail: botEmail,
		interval: interval,
		logger:   logger,
	}
}

// Run polls until ctx is cancelled. Cancellation is checked between
// iterations only; an in-flight iteration runs to completion.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller started", "room", p.roomID, "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopping")
			return nil
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

// pollOnce runs one fetch → dedup → route → reply cycle.
func (p *Poller) pollOnce(ctx context.Context) {
	msg, err := p.client.LatestMessage(ctx, p.roomID)
	if err != nil {
		metrics.Errors.WithLabelValues("ingest").Inc()
		p.logger.Warn("poll failed, skipping cycle", "error", err)
		return
	}
	if msg == nil {
		// Room has no messages yet.
		return
	}
	if isSelf(p.botEmail, msg.PersonEmail) {
		return
	}

	p.engine.Handle(ctx, domain.InboundMessage{
		ID:          msg.ID,
		RoomID:      p.roomID,
		PersonEmail: msg.PersonEmail,
		Text:        msg.Text,
		ReceivedAt:  time.Now(),
	})
}
