package domain

import "time"

// InboundMessage is one observed or pushed room message, normalized by an
// ingestion adapter. Consumed once; never persisted.
type InboundMessage struct {
	ID          string
	RoomID      string
	PersonEmail string
	Text        string
	ReceivedAt  time.Time
}

// OutboundMessage is a reply to be posted to a room.
type OutboundMessage struct {
	RoomID string
	Text   string
	Format string // text | markdown
}

const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)
