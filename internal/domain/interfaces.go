package domain

import "context"

// Sender posts a reply to a room. Implementations must not panic on
// transport failure; a failed send is an error for the caller to log.
type Sender interface {
	Send(ctx context.Context, msg OutboundMessage) error
}

// Deduper records the last dispatched message id per room. Accept returns
// true exactly once for a given (roomID, messageID) pair; implementations
// must be safe for concurrent use.
type Deduper interface {
	Accept(roomID, messageID string) bool
}

// Gateway performs one provider fetch, possibly a chain of dependent calls.
// Failures come back as *ProviderError; the payload type is provider-specific.
type Gateway interface {
	Fetch(ctx context.Context, provider string, args []string) (any, error)
}
