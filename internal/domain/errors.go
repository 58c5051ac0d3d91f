package domain

import "fmt"

// ErrorKind classifies a provider chain failure.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport" // request never completed
	KindStatus    ErrorKind = "status"    // non-2xx response
	KindParse     ErrorKind = "parse"     // undecodable body
	KindSemantic  ErrorKind = "semantic"  // decoded body missing success marker or field
	KindTimeout   ErrorKind = "timeout"   // per-call deadline expired
)

// ProviderError is any failure from a provider chain stage. It never
// propagates past the gateway boundary as anything else.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Status   int    // set for KindStatus
	Detail   string // internal only, never shown to the room
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider %s: %s (HTTP %d): %s", e.Provider, e.Kind, e.Status, e.Detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("provider %s: %s: %s", e.Provider, e.Kind, e.Detail)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IngestionError is a poll or detail-fetch failure. Recoverable: the cycle
// or event is skipped and the adapter continues.
type IngestionError struct {
	Op     string // "poll" | "fetch"
	Status int
	Err    error
}

func (e *IngestionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ingestion %s: HTTP %d", e.Op, e.Status)
	}
	return fmt.Sprintf("ingestion %s: %v", e.Op, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// SendError is a failed reply post. Logged, never fatal.
type SendError struct {
	RoomID string
	Status int
	Err    error
}

func (e *SendError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("send to room %s: HTTP %d", e.RoomID, e.Status)
	}
	return fmt.Sprintf("send to room %s: %v", e.RoomID, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }
