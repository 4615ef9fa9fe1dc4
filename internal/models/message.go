package models

import "time"

// MessageID is a stable identity for a transcript entry. IDs are never reused
// within a process, so a resolution can always tell whether its entry survived.
type MessageID uint64

// Message is one query/response pair of the transcript
type Message struct {
	ID        MessageID
	Query     string
	Response  string
	Provider  ProviderID
	Pending   bool // call in flight, Response still empty
	Failed    bool // Response holds a formatted error
	CreatedAt time.Time
}
