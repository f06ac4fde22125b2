// Package archive records completed conversation turns so transcripts
// survive beyond a single session. Archiving is optional; a failed write
// never fails the turn itself.
package archive

import "time"

// Turn is one user message and the assistant reply it produced.
type Turn struct {
	ID               string
	SessionID        string
	UserMessage      string
	AssistantMessage string
	CreatedAt        time.Time
}

// Archive stores and retrieves completed turns.
type Archive interface {
	RecordTurn(sessionID, userMessage, assistantMessage string) error
	Turns(sessionID string) ([]Turn, error)
	Close() error
}
