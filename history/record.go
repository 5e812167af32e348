// Package history maintains the local bounded cache of past conversations.
// The collection is a shadow of the server's own history, not a source of
// truth: it is ordered most-recently-updated first, capped at MaxRecords,
// and holds at most one record per non-empty session id.
package history

import (
	"time"

	"github.com/studyloop/tutorchat/core/protocol"
)

// MaxRecords is the history collection size cap. Insertions beyond the cap
// drop the least-recently-updated records from the tail.
const MaxRecords = 50

const titleLimit = 30

// FallbackTitle labels conversations whose first message has no text, such
// as an image-only opener.
const FallbackTitle = "New conversation"

// Record is one persisted history entry. ID is locally generated and
// stable; SessionID is empty for conversations never assigned a server
// session. UpdatedAt is monotonically non-decreasing across updates to the
// same record.
type Record struct {
	ID        string             `json:"id"`
	SessionID string             `json:"session_id,omitempty"`
	Title     string             `json:"title"`
	Messages  []protocol.Message `json:"messages"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// deriveTitle takes the first message's text truncated to titleLimit
// characters, or FallbackTitle when there is no text to derive from.
func deriveTitle(messages []protocol.Message) string {
	if len(messages) == 0 || messages[0].Text == "" {
		return FallbackTitle
	}

	runes := []rune(messages[0].Text)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit])
	}
	return messages[0].Text
}
