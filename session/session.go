// Package session owns the active conversation identity: the opaque token
// correlating the local chat with the remote service's conversation state.
package session

import "context"

// Persisted key namespace for the current conversation. KeyActive holds
// the active session id; KeyCurrent holds the ephemeral cache of the live
// conversation, cleared together with the id on Reset.
const (
	KeyActive  = "chat/active_session"
	KeyCurrent = "chat/current"
)

// Identity is the session identity surface the rest of the core consumes.
// Implementations must be safe for concurrent use.
type Identity interface {
	// Active returns the persisted active session id, or false when no
	// session has been started.
	Active(ctx context.Context) (string, bool)
	// GenerateNew produces a fresh session id, persists it as active, and
	// returns it.
	GenerateNew(ctx context.Context) string
	// SetActive overwrites the active id, as when resuming a prior
	// conversation, and persists it.
	SetActive(ctx context.Context, id string)
	// Reset clears the active id and the ephemeral current-conversation
	// cache. It never touches the conversation history collection.
	Reset(ctx context.Context)
}
