package session

import "github.com/studyloop/tutorchat/observability"

// Session event types emitted by the Manager.
const (
	EventGenerated    observability.EventType = "session.generated"
	EventReset        observability.EventType = "session.reset"
	EventLoadError    observability.EventType = "session.load.error"
	EventPersistError observability.EventType = "session.persist.error"
)
