package history

import "github.com/studyloop/tutorchat/observability"

// History event types emitted by the Store.
const (
	EventSaved        observability.EventType = "history.saved"
	EventLoadError    observability.EventType = "history.load.error"
	EventCorrupt      observability.EventType = "history.corrupt"
	EventPersistError observability.EventType = "history.persist.error"
)
