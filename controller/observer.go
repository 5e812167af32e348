package controller

import "github.com/studyloop/tutorchat/observability"

// Controller event types emitted during the chat loop.
const (
	EventSendStart    observability.EventType = "chat.send.start"
	EventSendComplete observability.EventType = "chat.send.complete"
	EventSendError    observability.EventType = "chat.send.error"
	EventStaleReply   observability.EventType = "chat.send.stale"
	EventResume       observability.EventType = "chat.resume"
	EventReset        observability.EventType = "chat.reset"
	EventCacheError   observability.EventType = "chat.cache.error"
)
