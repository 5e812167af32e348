package exchange

import "github.com/studyloop/tutorchat/observability"

// Exchange event types emitted by the Client.
const (
	EventRequest observability.EventType = "exchange.request"
	EventError   observability.EventType = "exchange.error"
)
