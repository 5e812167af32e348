package exchange

import (
	"fmt"
	"net/url"

	"github.com/studyloop/tutorchat/core/protocol"
)

// payload is the wire request shared by both endpoints. The sender is
// always the user; the service distinguishes tutoring dialogue from
// answer checking by endpoint, not by request shape.
type payload struct {
	Text      string `json:"text,omitempty"`
	Image     string `json:"image,omitempty"`
	TimeTaken int    `json:"timeTaken"`
	Sender    string `json:"sender"`
	SessionID string `json:"sessionId"`
}

func newPayload(turn protocol.Turn, sessionID string) payload {
	return payload{
		Text:      turn.Text,
		Image:     turn.ImageRef,
		TimeTaken: turn.ElapsedSeconds,
		Sender:    string(protocol.SenderUser),
		SessionID: sessionID,
	}
}

// Endpoint paths are tagged per-user by an identity path segment.

func instantPath(userKey string) string {
	return fmt.Sprintf("/chat/%s/instant", url.PathEscape(userKey))
}

func checkPath(userKey string) string {
	return fmt.Sprintf("/chat/%s/check", url.PathEscape(userKey))
}
