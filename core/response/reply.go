// Package response parses reply envelopes from the remote answering
// service and normalizes the two shapes it uses for bot messages.
package response

import (
	"encoding/json"

	"github.com/studyloop/tutorchat/core/protocol"
)

// Reply is the normalized form of a bot message. The service sometimes
// sends a bare string candidate and sometimes an object carrying sender
// and text fields; UnmarshalJSON accepts both so callers never have to
// type-switch on the raw payload. Structured records which shape arrived.
type Reply struct {
	Text       string
	ImageRef   string
	Structured bool
}

// UnmarshalJSON handles both the bare-string form ("answer text") and the
// structured form ({"sender": "assistant", "text": "...", "image": "..."}).
func (r *Reply) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		r.Text = text
		r.ImageRef = ""
		r.Structured = false
		return nil
	}

	var structured struct {
		Text     string `json:"text"`
		ImageRef string `json:"image"`
	}
	if err := json.Unmarshal(data, &structured); err != nil {
		return err
	}

	r.Text = structured.Text
	r.ImageRef = structured.ImageRef
	r.Structured = true
	return nil
}

// Message converts the reply into an assistant-side conversation message.
func (r Reply) Message() protocol.Message {
	return protocol.Message{
		Sender:   protocol.SenderAssistant,
		Text:     r.Text,
		ImageRef: r.ImageRef,
	}
}
