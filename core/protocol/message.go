// Package protocol defines the conversation types shared by the chat
// subsystems and the remote answering service wire format.
package protocol

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// IsValid reports whether s is a known sender value.
func (s Sender) IsValid() bool {
	return s == SenderUser || s == SenderAssistant
}

// Message is a single conversation turn. Text carries the written content
// and ImageRef is an opaque reference to attached image data; at least one
// of the two must be set. Messages are immutable once created; a live
// conversation is an append-only sequence in chronological order.
type Message struct {
	Sender   Sender `json:"sender"`
	Text     string `json:"text,omitempty"`
	ImageRef string `json:"image,omitempty"`
}

// NewMessage creates a text Message with the given sender.
//
// Example:
//
//	msg := protocol.NewMessage(protocol.SenderUser, "What is 2+2?")
func NewMessage(sender Sender, text string) Message {
	return Message{Sender: sender, Text: text}
}

// NewImageMessage creates a Message carrying an image reference and an
// optional caption.
func NewImageMessage(sender Sender, imageRef, caption string) Message {
	return Message{Sender: sender, Text: caption, ImageRef: imageRef}
}

// IsEmpty reports whether the message carries neither text nor an image.
// Empty messages violate the Message invariant and must not be appended
// to a conversation.
func (m Message) IsEmpty() bool {
	return m.Text == "" && m.ImageRef == ""
}

// InitMessages creates a single-element message slice from a sender and
// text. Convenience wrapper for seeding a conversation with a greeting.
func InitMessages(sender Sender, text string) []Message {
	return []Message{NewMessage(sender, text)}
}
