package protocol

// Turn is one outgoing user message plus the metadata sent with it as a
// unit: an optional image reference and the number of seconds elapsed
// since the previous completed exchange.
type Turn struct {
	Text           string
	ImageRef       string
	ElapsedSeconds int
}

// Message converts the turn into the user message it carries.
func (t Turn) Message() Message {
	return Message{Sender: SenderUser, Text: t.Text, ImageRef: t.ImageRef}
}

// IsEmpty reports whether the turn carries neither text nor an image.
func (t Turn) IsEmpty() bool {
	return t.Text == "" && t.ImageRef == ""
}
