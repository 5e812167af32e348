package protocol_test

import (
	"encoding/json"
	"testing"

	"github.com/studyloop/tutorchat/core/protocol"
)

func TestSender_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		sender protocol.Sender
		want   bool
	}{
		{"user", protocol.SenderUser, true},
		{"assistant", protocol.SenderAssistant, true},
		{"system", protocol.Sender("system"), false},
		{"empty", protocol.Sender(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sender.IsValid(); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.sender, got, tt.want)
			}
		})
	}
}

func TestNewMessage(t *testing.T) {
	msg := protocol.NewMessage(protocol.SenderUser, "What is 2+2?")

	if msg.Sender != protocol.SenderUser {
		t.Errorf("got sender %q, want %q", msg.Sender, protocol.SenderUser)
	}
	if msg.Text != "What is 2+2?" {
		t.Errorf("got text %q, want %q", msg.Text, "What is 2+2?")
	}
	if msg.ImageRef != "" {
		t.Errorf("got image ref %q, want empty", msg.ImageRef)
	}
}

func TestNewImageMessage(t *testing.T) {
	msg := protocol.NewImageMessage(protocol.SenderUser, "img_123", "my homework")

	if msg.ImageRef != "img_123" {
		t.Errorf("got image ref %q, want %q", msg.ImageRef, "img_123")
	}
	if msg.Text != "my homework" {
		t.Errorf("got text %q, want %q", msg.Text, "my homework")
	}
}

func TestMessage_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		msg  protocol.Message
		want bool
	}{
		{"text only", protocol.NewMessage(protocol.SenderUser, "hi"), false},
		{"image only", protocol.NewImageMessage(protocol.SenderUser, "img_1", ""), false},
		{"text and image", protocol.NewImageMessage(protocol.SenderUser, "img_1", "caption"), false},
		{"neither", protocol.Message{Sender: protocol.SenderUser}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessage_JSONRoundTrip(t *testing.T) {
	original := protocol.NewImageMessage(protocol.SenderAssistant, "img_42", "here you go")

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded protocol.Message
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded != original {
		t.Errorf("round trip = %+v, want %+v", decoded, original)
	}
}

func TestMessage_JSONOmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(protocol.NewMessage(protocol.SenderUser, "hi"))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"sender":"user","text":"hi"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestTurn_Message(t *testing.T) {
	turn := protocol.Turn{Text: "5+3?", ImageRef: "img_9", ElapsedSeconds: 12}
	msg := turn.Message()

	if msg.Sender != protocol.SenderUser {
		t.Errorf("got sender %q, want %q", msg.Sender, protocol.SenderUser)
	}
	if msg.Text != "5+3?" {
		t.Errorf("got text %q, want %q", msg.Text, "5+3?")
	}
	if msg.ImageRef != "img_9" {
		t.Errorf("got image ref %q, want %q", msg.ImageRef, "img_9")
	}
}

func TestTurn_IsEmpty(t *testing.T) {
	if !(protocol.Turn{}).IsEmpty() {
		t.Error("zero turn should be empty")
	}
	if (protocol.Turn{Text: "hi"}).IsEmpty() {
		t.Error("text turn should not be empty")
	}
	if (protocol.Turn{ImageRef: "img_1"}).IsEmpty() {
		t.Error("image turn should not be empty")
	}
}

func TestInitMessages(t *testing.T) {
	msgs := protocol.InitMessages(protocol.SenderAssistant, "Hi! What are we working on today?")

	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Sender != protocol.SenderAssistant {
		t.Errorf("got sender %q, want %q", msgs[0].Sender, protocol.SenderAssistant)
	}
}
