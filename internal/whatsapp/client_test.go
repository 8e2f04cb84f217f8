package whatsapp

import (
	"io"
	"log/slog"
	"testing"

	waE2E "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"
)

func newTestClient() *Client {
	return &Client{
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		messages: make(chan Message, 4),
	}
}

func textEvent(chat types.JID, text string, fromMe bool) *events.Message {
	return &events.Message{
		Info: types.MessageInfo{
			MessageSource: types.MessageSource{
				Chat:     chat,
				IsFromMe: fromMe,
				IsGroup:  chat.Server == types.GroupServer,
			},
		},
		Message: &waE2E.Message{Conversation: proto.String(text)},
	}
}

func TestHandleEventNormalizesMessage(t *testing.T) {
	t.Parallel()
	c := newTestClient()

	chat := types.NewJID("628111", types.DefaultUserServer)
	c.handleEvent(textEvent(chat, "  halo  ", true))

	select {
	case msg := <-c.messages:
		if msg.From != "628111@s.whatsapp.net" {
			t.Errorf("From = %q, want 628111@s.whatsapp.net", msg.From)
		}
		if msg.Body != "halo" {
			t.Errorf("Body = %q, want trimmed text", msg.Body)
		}
		if !msg.IsFromSelf {
			t.Error("expected IsFromSelf to be set")
		}
		if msg.IsGroup || msg.IsBroadcast {
			t.Errorf("unexpected group/broadcast flags: %+v", msg)
		}
	default:
		t.Fatal("expected a normalized message on the stream")
	}
}

func TestHandleEventFlagsBroadcast(t *testing.T) {
	t.Parallel()
	c := newTestClient()

	c.handleEvent(textEvent(types.NewJID("status", types.BroadcastServer), "promo", false))

	select {
	case msg := <-c.messages:
		if !msg.IsBroadcast {
			t.Errorf("expected IsBroadcast for %q", msg.From)
		}
	default:
		t.Fatal("expected a message on the stream")
	}
}

func TestHandleEventDropsEmptyBody(t *testing.T) {
	t.Parallel()
	c := newTestClient()

	c.handleEvent(textEvent(types.NewJID("628111", types.DefaultUserServer), "   ", false))

	if len(c.messages) != 0 {
		t.Errorf("expected empty-body event to be dropped, got %d queued", len(c.messages))
	}
}

func TestHandleEventAfterCloseDoesNotPanic(t *testing.T) {
	t.Parallel()
	c := newTestClient()

	c.closeMessages()
	c.closeMessages()

	c.handleEvent(textEvent(types.NewJID("628111", types.DefaultUserServer), "late event", false))

	if _, ok := <-c.messages; ok {
		t.Error("expected message stream to be closed and empty")
	}
}

func TestNormalizeJID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "bare number", in: "628123", expected: "628123@s.whatsapp.net"},
		{name: "already qualified", in: "628123@s.whatsapp.net", expected: "628123@s.whatsapp.net"},
		{name: "whitespace trimmed", in: " 628123 ", expected: "628123@s.whatsapp.net"},
		{name: "empty string", in: "", expected: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeJID(tc.in); got != tc.expected {
				t.Errorf("NormalizeJID(%q) = %q, want %q", tc.in, got, tc.expected)
			}
		})
	}
}
