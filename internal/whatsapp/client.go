// Package whatsapp wraps the whatsmeow WhatsApp client behind the small
// surface the bot consumes: a stream of normalized inbound messages, text
// and document sending, and QR pairing at first login.
package whatsapp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mdp/qrterminal/v3"
	"go.mau.fi/whatsmeow"
	waE2E "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"

	"wabot/internal/config"

	_ "modernc.org/sqlite"
)

const xlsxMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Message is one normalized inbound chat message.
type Message struct {
	// From is the chat JID the message arrived on (equals the sender for
	// direct chats, which is all the router acts on).
	From string
	// Body is the trimmed text content.
	Body string
	// IsFromSelf marks messages sent from the bot's own account.
	IsFromSelf bool
	// IsGroup marks group-chat messages.
	IsGroup bool
	// IsBroadcast marks status updates and broadcast-list messages.
	IsBroadcast bool
}

// Client owns the whatsmeow connection and exposes the inbound message
// stream. mu guards closed so a late event dispatch cannot send on the
// closed channel during shutdown.
type Client struct {
	wa       *whatsmeow.Client
	log      *slog.Logger
	messages chan Message
	mu       sync.Mutex
	closed   bool
}

// NewClient opens the whatsmeow device store and builds the client.
// Connect must be called before messages flow.
func NewClient(cfg config.WhatsAppConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "whatsapp")

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", cfg.StorePath)
	container, err := sqlstore.New("sqlite", dsn, waLog.Noop)
	if err != nil {
		return nil, fmt.Errorf("failed to open whatsapp device store: %w", err)
	}

	device, err := container.GetFirstDevice()
	if err != nil {
		return nil, fmt.Errorf("failed to get whatsapp device: %w", err)
	}

	c := &Client{
		wa:       whatsmeow.NewClient(device, waLog.Noop),
		log:      log,
		messages: make(chan Message, 64),
	}
	c.wa.AddEventHandler(c.handleEvent)

	return c, nil
}

// Messages returns the inbound message stream. The channel is closed when
// the client disconnects.
func (c *Client) Messages() <-chan Message {
	return c.messages
}

// Connect establishes the WhatsApp session. On first login the pairing QR
// code is rendered to stdout for out-of-band scanning.
func (c *Client) Connect(ctx context.Context) error {
	if c.wa.Store.ID == nil {
		qrChan, err := c.wa.GetQRChannel(ctx)
		if err != nil {
			return fmt.Errorf("failed to get QR channel: %w", err)
		}
		if err := c.wa.Connect(); err != nil {
			return fmt.Errorf("failed to connect for pairing: %w", err)
		}

		for evt := range qrChan {
			switch evt.Event {
			case "code":
				c.log.Info("Pairing QR code received, scan it with the WhatsApp app")
				qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
			case "success":
				c.log.Info("Pairing completed successfully")
			default:
				c.log.Warn("Pairing event", "event", evt.Event)
			}
		}
		return nil
	}

	if err := c.wa.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	return nil
}

// Disconnect tears down the connection and closes the message stream.
func (c *Client) Disconnect() {
	c.wa.Disconnect()
	c.closeMessages()
	c.log.Info("WhatsApp client disconnected")
}

func (c *Client) closeMessages() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.messages)
	}
}

// enqueue delivers a normalized message unless the stream is already
// closed or the buffer is full.
func (c *Client) enqueue(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.messages <- msg:
	default:
		c.log.Warn("Inbound message buffer full, dropping message", "from", msg.From)
	}
}

// SendText sends a plain text message to the given JID.
func (c *Client) SendText(ctx context.Context, to, text string) error {
	jid, err := types.ParseJID(NormalizeJID(to))
	if err != nil {
		return fmt.Errorf("invalid recipient JID %q: %w", to, err)
	}

	_, err = c.wa.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: proto.String(text),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to %s: %w", jid, err)
	}
	return nil
}

// SendDocument uploads the file at path and sends it as a document
// attachment with the given display filename.
func (c *Client) SendDocument(ctx context.Context, to, path, filename string) error {
	jid, err := types.ParseJID(NormalizeJID(to))
	if err != nil {
		return fmt.Errorf("invalid recipient JID %q: %w", to, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read document %s: %w", path, err)
	}

	uploaded, err := c.wa.Upload(ctx, data, whatsmeow.MediaDocument)
	if err != nil {
		return fmt.Errorf("failed to upload document: %w", err)
	}

	_, err = c.wa.SendMessage(ctx, jid, &waE2E.Message{
		DocumentMessage: &waE2E.DocumentMessage{
			URL:           proto.String(uploaded.URL),
			DirectPath:    proto.String(uploaded.DirectPath),
			MediaKey:      uploaded.MediaKey,
			Mimetype:      proto.String(xlsxMimeType),
			FileEncSHA256: uploaded.FileEncSHA256,
			FileSHA256:    uploaded.FileSHA256,
			FileLength:    proto.Uint64(uploaded.FileLength),
			Title:         proto.String(filename),
			FileName:      proto.String(filename),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send document to %s: %w", jid, err)
	}
	return nil
}

func (c *Client) handleEvent(evt interface{}) {
	switch e := evt.(type) {
	case *events.Message:
		msg := Message{
			From:        e.Info.Chat.String(),
			Body:        strings.TrimSpace(extractText(e.Message)),
			IsFromSelf:  e.Info.IsFromMe,
			IsGroup:     e.Info.IsGroup,
			IsBroadcast: e.Info.Chat.Server == types.BroadcastServer,
		}
		if msg.Body == "" {
			return
		}
		c.enqueue(msg)
	case *events.Connected:
		c.log.Info("WhatsApp connection ready")
	case *events.LoggedOut:
		c.log.Warn("Device logged out, delete the store file and pair again")
	}
}

func extractText(msg *waE2E.Message) string {
	if msg == nil {
		return ""
	}
	if text := msg.GetConversation(); text != "" {
		return text
	}
	return msg.GetExtendedTextMessage().GetText()
}

// NormalizeJID appends the default user server to bare phone-number
// identifiers, matching how admins type command targets.
func NormalizeJID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, "@") {
		return s
	}
	return s + "@" + types.DefaultUserServer
}
