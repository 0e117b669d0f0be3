// Package msgx defines the provider-agnostic messaging surface of the
// bot: the message shapes the flows send, the incoming shapes webhooks
// produce, and the Sender/Receiver contracts a concrete provider
// implements.
package msgx

import (
	"context"
	"time"
)

// ========== Core Interfaces ==========

// Sender sends outbound messages through a messaging provider
type Sender interface {
	// Send sends a message and returns the provider response
	Send(ctx context.Context, message Message) (*Response, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}

// Receiver turns raw webhook traffic into structured incoming messages.
// The methods take raw bytes and header values rather than a request
// object so any HTTP stack can drive them.
type Receiver interface {
	// VerifyHandshake validates a webhook subscription handshake and
	// returns the challenge to echo back
	VerifyHandshake(mode, token, challenge string) (string, error)

	// VerifySignature checks the payload against its signature header
	VerifySignature(payload []byte, signatureHeader string) error

	// ParseIncoming extracts the user messages from one webhook payload.
	// Payloads that carry only status updates yield an empty slice.
	ParseIncoming(payload []byte) ([]IncomingMessage, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}

// Provider is a full-featured messaging service (send + receive)
type Provider interface {
	Sender
	Receiver
}

// ========== Outbound Messages ==========

// Message is the universal outbound message structure
type Message struct {
	To      string      `json:"to"`
	Type    MessageType `json:"type"`
	Content Content     `json:"content"`
}

// MessageType defines the type of message
type MessageType string

const (
	MessageTypeText        MessageType = "text"
	MessageTypeImage       MessageType = "image"
	MessageTypeInteractive MessageType = "interactive"
)

// Content holds the message content based on type
type Content struct {
	Text        *TextContent        `json:"text,omitempty"`
	Media       *MediaContent       `json:"media,omitempty"`
	Interactive *InteractiveContent `json:"interactive,omitempty"`
}

// TextContent for text messages
type TextContent struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url,omitempty"`
}

// MediaContent for media messages, addressed by provider media id or URL
type MediaContent struct {
	MediaID string `json:"media_id,omitempty"`
	URL     string `json:"url,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// InteractiveContent carries either reply buttons or a list menu.
// Exactly one of Buttons and List is set.
type InteractiveContent struct {
	Body    string        `json:"body"`
	Buttons []ReplyButton `json:"buttons,omitempty"`
	List    *ListMenu     `json:"list,omitempty"`
}

// ReplyButton is one tappable quick-reply button. Providers cap the
// count (WhatsApp allows 3) and the title length (~20 chars).
type ReplyButton struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ListMenu is an interactive list message: a button that opens sections
// of selectable rows.
type ListMenu struct {
	ButtonTitle string        `json:"button_title"`
	Sections    []ListSection `json:"sections"`
}

// ListSection groups list rows under a title
type ListSection struct {
	Title string    `json:"title,omitempty"`
	Rows  []ListRow `json:"rows"`
}

// ListRow is one selectable row of a list menu
type ListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ========== Responses ==========

// Response is the provider acknowledgment of a sent message
type Response struct {
	MessageID string    `json:"message_id"`
	Provider  string    `json:"provider"`
	To        string    `json:"to"`
	Timestamp time.Time `json:"timestamp"`
}

// ========== Incoming Messages ==========

// IncomingMessage is one user message received via webhook
type IncomingMessage struct {
	ID        string          `json:"id"`
	Provider  string          `json:"provider"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Type      MessageType     `json:"type"`
	Content   IncomingContent `json:"content"`
	Timestamp time.Time       `json:"timestamp"`
}

// IncomingContent is the typed content of an incoming message
type IncomingContent struct {
	Text        *IncomingText        `json:"text,omitempty"`
	Media       *IncomingMedia       `json:"media,omitempty"`
	Interactive *IncomingInteractive `json:"interactive,omitempty"`
}

// IncomingText for incoming text messages
type IncomingText struct {
	Body string `json:"body"`
}

// IncomingMedia for incoming media messages. MediaID is an opaque
// provider handle; the bytes are fetched separately when needed.
type IncomingMedia struct {
	MediaID  string `json:"media_id"`
	MimeType string `json:"mime_type,omitempty"`
	SHA256   string `json:"sha256,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// IncomingInteractive is a tapped button or list-row reply
type IncomingInteractive struct {
	ReplyID    string `json:"reply_id"`
	ReplyTitle string `json:"reply_title,omitempty"`
}
