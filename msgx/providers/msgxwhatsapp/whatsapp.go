// Package msgxwhatsapp implements msgx.Provider on the WhatsApp Cloud
// API (Graph): sending text and interactive messages, verifying and
// parsing webhook traffic, and resolving inbound media ids.
package msgxwhatsapp

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ridermall/riderbot/logx"
	"github.com/ridermall/riderbot/msgx"
)

const (
	graphAPIURL     = "https://graph.facebook.com"
	providerName    = "whatsapp"
	signatureHeader = "X-Hub-Signature-256"
	apiVersion      = "v23.0"
)

// Config holds WhatsApp Business API configuration
type Config struct {
	AccessToken   string `json:"access_token"`
	PhoneNumberID string `json:"phone_number_id"`
	AppSecret     string `json:"app_secret,omitempty"`
	VerifyToken   string `json:"verify_token,omitempty"`
	APIVersion    string `json:"api_version,omitempty"`
	HTTPTimeout   int    `json:"http_timeout,omitempty"`
}

// Validate checks the fields every API call depends on
func (c Config) Validate() error {
	if c.AccessToken == "" || c.PhoneNumberID == "" {
		return msgx.Errors.New(msgx.ErrProviderConfigInvalid).
			WithDetail("provider", providerName).
			WithDetail("reason", "access token and phone number id are required")
	}
	return nil
}

// Provider implements msgx.Provider for the WhatsApp Cloud API
type Provider struct {
	config     Config
	httpClient *http.Client
	baseURL    string // https://graph.facebook.com/<version>/<phone-number-id>
	graphURL   string // https://graph.facebook.com/<version>
}

// New creates a WhatsApp provider
func New(config Config) *Provider {
	if config.APIVersion == "" {
		config.APIVersion = apiVersion
	}
	if config.HTTPTimeout == 0 {
		config.HTTPTimeout = 30
	}

	return &Provider{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.HTTPTimeout) * time.Second,
		},
		baseURL:  fmt.Sprintf("%s/%s/%s", graphAPIURL, config.APIVersion, config.PhoneNumberID),
		graphURL: fmt.Sprintf("%s/%s", graphAPIURL, config.APIVersion),
	}
}

// GetProviderName returns the provider name
func (p *Provider) GetProviderName() string {
	return providerName
}

// ========== Sender ==========

// Send sends a message via the Cloud API messages endpoint
func (p *Provider) Send(ctx context.Context, message msgx.Message) (*msgx.Response, error) {
	waMsg, err := toWireMessage(message)
	if err != nil {
		return nil, err
	}

	resp, err := p.postMessage(ctx, waMsg)
	if err != nil {
		return nil, err
	}

	out := &msgx.Response{
		Provider:  providerName,
		To:        message.To,
		Timestamp: time.Now(),
	}
	if len(resp.Messages) > 0 {
		out.MessageID = resp.Messages[0].ID
	}
	return out, nil
}

func toWireMessage(msg msgx.Message) (*waMessage, error) {
	wire := &waMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               cleanPhoneNumber(msg.To),
	}

	switch msg.Type {
	case msgx.MessageTypeText:
		if msg.Content.Text == nil {
			return nil, invalidMessage(msg, "text content is required")
		}
		wire.Type = "text"
		wire.Text = &waText{
			Body:       msg.Content.Text.Body,
			PreviewURL: msg.Content.Text.PreviewURL,
		}

	case msgx.MessageTypeImage:
		if msg.Content.Media == nil {
			return nil, invalidMessage(msg, "media content is required")
		}
		wire.Type = "image"
		wire.Image = &waOutboundMedia{
			ID:      msg.Content.Media.MediaID,
			Link:    msg.Content.Media.URL,
			Caption: msg.Content.Media.Caption,
		}

	case msgx.MessageTypeInteractive:
		if msg.Content.Interactive == nil {
			return nil, invalidMessage(msg, "interactive content is required")
		}
		interactive, err := toWireInteractive(msg.Content.Interactive)
		if err != nil {
			return nil, err
		}
		wire.Type = "interactive"
		wire.Interactive = interactive

	default:
		return nil, invalidMessage(msg, fmt.Sprintf("unsupported message type %q", msg.Type))
	}

	return wire, nil
}

func toWireInteractive(content *msgx.InteractiveContent) (*waInteractive, error) {
	switch {
	case len(content.Buttons) > 0:
		// The API rejects more than 3 reply buttons
		if len(content.Buttons) > 3 {
			return nil, msgx.Errors.New(msgx.ErrInvalidMessage).
				WithDetail("provider", providerName).
				WithDetail("reason", "more than 3 reply buttons")
		}
		buttons := make([]waButton, 0, len(content.Buttons))
		for _, b := range content.Buttons {
			buttons = append(buttons, waButton{
				Type:  "reply",
				Reply: waButtonReply{ID: b.ID, Title: b.Title},
			})
		}
		return &waInteractive{
			Type:   "button",
			Body:   waInteractiveBody{Text: content.Body},
			Action: &waInteractiveAction{Buttons: buttons},
		}, nil

	case content.List != nil:
		sections := make([]waSection, 0, len(content.List.Sections))
		for _, s := range content.List.Sections {
			rows := make([]waRow, 0, len(s.Rows))
			for _, r := range s.Rows {
				rows = append(rows, waRow{ID: r.ID, Title: r.Title, Description: r.Description})
			}
			sections = append(sections, waSection{Title: s.Title, Rows: rows})
		}
		return &waInteractive{
			Type:   "list",
			Body:   waInteractiveBody{Text: content.Body},
			Action: &waInteractiveAction{Button: content.List.ButtonTitle, Sections: sections},
		}, nil
	}

	return nil, msgx.Errors.New(msgx.ErrInvalidMessage).
		WithDetail("provider", providerName).
		WithDetail("reason", "interactive content has neither buttons nor a list")
}

func (p *Provider) postMessage(ctx context.Context, message *waMessage) (*waSendResponse, error) {
	payload, err := json.Marshal(message)
	if err != nil {
		return nil, sendFailed(err, "marshal_message")
	}

	logx.Debug("whatsapp: sending %s message to %s", message.Type, message.To)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, sendFailed(err, "create_request")
	}
	req.Header.Set("Authorization", "Bearer "+p.config.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, sendFailed(err, "http_request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, p.apiError(resp)
	}

	var sendResp waSendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sendResp); err != nil {
		return nil, sendFailed(err, "decode_response")
	}
	return &sendResp, nil
}

func (p *Provider) apiError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp waErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Code != 0 {
		code := msgx.ErrSendFailed
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			code = msgx.ErrProviderConfigInvalid
		case http.StatusBadRequest:
			code = msgx.ErrInvalidMessage
		}
		return msgx.Errors.New(code).
			WithDetail("provider", providerName).
			WithDetail("whatsapp_error", errResp.Error).
			WithDetail("http_status", resp.StatusCode)
	}

	return msgx.Errors.New(msgx.ErrSendFailed).
		WithDetail("provider", providerName).
		WithDetail("http_status", resp.StatusCode).
		WithDetail("response_body", string(body))
}

// ========== Receiver ==========

// VerifyHandshake validates the webhook subscription handshake Meta
// performs with hub.mode/hub.verify_token and returns the challenge to
// echo back.
func (p *Provider) VerifyHandshake(mode, token, challenge string) (string, error) {
	if mode != "subscribe" || token != p.config.VerifyToken {
		return "", msgx.Errors.New(msgx.ErrWebhookVerificationFailed).
			WithDetail("provider", providerName).
			WithDetail("reason", "verify token mismatch").
			WithDetail("mode", mode)
	}
	return challenge, nil
}

// VerifySignature checks the HMAC-SHA256 payload signature against the
// app secret. With no secret configured verification is skipped.
func (p *Provider) VerifySignature(payload []byte, header string) error {
	if p.config.AppSecret == "" {
		return nil
	}

	if header == "" {
		return msgx.Errors.New(msgx.ErrWebhookVerificationFailed).
			WithDetail("provider", providerName).
			WithDetail("reason", "missing signature header")
	}

	received := strings.TrimPrefix(header, "sha256=")

	mac := hmac.New(sha256.New, []byte(p.config.AppSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(received), []byte(expected)) {
		return msgx.Errors.New(msgx.ErrWebhookVerificationFailed).
			WithDetail("provider", providerName).
			WithDetail("reason", "invalid signature").
			WithDetail("body_length", len(payload))
	}
	return nil
}

// ParseIncoming extracts user messages from one webhook payload. Status
// updates are skipped; a payload can carry several messages.
func (p *Provider) ParseIncoming(payload []byte) ([]msgx.IncomingMessage, error) {
	var webhook waWebhookPayload
	if err := json.Unmarshal(payload, &webhook); err != nil {
		return nil, msgx.Errors.New(msgx.ErrWebhookParseFailed).
			WithCause(err).
			WithDetail("provider", providerName)
	}

	var out []msgx.IncomingMessage
	for _, entry := range webhook.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			for _, message := range change.Value.Messages {
				incoming, ok := convertIncoming(message, change.Value.Metadata)
				if !ok {
					logx.Debug("whatsapp: skipping unsupported message type %q from %s", message.Type, message.From)
					continue
				}
				out = append(out, incoming)
			}
		}
	}
	return out, nil
}

func convertIncoming(message waIncomingMessage, metadata waMetadata) (msgx.IncomingMessage, bool) {
	tsInt, err := strconv.ParseInt(message.Timestamp, 10, 64)
	if err != nil {
		tsInt = 0
	}

	incoming := msgx.IncomingMessage{
		ID:        message.ID,
		Provider:  providerName,
		From:      message.From,
		To:        metadata.PhoneNumberID,
		Timestamp: time.Unix(tsInt, 0),
	}

	switch message.Type {
	case "text":
		if message.Text == nil {
			return incoming, false
		}
		incoming.Type = msgx.MessageTypeText
		incoming.Content.Text = &msgx.IncomingText{Body: message.Text.Body}

	case "image", "document":
		media := message.Image
		if message.Type == "document" {
			media = message.Document
		}
		if media == nil {
			return incoming, false
		}
		incoming.Type = msgx.MessageTypeImage
		incoming.Content.Media = &msgx.IncomingMedia{
			MediaID:  media.ID,
			MimeType: media.MimeType,
			SHA256:   media.Sha256,
			Caption:  media.Caption,
		}

	case "interactive":
		if message.Interactive == nil {
			return incoming, false
		}
		reply := message.Interactive.ButtonReply
		if reply == nil {
			reply = message.Interactive.ListReply
		}
		if reply == nil {
			return incoming, false
		}
		incoming.Type = msgx.MessageTypeInteractive
		incoming.Content.Interactive = &msgx.IncomingInteractive{
			ReplyID:    reply.ID,
			ReplyTitle: reply.Title,
		}

	case "button":
		// Legacy template quick replies arrive under "button"
		if message.Button == nil {
			return incoming, false
		}
		incoming.Type = msgx.MessageTypeInteractive
		incoming.Content.Interactive = &msgx.IncomingInteractive{
			ReplyID:    message.Button.Payload,
			ReplyTitle: message.Button.Text,
		}

	default:
		return incoming, false
	}

	return incoming, true
}

// ========== helpers ==========

func cleanPhoneNumber(phoneNumber string) string {
	var b strings.Builder
	for _, r := range phoneNumber {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func invalidMessage(msg msgx.Message, reason string) error {
	return msgx.Errors.New(msgx.ErrInvalidMessage).
		WithDetail("provider", providerName).
		WithDetail("to", msg.To).
		WithDetail("type", string(msg.Type)).
		WithDetail("reason", reason)
}

func sendFailed(cause error, operation string) error {
	return msgx.Errors.New(msgx.ErrSendFailed).
		WithCause(cause).
		WithDetail("provider", providerName).
		WithDetail("operation", operation)
}
