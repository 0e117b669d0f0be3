package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ridermall/riderbot/dialogx"
	"github.com/ridermall/riderbot/logx"
	"github.com/ridermall/riderbot/msgx"
)

// handleWebhookVerify answers the Meta subscription handshake
func (s *Server) handleWebhookVerify(c *fiber.Ctx) error {
	challenge, err := s.opts.Provider.VerifyHandshake(
		c.Query("hub.mode"),
		c.Query("hub.verify_token"),
		c.Query("hub.challenge"),
	)
	if err != nil {
		logx.Warn("webhook: handshake rejected: %v", err)
		return c.SendStatus(fiber.StatusForbidden)
	}
	return c.SendString(challenge)
}

// handleWebhookEvent verifies, parses and enqueues inbound events, then
// acks immediately. Events are on their per-user queues before the 200
// leaves, so arrival order is preserved even though processing is
// asynchronous.
func (s *Server) handleWebhookEvent(c *fiber.Ctx) error {
	body := c.Body()

	if err := s.opts.Provider.VerifySignature(body, c.Get("X-Hub-Signature-256")); err != nil {
		logx.Warn("webhook: signature verification failed: %v", err)
		return c.SendStatus(fiber.StatusForbidden)
	}

	messages, err := s.opts.Provider.ParseIncoming(body)
	if err != nil {
		// Malformed payloads are acked anyway; Meta retries otherwise
		// and a retry of garbage stays garbage.
		logx.Error("webhook: parse failed: %v", err)
		return c.SendStatus(fiber.StatusOK)
	}

	for _, message := range messages {
		ev, ok := toEvent(message)
		if !ok {
			continue
		}
		s.opts.Dispatcher.Enqueue(ev)
	}

	return c.SendStatus(fiber.StatusOK)
}

// toEvent maps a provider message onto the engine's event shape
func toEvent(message msgx.IncomingMessage) (dialogx.Event, bool) {
	ev := dialogx.Event{UserID: message.From}

	switch message.Type {
	case msgx.MessageTypeText:
		if message.Content.Text == nil {
			return ev, false
		}
		ev.Kind = dialogx.KindText
		ev.Text = message.Content.Text.Body

	case msgx.MessageTypeInteractive:
		if message.Content.Interactive == nil {
			return ev, false
		}
		ev.Kind = dialogx.KindInteractive
		ev.SelectionID = message.Content.Interactive.ReplyID

	case msgx.MessageTypeImage:
		ev.Kind = dialogx.KindImage
		if message.Content.Media != nil {
			ev.MediaID = message.Content.Media.MediaID
		}

	default:
		return ev, false
	}

	return ev, true
}
