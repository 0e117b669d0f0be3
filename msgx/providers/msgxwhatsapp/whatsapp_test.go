package msgxwhatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/ridermall/riderbot/msgx"
)

func testProvider() *Provider {
	return New(Config{
		AccessToken:   "test-token",
		PhoneNumberID: "1234567890",
		AppSecret:     "app-secret",
		VerifyToken:   "verify-me",
	})
}

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyHandshake(t *testing.T) {
	p := testProvider()

	challenge, err := p.VerifyHandshake("subscribe", "verify-me", "12345")
	if err != nil {
		t.Fatalf("handshake rejected: %v", err)
	}
	if challenge != "12345" {
		t.Fatalf("challenge = %q, want %q", challenge, "12345")
	}

	if _, err := p.VerifyHandshake("subscribe", "wrong-token", "12345"); err == nil {
		t.Fatal("wrong verify token accepted")
	}
	if _, err := p.VerifyHandshake("unsubscribe", "verify-me", "12345"); err == nil {
		t.Fatal("wrong hub mode accepted")
	}
}

func TestVerifySignature(t *testing.T) {
	p := testProvider()
	payload := []byte(`{"object":"whatsapp_business_account"}`)

	if err := p.VerifySignature(payload, sign("app-secret", payload)); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}

	if err := p.VerifySignature(payload, sign("other-secret", payload)); err == nil {
		t.Fatal("signature from wrong secret accepted")
	}
	if err := p.VerifySignature(payload, ""); err == nil {
		t.Fatal("missing signature accepted")
	}
	if err := p.VerifySignature([]byte("tampered"), sign("app-secret", payload)); err == nil {
		t.Fatal("tampered payload accepted")
	}
}

func TestVerifySignatureSkippedWithoutSecret(t *testing.T) {
	p := New(Config{AccessToken: "t", PhoneNumberID: "1"})
	if err := p.VerifySignature([]byte("anything"), ""); err != nil {
		t.Fatalf("verification not skipped without app secret: %v", err)
	}
}

const textPayload = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "entry-1",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "metadata": {"display_phone_number": "15550001111", "phone_number_id": "1234567890"},
        "messages": [{
          "from": "966512345678",
          "id": "wamid.abc",
          "timestamp": "1756600000",
          "type": "text",
          "text": {"body": "مرحبا"}
        }]
      }
    }]
  }]
}`

func TestParseIncomingText(t *testing.T) {
	p := testProvider()

	messages, err := p.ParseIncoming([]byte(textPayload))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("parsed %d messages, want 1", len(messages))
	}

	msg := messages[0]
	if msg.Type != msgx.MessageTypeText {
		t.Fatalf("type = %s, want text", msg.Type)
	}
	if msg.From != "966512345678" || msg.ID != "wamid.abc" {
		t.Fatalf("unexpected envelope: %+v", msg)
	}
	if msg.Content.Text == nil || msg.Content.Text.Body != "مرحبا" {
		t.Fatalf("unexpected content: %+v", msg.Content)
	}
}

const interactivePayload = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "changes": [{
      "field": "messages",
      "value": {
        "metadata": {"phone_number_id": "1234567890"},
        "messages": [{
          "from": "966512345678",
          "id": "wamid.def",
          "timestamp": "1756600001",
          "type": "interactive",
          "interactive": {
            "type": "list_reply",
            "list_reply": {"id": "svc_insurance", "title": "تأمين المركبات"}
          }
        }]
      }
    }]
  }]
}`

func TestParseIncomingInteractive(t *testing.T) {
	p := testProvider()

	messages, err := p.ParseIncoming([]byte(interactivePayload))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("parsed %d messages, want 1", len(messages))
	}

	msg := messages[0]
	if msg.Type != msgx.MessageTypeInteractive {
		t.Fatalf("type = %s, want interactive", msg.Type)
	}
	if msg.Content.Interactive == nil || msg.Content.Interactive.ReplyID != "svc_insurance" {
		t.Fatalf("unexpected content: %+v", msg.Content)
	}
}

const imagePayload = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "changes": [{
      "field": "messages",
      "value": {
        "metadata": {"phone_number_id": "1234567890"},
        "messages": [{
          "from": "966512345678",
          "id": "wamid.ghi",
          "timestamp": "1756600002",
          "type": "image",
          "image": {"id": "media-900", "mime_type": "image/jpeg", "sha256": "deadbeef"}
        }]
      }
    }]
  }]
}`

func TestParseIncomingImageKeepsMediaID(t *testing.T) {
	p := testProvider()

	messages, err := p.ParseIncoming([]byte(imagePayload))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("parsed %d messages, want 1", len(messages))
	}

	media := messages[0].Content.Media
	if media == nil || media.MediaID != "media-900" || media.MimeType != "image/jpeg" {
		t.Fatalf("unexpected media content: %+v", media)
	}
}

const statusOnlyPayload = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "changes": [{
      "field": "messages",
      "value": {
        "metadata": {"phone_number_id": "1234567890"},
        "statuses": [{"id": "wamid.abc", "status": "delivered", "timestamp": "1756600003", "recipient_id": "966512345678"}]
      }
    }]
  }]
}`

func TestParseIncomingStatusOnlyYieldsNothing(t *testing.T) {
	p := testProvider()

	messages, err := p.ParseIncoming([]byte(statusOnlyPayload))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("status-only payload produced %d messages", len(messages))
	}
}

func TestParseIncomingRejectsGarbage(t *testing.T) {
	p := testProvider()
	if _, err := p.ParseIncoming([]byte("not json")); err == nil {
		t.Fatal("garbage payload parsed without error")
	}
}

func TestToWireInteractiveButtons(t *testing.T) {
	wire, err := toWireMessage(msgx.Message{
		To:   "+966 51 234 5678",
		Type: msgx.MessageTypeInteractive,
		Content: msgx.Content{Interactive: &msgx.InteractiveContent{
			Body: "هل توافق؟",
			Buttons: []msgx.ReplyButton{
				{ID: "ins_agree", Title: "موافق"},
				{ID: "ins_disagree", Title: "غير موافق"},
			},
		}},
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	if wire.To != "966512345678" {
		t.Fatalf("phone not cleaned: %q", wire.To)
	}
	if wire.Type != "interactive" || wire.Interactive.Type != "button" {
		t.Fatalf("unexpected wire shape: %+v", wire)
	}
	buttons := wire.Interactive.Action.Buttons
	if len(buttons) != 2 || buttons[0].Reply.ID != "ins_agree" || buttons[0].Type != "reply" {
		t.Fatalf("unexpected buttons: %+v", buttons)
	}
}

func TestToWireInteractiveButtonLimit(t *testing.T) {
	buttons := make([]msgx.ReplyButton, 4)
	for i := range buttons {
		buttons[i] = msgx.ReplyButton{ID: "id", Title: "t"}
	}

	_, err := toWireMessage(msgx.Message{
		To:      "966512345678",
		Type:    msgx.MessageTypeInteractive,
		Content: msgx.Content{Interactive: &msgx.InteractiveContent{Body: "b", Buttons: buttons}},
	})
	if err == nil {
		t.Fatal("4 reply buttons accepted")
	}
}

func TestToWireList(t *testing.T) {
	wire, err := toWireMessage(msgx.Message{
		To:   "966512345678",
		Type: msgx.MessageTypeInteractive,
		Content: msgx.Content{Interactive: &msgx.InteractiveContent{
			Body: "اختر الخدمة:",
			List: &msgx.ListMenu{
				ButtonTitle: "الخدمات",
				Sections: []msgx.ListSection{{
					Title: "خدماتنا",
					Rows:  []msgx.ListRow{{ID: "svc_insurance", Title: "تأمين"}},
				}},
			},
		}},
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	if wire.Interactive.Type != "list" || wire.Interactive.Action.Button != "الخدمات" {
		t.Fatalf("unexpected list shape: %+v", wire.Interactive)
	}
	if len(wire.Interactive.Action.Sections) != 1 || wire.Interactive.Action.Sections[0].Rows[0].ID != "svc_insurance" {
		t.Fatalf("unexpected sections: %+v", wire.Interactive.Action.Sections)
	}
}

func TestToWireTextRequiresContent(t *testing.T) {
	_, err := toWireMessage(msgx.Message{To: "966512345678", Type: msgx.MessageTypeText})
	if err == nil {
		t.Fatal("text message without content accepted")
	}
}
