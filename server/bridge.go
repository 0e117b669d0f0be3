package server

import (
	"context"

	"github.com/ridermall/riderbot/dialogx"
	"github.com/ridermall/riderbot/msgx"
)

// listButtonTitle labels the button that opens interactive lists
const listButtonTitle = "القائمة"

// MessageSender adapts an msgx.Sender to the engine's outbound
// interface
type MessageSender struct {
	sender msgx.Sender
}

// NewMessageSender wraps a provider for the dialogue engine
func NewMessageSender(sender msgx.Sender) *MessageSender {
	return &MessageSender{sender: sender}
}

func (m *MessageSender) SendText(ctx context.Context, to, body string) error {
	_, err := m.sender.Send(ctx, msgx.Message{
		To:   to,
		Type: msgx.MessageTypeText,
		Content: msgx.Content{
			Text: &msgx.TextContent{Body: body},
		},
	})
	return err
}

func (m *MessageSender) SendButtons(ctx context.Context, to, prompt string, buttons []dialogx.Button) error {
	replies := make([]msgx.ReplyButton, 0, len(buttons))
	for _, b := range buttons {
		replies = append(replies, msgx.ReplyButton{ID: string(b.ID), Title: b.Title})
	}

	_, err := m.sender.Send(ctx, msgx.Message{
		To:   to,
		Type: msgx.MessageTypeInteractive,
		Content: msgx.Content{
			Interactive: &msgx.InteractiveContent{Body: prompt, Buttons: replies},
		},
	})
	return err
}

func (m *MessageSender) SendList(ctx context.Context, to, prompt string, sections []dialogx.ListSection) error {
	menuSections := make([]msgx.ListSection, 0, len(sections))
	for _, s := range sections {
		rows := make([]msgx.ListRow, 0, len(s.Rows))
		for _, r := range s.Rows {
			rows = append(rows, msgx.ListRow{ID: string(r.ID), Title: r.Title})
		}
		menuSections = append(menuSections, msgx.ListSection{Title: s.Title, Rows: rows})
	}

	_, err := m.sender.Send(ctx, msgx.Message{
		To:   to,
		Type: msgx.MessageTypeInteractive,
		Content: msgx.Content{
			Interactive: &msgx.InteractiveContent{
				Body: prompt,
				List: &msgx.ListMenu{ButtonTitle: listButtonTitle, Sections: menuSections},
			},
		},
	})
	return err
}
