//go:build !integration

package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-group-manager/internal/domain/model"
)

func TestConversationInput(t *testing.T) {
	t.Run("photo picks the largest size", func(t *testing.T) {
		msg := &tgbotapi.Message{
			Photo: []tgbotapi.PhotoSize{
				{FileID: "small", Width: 90},
				{FileID: "medium", Width: 320},
				{FileID: "large", Width: 800},
			},
		}
		in := conversationInput(msg)
		if in.Media == nil || in.Media.Kind != model.MediaPhoto || in.Media.Ref != "large" {
			t.Errorf("unexpected input: %+v", in)
		}
	})

	t.Run("animation wins over document", func(t *testing.T) {
		// Telegram sets both Animation and Document for GIFs.
		msg := &tgbotapi.Message{
			Animation: &tgbotapi.Animation{FileID: "anim-1"},
			Document:  &tgbotapi.Document{FileID: "doc-1", MimeType: "video/mp4"},
		}
		in := conversationInput(msg)
		if in.Media == nil || in.Media.Kind != model.MediaAnimation || in.Media.Ref != "anim-1" {
			t.Errorf("unexpected input: %+v", in)
		}
	})

	t.Run("video", func(t *testing.T) {
		msg := &tgbotapi.Message{Video: &tgbotapi.Video{FileID: "vid-1"}}
		in := conversationInput(msg)
		if in.Media == nil || in.Media.Kind != model.MediaVideo || in.Media.Ref != "vid-1" {
			t.Errorf("unexpected input: %+v", in)
		}
	})

	t.Run("mp4 document counts as animation", func(t *testing.T) {
		msg := &tgbotapi.Message{Document: &tgbotapi.Document{FileID: "doc-2", MimeType: "video/mp4"}}
		in := conversationInput(msg)
		if in.Media == nil || in.Media.Kind != model.MediaAnimation || in.Media.Ref != "doc-2" {
			t.Errorf("unexpected input: %+v", in)
		}
	})

	t.Run("other documents are not media", func(t *testing.T) {
		msg := &tgbotapi.Message{Document: &tgbotapi.Document{FileID: "doc-3", MimeType: "application/pdf"}}
		in := conversationInput(msg)
		if in.Media != nil {
			t.Errorf("expected no media, got %+v", in.Media)
		}
	})

	t.Run("plain text", func(t *testing.T) {
		msg := &tgbotapi.Message{Text: "hello"}
		in := conversationInput(msg)
		if in.Text != "hello" || in.Media != nil || in.Skip {
			t.Errorf("unexpected input: %+v", in)
		}
	})
}

func TestMediaFile(t *testing.T) {
	if _, ok := mediaFile("https://cdn.example/a.jpg").(tgbotapi.FileURL); !ok {
		t.Error("expected FileURL for an http reference")
	}
	if _, ok := mediaFile("AgACAgQAAxk").(tgbotapi.FileID); !ok {
		t.Error("expected FileID for a telegram file id")
	}
}

func TestProfileFromUser(t *testing.T) {
	u := &tgbotapi.User{ID: 42, UserName: "alice", FirstName: "Alice", LastName: "Adams"}
	p := profileFromUser(u)
	if p.TelegramID != 42 || p.Username != "alice" || p.FirstName != "Alice" || p.LastName != "Adams" {
		t.Errorf("unexpected profile: %+v", p)
	}
}
