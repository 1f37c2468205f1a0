package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-group-manager/internal/domain"
	"telegram-group-manager/internal/domain/model"
	"telegram-group-manager/internal/domain/ports/adapter"
)

var _ adapter.TelegramBotAdapter = (*Bot)(nil)

// Bot wraps tgbotapi and implements the outbound messaging port.
type Bot struct {
	api *tgbotapi.BotAPI
}

func NewBot(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api}, nil
}

func (b *Bot) SendMessage(ctx context.Context, telegramID int64, text string) error {
	msg := tgbotapi.NewMessage(telegramID, text)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendMedia(ctx context.Context, telegramID int64, kind model.MediaKind, ref, caption string) error {
	file := mediaFile(ref)
	switch kind {
	case model.MediaPhoto:
		m := tgbotapi.NewPhoto(telegramID, file)
		m.Caption = caption
		_, err := b.api.Send(m)
		return err
	case model.MediaVideo:
		m := tgbotapi.NewVideo(telegramID, file)
		m.Caption = caption
		_, err := b.api.Send(m)
		return err
	case model.MediaAnimation:
		m := tgbotapi.NewAnimation(telegramID, file)
		m.Caption = caption
		_, err := b.api.Send(m)
		return err
	default:
		return domain.ErrInvalidMedia
	}
}

func (b *Bot) ApproveJoinRequest(ctx context.Context, chatID, telegramID int64) error {
	cfg := tgbotapi.ApproveChatJoinRequestConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
		UserID:     telegramID,
	}
	_, err := b.api.Request(cfg)
	return err
}

func (b *Bot) FileURL(ctx context.Context, fileID string) (string, error) {
	return b.api.GetFileDirectURL(fileID)
}

// mediaFile picks the right tgbotapi file wrapper: stored references are
// either hosted URLs or Telegram file ids.
func mediaFile(ref string) tgbotapi.RequestFileData {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return tgbotapi.FileURL(ref)
	}
	return tgbotapi.FileID(ref)
}
