package telegram

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-group-manager/internal/domain/model"
	"telegram-group-manager/internal/domain/ports/adapter"
)

var _ adapter.TelegramBotAdapter = (*NoopBot)(nil)

// NoopBot logs every send instead of talking to Telegram. Used in dev mode
// when no bot token is configured.
type NoopBot struct {
	log *zerolog.Logger
}

func NewNoopBot(logger *zerolog.Logger) *NoopBot {
	return &NoopBot{log: logger}
}

func (n *NoopBot) SendMessage(ctx context.Context, telegramID int64, text string) error {
	n.log.Info().Int64("tg_id", telegramID).Str("text", text).Msg("noop bot: send message")
	return nil
}

func (n *NoopBot) SendMedia(ctx context.Context, telegramID int64, kind model.MediaKind, ref, caption string) error {
	n.log.Info().Int64("tg_id", telegramID).Str("kind", string(kind)).Str("ref", ref).Msg("noop bot: send media")
	return nil
}

func (n *NoopBot) ApproveJoinRequest(ctx context.Context, chatID, telegramID int64) error {
	n.log.Info().Int64("chat_id", chatID).Int64("tg_id", telegramID).Msg("noop bot: approve join request")
	return nil
}

func (n *NoopBot) FileURL(ctx context.Context, fileID string) (string, error) {
	return "https://example.invalid/" + fileID, nil
}
