package adapter

import (
	"context"

	"telegram-group-manager/internal/domain/model"
)

// TelegramBotAdapter is the outbound messaging port. Every method may fail
// per-recipient (user never started the bot, blocked it, deleted account);
// callers treat such failures as routine and must never let them abort a
// batch operation.
type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, telegramID int64, text string) error
	// SendMedia delivers the referenced media of the given kind with a caption.
	// The reference may be a Telegram file id or a hosted URL.
	SendMedia(ctx context.Context, telegramID int64, kind model.MediaKind, ref, caption string) error
	ApproveJoinRequest(ctx context.Context, chatID, telegramID int64) error
	// FileURL resolves a Telegram file id to a directly downloadable URL.
	FileURL(ctx context.Context, fileID string) (string, error)
}
