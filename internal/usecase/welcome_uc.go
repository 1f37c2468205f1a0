package usecase

import (
	"context"

	"telegram-group-manager/internal/domain/model"
	"telegram-group-manager/internal/domain/ports/adapter"
	"telegram-group-manager/internal/domain/ports/repository"
	"telegram-group-manager/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ WelcomeUseCase = (*welcomeUC)(nil)

// WelcomeUseCase manages the configured welcome message.
type WelcomeUseCase interface {
	// Get never fails: when nothing is configured, or the store is
	// unreachable, it returns the compiled-in default.
	Get(ctx context.Context) model.Announcement
	// Set overwrites the welcome message. When media carries a Telegram
	// file id and a CDN uploader is configured, the media is mirrored and
	// the hosted URL stored instead; a failed mirror keeps the file id.
	Set(ctx context.Context, text string, media *model.MediaAttachment) error
}

type welcomeUC struct {
	welcome  repository.WelcomeRepository
	bot      adapter.TelegramBotAdapter
	uploader adapter.MediaUploader
	log      *zerolog.Logger
}

func NewWelcomeUseCase(
	welcome repository.WelcomeRepository,
	bot adapter.TelegramBotAdapter,
	uploader adapter.MediaUploader,
	logger *zerolog.Logger,
) *welcomeUC {
	return &welcomeUC{
		welcome:  welcome,
		bot:      bot,
		uploader: uploader,
		log:      logger,
	}
}

func (w *welcomeUC) Get(ctx context.Context) model.Announcement {
	defer logging.TraceDuration(w.log, "WelcomeUC.Get")()

	msg, err := w.welcome.Get(ctx, repository.NoTX)
	if err != nil {
		// Default on any failure: join handling must keep working even
		// when the store is down.
		w.log.Debug().Err(err).Msg("welcome message unavailable, using default")
		return model.DefaultWelcome()
	}
	return *msg
}

func (w *welcomeUC) Set(ctx context.Context, text string, media *model.MediaAttachment) error {
	defer logging.TraceDuration(w.log, "WelcomeUC.Set")()

	msg := model.Announcement{Text: text}
	if media != nil {
		msg.MediaKind = media.Kind
		msg.MediaRef = w.mirror(ctx, *media)
	}
	return w.welcome.Set(ctx, repository.NoTX, &msg)
}

// mirror uploads the attachment to the CDN and returns the hosted URL, or
// the original reference when mirroring is unavailable or fails.
func (w *welcomeUC) mirror(ctx context.Context, media model.MediaAttachment) string {
	if w.uploader == nil {
		return media.Ref
	}
	srcURL, err := w.bot.FileURL(ctx, media.Ref)
	if err != nil {
		w.log.Warn().Err(err).Msg("resolve media file url failed, keeping file id")
		return media.Ref
	}
	hosted, err := w.uploader.Upload(ctx, srcURL, media.Kind)
	if err != nil {
		w.log.Warn().Err(err).Msg("media mirror upload failed, keeping file id")
		return media.Ref
	}
	return hosted
}
