package usecase

import (
	"context"

	"telegram-group-manager/internal/domain/model"
	"telegram-group-manager/internal/domain/ports/adapter"
	"telegram-group-manager/internal/infra/logging"
	"telegram-group-manager/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ JoinUseCase = (*joinUC)(nil)

// JoinUseCase greets and approves pending group join requests.
type JoinUseCase interface {
	// HandleJoinRequest records the requester, DMs them the welcome
	// message, and approves the request. Record and DM failures are
	// logged but never block the approval; the returned error reflects
	// the approval call only.
	HandleJoinRequest(ctx context.Context, chatID int64, p model.Profile) error
}

type joinUC struct {
	users            UserUseCase
	welcome          WelcomeUseCase
	bot              adapter.TelegramBotAdapter
	trackWelcomeSent bool
	log              *zerolog.Logger
}

func NewJoinUseCase(
	users UserUseCase,
	welcome WelcomeUseCase,
	bot adapter.TelegramBotAdapter,
	trackWelcomeSent bool,
	logger *zerolog.Logger,
) *joinUC {
	return &joinUC{
		users:            users,
		welcome:          welcome,
		bot:              bot,
		trackWelcomeSent: trackWelcomeSent,
		log:              logger,
	}
}

func (j *joinUC) HandleJoinRequest(ctx context.Context, chatID int64, p model.Profile) error {
	defer logging.TraceDuration(j.log, "JoinUC.HandleJoinRequest")()
	metrics.IncJoinRequests()

	if _, _, err := j.users.Register(ctx, p); err != nil {
		j.log.Error().Err(err).Int64("tg_id", p.TelegramID).Msg("failed to record join requester")
	}

	msg := j.welcome.Get(ctx)
	if err := j.deliver(ctx, p.TelegramID, msg); err != nil {
		// Expected for users who never started the bot.
		metrics.IncWelcomeDeliveries("failed")
		j.log.Warn().Err(err).Int64("tg_id", p.TelegramID).Msg("welcome DM failed")
	} else {
		metrics.IncWelcomeDeliveries("sent")
		if j.trackWelcomeSent {
			if err := j.users.MarkWelcomeSent(ctx, p.TelegramID); err != nil {
				j.log.Warn().Err(err).Int64("tg_id", p.TelegramID).Msg("failed to mark welcome sent")
			}
		}
	}

	if err := j.bot.ApproveJoinRequest(ctx, chatID, p.TelegramID); err != nil {
		metrics.IncJoinApprovals("failed")
		j.log.Error().Err(err).Int64("tg_id", p.TelegramID).Int64("chat_id", chatID).Msg("approve join request failed")
		return err
	}
	metrics.IncJoinApprovals("approved")
	j.log.Info().Int64("tg_id", p.TelegramID).Int64("chat_id", chatID).Msg("join request approved")
	return nil
}

func (j *joinUC) deliver(ctx context.Context, tgID int64, msg model.Announcement) error {
	if msg.HasMedia() {
		return j.bot.SendMedia(ctx, tgID, msg.MediaKind, msg.MediaRef, msg.Text)
	}
	return j.bot.SendMessage(ctx, tgID, msg.Text)
}
