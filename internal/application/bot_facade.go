package application

import (
	"context"

	"telegram-group-manager/internal/domain/model"
	"telegram-group-manager/internal/domain/ports/repository"
	"telegram-group-manager/internal/infra/metrics"
	"telegram-group-manager/internal/usecase"
)

// Replies the facade hands back to the transport adapter.
const (
	replyRegistered        = "You have been registered! Welcome to the bot."
	replyAlreadyRegistered = "You are already registered. Welcome back!"
	replyNotAuthorized     = "You are not authorized to use this command."
	replyHelp              = "Available commands:\n" +
		"/start - Register with the bot\n" +
		"/set_welcome - Set the welcome message (admins)\n" +
		"/broadcast - Broadcast a message to all users (admins)\n" +
		"/help - Show this message"
	replyInternalError = "Something went wrong. Please try again later."
)

// BotFacade composes usecases into high-level bot commands. Methods return
// the reply string so the Telegram adapter just forwards it to the chat.
type BotFacade struct {
	UserUC usecase.UserUseCase
	ConvUC usecase.ConversationUseCase
	JoinUC usecase.JoinUseCase
}

func NewBotFacade(
	userUC usecase.UserUseCase,
	convUC usecase.ConversationUseCase,
	joinUC usecase.JoinUseCase,
) *BotFacade {
	return &BotFacade{
		UserUC: userUC,
		ConvUC: convUC,
		JoinUC: joinUC,
	}
}

// HandleStart registers the user (idempotent) and returns the greeting.
func (b *BotFacade) HandleStart(ctx context.Context, p model.Profile) (string, error) {
	_, created, err := b.UserUC.Register(ctx, p)
	if err != nil {
		return replyInternalError, err
	}
	if created {
		metrics.IncUsersRegistered()
		return replyRegistered, nil
	}
	return replyAlreadyRegistered, nil
}

// HandleFlowStart opens an admin flow. Non-admins are rejected before any
// session state is touched.
func (b *BotFacade) HandleFlowStart(ctx context.Context, tgID int64, cmd repository.FlowCommand, isAdmin bool) (string, error) {
	if !isAdmin {
		return replyNotAuthorized, nil
	}
	reply, err := b.ConvUC.Start(ctx, tgID, cmd)
	if err != nil {
		return replyInternalError, err
	}
	return reply, nil
}

// InConversation reports whether the user has an admin flow in progress.
func (b *BotFacade) InConversation(tgID int64) bool {
	return b.ConvUC.Active(tgID)
}

// HandleConversationMessage feeds one message into the open flow.
func (b *BotFacade) HandleConversationMessage(ctx context.Context, tgID int64, in usecase.Input) (string, error) {
	reply, err := b.ConvUC.HandleMessage(ctx, tgID, in)
	if err != nil {
		return replyInternalError, err
	}
	return reply, nil
}

// HandleJoinRequest processes a pending group join request.
func (b *BotFacade) HandleJoinRequest(ctx context.Context, chatID int64, p model.Profile) error {
	return b.JoinUC.HandleJoinRequest(ctx, chatID, p)
}

// HandleHelp returns the command overview.
func (b *BotFacade) HandleHelp() string {
	return replyHelp
}
