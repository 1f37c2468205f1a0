package usecase

import (
	"context"
	"fmt"

	"telegram-group-manager/internal/domain"
	"telegram-group-manager/internal/domain/model"
	"telegram-group-manager/internal/domain/ports/repository"
	"telegram-group-manager/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Replies sent while driving an admin flow.
const (
	replyAskWelcomeText    = "Please provide a new welcome message."
	replyAskWelcomeMedia   = "Please upload a photo, video, or GIF for the welcome message or click /empty to skip media."
	replyAskBroadcastText  = "Please provide a message to broadcast."
	replyAskBroadcastMedia = "Please upload a photo, video, or GIF for the broadcast or click /empty to skip media."
	replyInvalidMedia      = "Invalid input. Please upload a photo, video, or GIF, or click /empty to skip media."
	replyWelcomeUpdated    = "Welcome message updated successfully!"
)

// Compile-time check
var _ ConversationUseCase = (*conversationUC)(nil)

// Input is one inbound message from an admin who has a flow in progress.
// Skip marks the /empty command at the media step.
type Input struct {
	Text  string
	Media *model.MediaAttachment
	Skip  bool
}

// ConversationUseCase drives the two-step admin flows (set_welcome,
// broadcast): ask for text, then ask for optional media, then apply.
type ConversationUseCase interface {
	// Start opens a session for the flow and returns the first prompt.
	// Any in-progress session for the same admin is replaced.
	Start(ctx context.Context, tgID int64, cmd repository.FlowCommand) (string, error)
	// Active reports whether tgID has a flow in progress.
	Active(tgID int64) bool
	// HandleMessage feeds one message into the session and returns the
	// reply to show. Returns domain.ErrNoSession when no flow is open.
	HandleMessage(ctx context.Context, tgID int64, in Input) (string, error)
}

// flowSpec parameterizes the shared two-step machine per command.
type flowSpec struct {
	textPrompt  string
	mediaPrompt string
	finish      func(ctx context.Context, text string, media *model.MediaAttachment) (string, error)
}

type conversationUC struct {
	sessions  repository.SessionStore
	welcome   WelcomeUseCase
	broadcast BroadcastUseCase
	flows     map[repository.FlowCommand]flowSpec
	log       *zerolog.Logger
}

func NewConversationUseCase(
	sessions repository.SessionStore,
	welcome WelcomeUseCase,
	broadcast BroadcastUseCase,
	logger *zerolog.Logger,
) *conversationUC {
	uc := &conversationUC{
		sessions:  sessions,
		welcome:   welcome,
		broadcast: broadcast,
		log:       logger,
	}
	uc.flows = map[repository.FlowCommand]flowSpec{
		repository.FlowSetWelcome: {
			textPrompt:  replyAskWelcomeText,
			mediaPrompt: replyAskWelcomeMedia,
			finish:      uc.finishSetWelcome,
		},
		repository.FlowBroadcast: {
			textPrompt:  replyAskBroadcastText,
			mediaPrompt: replyAskBroadcastMedia,
			finish:      uc.finishBroadcast,
		},
	}
	return uc
}

func (uc *conversationUC) Start(ctx context.Context, tgID int64, cmd repository.FlowCommand) (string, error) {
	defer logging.TraceDuration(uc.log, "ConversationUC.Start")()

	spec, ok := uc.flows[cmd]
	if !ok {
		return "", domain.ErrInvalidArgument
	}
	uc.sessions.Begin(tgID, cmd)
	uc.log.Debug().Int64("tg_id", tgID).Str("flow", string(cmd)).Msg("conversation started")
	return spec.textPrompt, nil
}

func (uc *conversationUC) Active(tgID int64) bool {
	_, ok := uc.sessions.Current(tgID)
	return ok
}

func (uc *conversationUC) HandleMessage(ctx context.Context, tgID int64, in Input) (string, error) {
	defer logging.TraceDuration(uc.log, "ConversationUC.HandleMessage")()

	sess, ok := uc.sessions.Current(tgID)
	if !ok {
		return "", domain.ErrNoSession
	}
	spec, ok := uc.flows[sess.Command]
	if !ok {
		// Session references a flow we no longer know; drop it.
		uc.sessions.End(tgID)
		return "", domain.ErrNoSession
	}

	switch sess.Step {
	case repository.StepAwaitText:
		if in.Text == "" {
			// Not usable as message text; ask again, state unchanged.
			return spec.textPrompt, nil
		}
		uc.sessions.Advance(tgID, repository.StepAwaitMedia, in.Text)
		return spec.mediaPrompt, nil

	case repository.StepAwaitMedia:
		var media *model.MediaAttachment
		switch {
		case in.Skip:
			media = nil
		case in.Media != nil:
			media = in.Media
		default:
			// Validation failure keeps the session open at this step.
			return replyInvalidMedia, nil
		}
		// The flow is done whether or not applying it succeeds.
		uc.sessions.End(tgID)
		return spec.finish(ctx, sess.Text, media)

	default:
		uc.sessions.End(tgID)
		return "", domain.ErrNoSession
	}
}

func (uc *conversationUC) finishSetWelcome(ctx context.Context, text string, media *model.MediaAttachment) (string, error) {
	if err := uc.welcome.Set(ctx, text, media); err != nil {
		return "", err
	}
	return replyWelcomeUpdated, nil
}

func (uc *conversationUC) finishBroadcast(ctx context.Context, text string, media *model.MediaAttachment) (string, error) {
	msg := model.Announcement{Text: text}
	if media != nil {
		msg.MediaKind = media.Kind
		msg.MediaRef = media.Ref
	}
	report, err := uc.broadcast.Broadcast(ctx, msg)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Broadcast message sent successfully to %d users. Failed for %d users.", report.Sent, report.Failed), nil
}
