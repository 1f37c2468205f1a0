package telegram

import (
	"context"
	"errors"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-group-manager/internal/application"
	"telegram-group-manager/internal/config"
	"telegram-group-manager/internal/domain/model"
	"telegram-group-manager/internal/domain/ports/repository"
	"telegram-group-manager/internal/infra/metrics"
	red "telegram-group-manager/internal/infra/redis"
	"telegram-group-manager/internal/usecase"
)

const replyRateLimited = "Too many requests. Please slow down."

// commandsPerMinute bounds how often one user may issue commands.
const commandsPerMinute = 10

// Router receives Telegram updates, resolves them to facade calls, and
// sends the replies. Updates arrive either from long polling or from the
// webhook HTTP handler.
type Router struct {
	bot         *Bot
	cfg         *config.BotConfig
	facade      *application.BotFacade
	rateLimiter *red.RateLimiter
	log         *zerolog.Logger

	adminIDs      map[int64]struct{}
	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRouter(bot *Bot, cfg *config.BotConfig, facade *application.BotFacade, rateLimiter *red.RateLimiter, logger *zerolog.Logger) (*Router, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}

	adminIDs := map[int64]struct{}{}
	for _, id := range cfg.AdminIDs {
		adminIDs[id] = struct{}{}
	}

	return &Router{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		rateLimiter:   rateLimiter,
		log:           logger,
		adminIDs:      adminIDs,
		updateWorkers: workers,
	}, nil
}

func (r *Router) isAdmin(tgID int64) bool {
	_, ok := r.adminIDs[tgID]
	return ok
}

// StartPolling consumes the long-poll update stream until ctx is canceled.
func (r *Router) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.api.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					r.HandleUpdate(ctx, up)
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *Router) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// SetWebhook registers the webhook URL with Telegram. The HTTP server then
// feeds updates into HandleUpdate.
func (r *Router) SetWebhook(ctx context.Context) error {
	wh, err := tgbotapi.NewWebhook(r.cfg.WebhookURL)
	if err != nil {
		return err
	}
	_, err = r.bot.api.Request(wh)
	return err
}

// HandleUpdate routes one update. Errors are logged here; nothing upstream
// can act on them.
func (r *Router) HandleUpdate(ctx context.Context, up tgbotapi.Update) {
	switch {
	case up.ChatJoinRequest != nil:
		metrics.IncTelegramUpdate("join_request")
		r.handleJoinRequest(ctx, up.ChatJoinRequest)
	case up.Message != nil:
		metrics.IncTelegramUpdate("message")
		r.handleMessage(ctx, up.Message)
	default:
		metrics.IncTelegramUpdate("other")
	}
}

func (r *Router) handleJoinRequest(ctx context.Context, req *tgbotapi.ChatJoinRequest) {
	p := profileFromUser(&req.From)
	if err := r.facade.HandleJoinRequest(ctx, req.Chat.ID, p); err != nil {
		r.log.Error().Err(err).Int64("tg_id", p.TelegramID).Msg("join request handling failed")
	}
}

func (r *Router) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	tgID := msg.From.ID

	if msg.IsCommand() {
		r.handleCommand(ctx, msg)
		return
	}

	// Plain messages only matter while an admin flow is open.
	if !r.facade.InConversation(tgID) {
		return
	}
	reply, err := r.facade.HandleConversationMessage(ctx, tgID, conversationInput(msg))
	if err != nil {
		r.log.Error().Err(err).Int64("tg_id", tgID).Msg("conversation message failed")
	}
	r.reply(ctx, msg.Chat.ID, reply)
}

func (r *Router) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	tgID := msg.From.ID
	cmd := msg.Command()
	metrics.IncTelegramCommand(cmd)

	if !r.allow(ctx, tgID, cmd) {
		metrics.IncRateLimitTriggered()
		r.reply(ctx, msg.Chat.ID, replyRateLimited)
		return
	}

	var (
		reply string
		err   error
	)
	switch cmd {
	case "start":
		reply, err = r.facade.HandleStart(ctx, profileFromUser(msg.From))
	case "set_welcome":
		reply, err = r.facade.HandleFlowStart(ctx, tgID, repository.FlowSetWelcome, r.isAdmin(tgID))
	case "broadcast":
		reply, err = r.facade.HandleFlowStart(ctx, tgID, repository.FlowBroadcast, r.isAdmin(tgID))
	case "empty":
		// Only meaningful at the media step of an open flow.
		if !r.facade.InConversation(tgID) {
			return
		}
		reply, err = r.facade.HandleConversationMessage(ctx, tgID, usecase.Input{Skip: true})
	case "help":
		reply = r.facade.HandleHelp()
	default:
		reply = r.facade.HandleHelp()
	}
	if err != nil {
		r.log.Error().Err(err).Int64("tg_id", tgID).Str("command", cmd).Msg("command failed")
	}
	r.reply(ctx, msg.Chat.ID, reply)
}

func (r *Router) allow(ctx context.Context, tgID int64, cmd string) bool {
	if r.rateLimiter == nil {
		return true
	}
	ok, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(tgID, cmd), commandsPerMinute, time.Minute)
	if err != nil {
		// Fail open: a redis hiccup must not lock everyone out.
		r.log.Warn().Err(err).Msg("rate limiter unavailable")
		return true
	}
	return ok
}

func (r *Router) reply(ctx context.Context, chatID int64, text string) {
	if text == "" {
		return
	}
	if err := r.bot.SendMessage(ctx, chatID, text); err != nil {
		r.log.Warn().Err(err).Int64("chat_id", chatID).Msg("reply failed")
	}
}

func profileFromUser(u *tgbotapi.User) model.Profile {
	return model.Profile{
		TelegramID: u.ID,
		Username:   u.UserName,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
	}
}

// conversationInput classifies an inbound message for the flow machine:
// photo, GIF, video, mp4-document, or plain text.
func conversationInput(msg *tgbotapi.Message) usecase.Input {
	switch {
	case len(msg.Photo) > 0:
		// The largest size is last.
		ref := msg.Photo[len(msg.Photo)-1].FileID
		return usecase.Input{Media: &model.MediaAttachment{Kind: model.MediaPhoto, Ref: ref}}
	case msg.Animation != nil:
		// Checked before Document: Telegram sets both for GIFs.
		return usecase.Input{Media: &model.MediaAttachment{Kind: model.MediaAnimation, Ref: msg.Animation.FileID}}
	case msg.Video != nil:
		return usecase.Input{Media: &model.MediaAttachment{Kind: model.MediaVideo, Ref: msg.Video.FileID}}
	case msg.Document != nil && msg.Document.MimeType == "video/mp4":
		return usecase.Input{Media: &model.MediaAttachment{Kind: model.MediaAnimation, Ref: msg.Document.FileID}}
	default:
		return usecase.Input{Text: msg.Text}
	}
}
