package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"telegram-group-manager/internal/application"
	"telegram-group-manager/internal/config"
	"telegram-group-manager/internal/domain/ports/adapter"
	mediaAdapters "telegram-group-manager/internal/infra/adapters/media"
	tele "telegram-group-manager/internal/infra/adapters/telegram"
	pg "telegram-group-manager/internal/infra/db/postgres"
	httpapi "telegram-group-manager/internal/infra/http"
	"telegram-group-manager/internal/infra/logging"
	"telegram-group-manager/internal/infra/memory"
	"telegram-group-manager/internal/infra/metrics"
	red "telegram-group-manager/internal/infra/redis"
	"telegram-group-manager/internal/infra/worker"
	"telegram-group-manager/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, bot optional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema bootstrap failed")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	locker := red.NewLocker(redisClient)

	// ---- Repositories & session state ----
	userRepo := pg.NewPostgresUserRepo(pool)
	welcomeRepo := pg.NewPostgresWelcomeRepo(pool)
	txManager := pg.NewTxManager(pool)
	sessions := memory.NewSessionStore()

	// ---- Telegram bot ----
	var bot adapter.TelegramBotAdapter
	var realBot *tele.Bot
	if cfg.Bot.Token != "" {
		realBot, err = tele.NewBot(cfg.Bot.Token)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram connect failed")
		}
		bot = realBot
	} else {
		logger.Warn().Msg("no bot token configured, using noop bot")
		bot = tele.NewNoopBot(logger)
	}

	// ---- Media mirroring (optional) ----
	var uploader adapter.MediaUploader
	if cfg.Media.Enabled() {
		uploader, err = mediaAdapters.NewCloudinaryUploader(cfg.Media.CloudName, cfg.Media.APIKey, cfg.Media.APISecret)
		if err != nil {
			logger.Fatal().Err(err).Msg("cloudinary setup failed")
		}
	}

	// ---- Worker pool ----
	bcastPool := worker.NewPool(cfg.Broadcast.Workers)
	bcastPool.Start(ctx)
	defer bcastPool.Stop()

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, txManager, logger)
	welcomeUC := usecase.NewWelcomeUseCase(welcomeRepo, bot, uploader, logger)
	broadcastUC := usecase.NewBroadcastUseCase(userRepo, bot, bcastPool, locker, cfg.Broadcast.RatePerSecond, logger)
	convUC := usecase.NewConversationUseCase(sessions, welcomeUC, broadcastUC, logger)
	joinUC := usecase.NewJoinUseCase(userUC, welcomeUC, bot, cfg.Bot.TrackWelcomeSent, logger)

	// ---- Facade ----
	facade := application.NewBotFacade(userUC, convUC, joinUC)

	// ---- Update delivery: polling or webhook ----
	var dispatcher httpapi.UpdateDispatcher
	if realBot != nil {
		router, err := tele.NewRouter(realBot, &cfg.Bot, facade, rateLimiter, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram router setup failed")
		}
		switch strings.ToLower(cfg.Bot.Mode) {
		case "webhook":
			if err := router.SetWebhook(ctx); err != nil {
				logger.Fatal().Err(err).Msg("set webhook failed")
			}
			dispatcher = router
			logger.Info().Str("url", cfg.Bot.WebhookURL).Msg("webhook registered")
		default:
			go func() {
				if err := router.StartPolling(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error().Err(err).Msg("telegram polling stopped")
				}
			}()
		}
	}

	// ---- HTTP server ----
	srv := httpapi.NewServer(cfg, dispatcher, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown error")
	}
}
