package usecase

import (
	"context"
	"sync"
	"time"

	"telegram-group-manager/internal/domain/model"
	"telegram-group-manager/internal/domain/ports/adapter"
	"telegram-group-manager/internal/domain/ports/repository"
	"telegram-group-manager/internal/infra/logging"
	"telegram-group-manager/internal/infra/metrics"
	red "telegram-group-manager/internal/infra/redis"
	"telegram-group-manager/internal/infra/worker"

	"github.com/rs/zerolog"
)

const (
	broadcastLockKey = "broadcast:lock"
	broadcastLockTTL = 10 * time.Minute
)

// Compile-time check
var _ BroadcastUseCase = (*broadcastUC)(nil)

// Report is the outcome of a broadcast run.
type Report struct {
	Sent   int
	Failed int
}

type BroadcastUseCase interface {
	// Broadcast fans the announcement out to every registered user and
	// blocks until all sends have completed. Per-recipient failures are
	// counted, never escalated. Returns domain.ErrBroadcastBusy when
	// another broadcast is already running.
	Broadcast(ctx context.Context, msg model.Announcement) (Report, error)
}

type broadcastUC struct {
	users      repository.UserRepository
	bot        adapter.TelegramBotAdapter
	workerPool *worker.Pool
	locker     red.Locker
	rate       int
	log        *zerolog.Logger
}

func NewBroadcastUseCase(
	users repository.UserRepository,
	bot adapter.TelegramBotAdapter,
	pool *worker.Pool,
	locker red.Locker,
	ratePerSecond int,
	logger *zerolog.Logger,
) *broadcastUC {
	if ratePerSecond <= 0 {
		ratePerSecond = 25
	}
	return &broadcastUC{
		users:      users,
		bot:        bot,
		workerPool: pool,
		locker:     locker,
		rate:       ratePerSecond,
		log:        logger,
	}
}

func (uc *broadcastUC) Broadcast(ctx context.Context, msg model.Announcement) (Report, error) {
	defer logging.TraceDuration(uc.log, "BroadcastUC.Broadcast")()

	// Single-flight across instances. The locker is optional so tests and
	// dev mode can run without redis.
	if uc.locker != nil {
		token, err := uc.locker.TryLock(ctx, broadcastLockKey, broadcastLockTTL)
		if err != nil {
			return Report{}, err
		}
		defer func() {
			if err := uc.locker.Unlock(ctx, broadcastLockKey, token); err != nil {
				uc.log.Warn().Err(err).Msg("failed to release broadcast lock")
			}
		}()
	}

	recipients, err := uc.users.List(ctx, repository.NoTX)
	if err != nil {
		uc.log.Error().Err(err).Msg("failed to list broadcast recipients")
		return Report{}, err
	}

	metrics.IncBroadcasts()
	start := time.Now()
	uc.log.Info().Int("user_count", len(recipients)).Msg("starting broadcast")

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report Report
	)
	// Throttle to respect Telegram's bulk-messaging limits.
	throttle := time.NewTicker(time.Second / time.Duration(uc.rate))
	defer throttle.Stop()

	for _, user := range recipients {
		<-throttle.C

		wg.Add(1)
		task := uc.sendTask(user.TelegramID, msg, &mu, &report, &wg)
		if err := uc.workerPool.Submit(task); err != nil {
			wg.Done()
			mu.Lock()
			report.Failed++
			mu.Unlock()
			metrics.IncBroadcastMessage("failed")
			uc.log.Warn().Err(err).Int64("tg_id", user.TelegramID).Msg("failed to submit broadcast task")
		}
	}
	wg.Wait()

	metrics.ObserveBroadcastDuration(time.Since(start).Seconds())
	uc.log.Info().Int("sent", report.Sent).Int("failed", report.Failed).Msg("broadcast finished")
	return report, nil
}

// sendTask creates a closure for the worker pool to execute.
func (uc *broadcastUC) sendTask(telegramID int64, msg model.Announcement, mu *sync.Mutex, report *Report, wg *sync.WaitGroup) worker.Task {
	return func(ctx context.Context) error {
		defer wg.Done()

		var err error
		if msg.HasMedia() {
			err = uc.bot.SendMedia(ctx, telegramID, msg.MediaKind, msg.MediaRef, msg.Text)
		} else {
			err = uc.bot.SendMessage(ctx, telegramID, msg.Text)
		}

		mu.Lock()
		if err != nil {
			report.Failed++
		} else {
			report.Sent++
		}
		mu.Unlock()

		if err != nil {
			metrics.IncBroadcastMessage("failed")
			// Routine: user blocked the bot or never started it.
			uc.log.Warn().Err(err).Int64("tg_id", telegramID).Msg("broadcast send failed")
		} else {
			metrics.IncBroadcastMessage("sent")
		}
		// Always nil so the worker pool doesn't double-log the failure.
		return nil
	}
}
