package usecase

import (
	"context"
	"errors"

	"telegram-group-manager/internal/domain"
	"telegram-group-manager/internal/domain/model"
	"telegram-group-manager/internal/domain/ports/repository"
	"telegram-group-manager/internal/infra/logging"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// UserUseCase exposes directory operations used by the /start command and
// join-request handling.
type UserUseCase interface {
	// Register creates a user record for the profile, or refreshes the
	// existing one. It reports whether a new record was created.
	Register(ctx context.Context, p model.Profile) (*model.User, bool, error)
	GetByTelegramID(ctx context.Context, tgID int64) (*model.User, error)
	// MarkWelcomeSent records a successful welcome delivery.
	MarkWelcomeSent(ctx context.Context, tgID int64) error
	Count(ctx context.Context) (int, error)
}

type userUC struct {
	users repository.UserRepository
	tm    repository.TransactionManager
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, tm repository.TransactionManager, logger *zerolog.Logger) *userUC {
	return &userUC{
		users: users,
		tm:    tm,
		log:   logger,
	}
}

func (u *userUC) Register(ctx context.Context, p model.Profile) (*model.User, bool, error) {
	defer logging.TraceDuration(u.log, "UserUC.Register")()

	var (
		user    *model.User
		created bool
	)
	// The find and the save must be one atomic step so two concurrent
	// updates for the same Telegram user cannot both insert.
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		usr, err := u.users.FindByTelegramID(ctx, tx, p.TelegramID)
		switch {
		case err == nil:
			usr.Refresh(p)
			if err := u.users.Save(ctx, tx, usr); err != nil {
				return err
			}
			user = usr
			return nil
		case errors.Is(err, domain.ErrNotFound):
			nu, err := model.NewUser("", p)
			if err != nil {
				return err
			}
			if err := u.users.Save(ctx, tx, nu); err != nil {
				return err
			}
			user = nu
			created = true
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, false, err
	}
	return user, created, nil
}

func (u *userUC) GetByTelegramID(ctx context.Context, tgID int64) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.GetByTelegramID")()
	return u.users.FindByTelegramID(ctx, repository.NoTX, tgID)
}

func (u *userUC) MarkWelcomeSent(ctx context.Context, tgID int64) error {
	defer logging.TraceDuration(u.log, "UserUC.MarkWelcomeSent")()

	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	return u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		usr, err := u.users.FindByTelegramID(ctx, tx, tgID)
		if err != nil {
			return err
		}
		usr.WelcomeSent = true
		return u.users.Save(ctx, tx, usr)
	})
}

func (u *userUC) Count(ctx context.Context) (int, error) {
	defer logging.TraceDuration(u.log, "UserUC.Count")()
	return u.users.CountUsers(ctx, repository.NoTX)
}
