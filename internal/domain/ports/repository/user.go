package repository

import (
	"context"

	"telegram-group-manager/internal/domain/model"
)

// -----------------------------
// Users
// -----------------------------

type UserRepository interface {
	// Save performs a full-record upsert.
	Save(ctx context.Context, tx Tx, u *model.User) error
	// FindByTelegramID returns domain.ErrNotFound when no record exists.
	FindByTelegramID(ctx context.Context, tx Tx, tgID int64) (*model.User, error)
	// List returns a complete snapshot of the directory, unordered.
	List(ctx context.Context, tx Tx) ([]*model.User, error)
	CountUsers(ctx context.Context, tx Tx) (int, error)
}
