package repository

import (
	"context"

	"telegram-group-manager/internal/domain/model"
)

// WelcomeRepository stores the single configured welcome message.
// Set overwrites the whole record; there is no partial merge.
type WelcomeRepository interface {
	// Get returns domain.ErrNotFound when nothing has been configured yet.
	Get(ctx context.Context, tx Tx) (*model.Announcement, error)
	Set(ctx context.Context, tx Tx, msg *model.Announcement) error
}
