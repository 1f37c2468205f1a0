package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-group-manager/internal/domain"
	"telegram-group-manager/internal/domain/model"
	"telegram-group-manager/internal/domain/ports/repository"
)

var _ repository.WelcomeRepository = (*PostgresWelcomeRepo)(nil)

// PostgresWelcomeRepo persists the single configured welcome message as a
// one-row table keyed by a fixed id.
type PostgresWelcomeRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresWelcomeRepo(pool *pgxpool.Pool) *PostgresWelcomeRepo {
	return &PostgresWelcomeRepo{pool: pool}
}

const welcomeRowID = 1

func (r *PostgresWelcomeRepo) Get(ctx context.Context, tx repository.Tx) (*model.Announcement, error) {
	const q = `SELECT text, media_ref, media_kind FROM welcome_message WHERE id=$1;`
	row := pickRow(ctx, r.pool, tx, q, welcomeRowID)
	var (
		msg  model.Announcement
		kind string
	)
	if err := row.Scan(&msg.Text, &msg.MediaRef, &kind); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	k, err := model.ParseMediaKind(kind)
	if err != nil {
		return nil, err
	}
	msg.MediaKind = k
	return &msg, nil
}

func (r *PostgresWelcomeRepo) Set(ctx context.Context, tx repository.Tx, msg *model.Announcement) error {
	const q = `
INSERT INTO welcome_message (id, text, media_ref, media_kind, updated_at)
VALUES ($1,$2,$3,$4,now())
ON CONFLICT (id) DO UPDATE SET text=$2, media_ref=$3, media_kind=$4, updated_at=now();
`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	_, err = ex.Exec(ctx, q, welcomeRowID, msg.Text, msg.MediaRef, string(msg.MediaKind))
	return err
}
