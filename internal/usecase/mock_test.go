//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-group-manager/internal/domain"
	"telegram-group-manager/internal/domain/model"
	"telegram-group-manager/internal/domain/ports/adapter"
	"telegram-group-manager/internal/domain/ports/repository"
)

// =============================
// Adapters
// =============================

// ---- Mock TelegramBotAdapter ----

type sentMessage struct {
	TelegramID int64
	Text       string
	Kind       model.MediaKind
	Ref        string
}

type MockTelegramBot struct {
	mu       sync.Mutex
	Sent     []sentMessage
	Approved []int64 // telegram ids in approval order

	SendMessageFunc        func(ctx context.Context, telegramID int64, text string) error
	SendMediaFunc          func(ctx context.Context, telegramID int64, kind model.MediaKind, ref, caption string) error
	ApproveJoinRequestFunc func(ctx context.Context, chatID, telegramID int64) error
	FileURLFunc            func(ctx context.Context, fileID string) (string, error)
}

var _ adapter.TelegramBotAdapter = (*MockTelegramBot)(nil)

func (m *MockTelegramBot) SendMessage(ctx context.Context, telegramID int64, text string) error {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, telegramID, text)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, sentMessage{TelegramID: telegramID, Text: text})
	return nil
}

func (m *MockTelegramBot) SendMedia(ctx context.Context, telegramID int64, kind model.MediaKind, ref, caption string) error {
	if m.SendMediaFunc != nil {
		return m.SendMediaFunc(ctx, telegramID, kind, ref, caption)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, sentMessage{TelegramID: telegramID, Text: caption, Kind: kind, Ref: ref})
	return nil
}

func (m *MockTelegramBot) ApproveJoinRequest(ctx context.Context, chatID, telegramID int64) error {
	if m.ApproveJoinRequestFunc != nil {
		return m.ApproveJoinRequestFunc(ctx, chatID, telegramID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Approved = append(m.Approved, telegramID)
	return nil
}

func (m *MockTelegramBot) FileURL(ctx context.Context, fileID string) (string, error) {
	if m.FileURLFunc != nil {
		return m.FileURLFunc(ctx, fileID)
	}
	return "https://files.example/" + fileID, nil
}

func (m *MockTelegramBot) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// ---- Mock MediaUploader ----

type MockUploader struct {
	UploadFunc func(ctx context.Context, sourceURL string, kind model.MediaKind) (string, error)
}

var _ adapter.MediaUploader = (*MockUploader)(nil)

func (m *MockUploader) Upload(ctx context.Context, sourceURL string, kind model.MediaKind) (string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, sourceURL, kind)
	}
	return "https://cdn.example/hosted", nil
}

// =============================
// Repositories
// =============================

// ---- Mock UserRepository ----

type MockUserRepo struct {
	mu   sync.Mutex
	byTG map[int64]*model.User

	SaveFunc             func(ctx context.Context, tx repository.Tx, u *model.User) error
	FindByTelegramIDFunc func(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error)
	ListFunc             func(ctx context.Context, tx repository.Tx) ([]*model.User, error)
	CountUsersFunc       func(ctx context.Context, tx repository.Tx) (int, error)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{byTG: map[int64]*model.User{}}
}

func (r *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, u)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	r.byTG[cp.TelegramID] = &cp
	return nil
}

func (r *MockUserRepo) FindByTelegramID(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error) {
	if r.FindByTelegramIDFunc != nil {
		return r.FindByTelegramIDFunc(ctx, tx, tgID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byTG[tgID]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockUserRepo) List(ctx context.Context, tx repository.Tx) ([]*model.User, error) {
	if r.ListFunc != nil {
		return r.ListFunc(ctx, tx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.User, 0, len(r.byTG))
	for _, u := range r.byTG {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MockUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	if r.CountUsersFunc != nil {
		return r.CountUsersFunc(ctx, tx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byTG), nil
}

// ---- Mock WelcomeRepository ----

type MockWelcomeRepo struct {
	mu     sync.Mutex
	stored *model.Announcement

	GetFunc func(ctx context.Context, tx repository.Tx) (*model.Announcement, error)
	SetFunc func(ctx context.Context, tx repository.Tx, msg *model.Announcement) error
}

var _ repository.WelcomeRepository = (*MockWelcomeRepo)(nil)

func (r *MockWelcomeRepo) Get(ctx context.Context, tx repository.Tx) (*model.Announcement, error) {
	if r.GetFunc != nil {
		return r.GetFunc(ctx, tx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stored == nil {
		return nil, domain.ErrNotFound
	}
	cp := *r.stored
	return &cp, nil
}

func (r *MockWelcomeRepo) Set(ctx context.Context, tx repository.Tx, msg *model.Announcement) error {
	if r.SetFunc != nil {
		return r.SetFunc(ctx, tx, msg)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *msg
	r.stored = &cp
	return nil
}

// =============================
// Infra helpers for tests
// =============================

// ---- Mock TransactionManager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

// WithTx runs the callback immediately without a real transaction. Tests
// that need transactional behavior assign WithTxFunc.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// ---- In-memory Locker (implements redis.Locker port) ----

type MockLocker struct {
	mu    sync.Mutex
	held  map[string]string
	ErrOn map[string]error
}

func NewMockLocker() *MockLocker {
	return &MockLocker{held: map[string]string{}, ErrOn: map[string]error{}}
}

func (l *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err, bad := l.ErrOn[key]; bad {
		return "", err
	}
	if tok, ok := l.held[key]; ok && tok != "" {
		return "", domain.ErrBroadcastBusy
	}
	tok := uuid.NewString()
	l.held[key] = tok
	return tok, nil
}

func (l *MockLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
		return nil
	}
	return errors.New("unlock token mismatch")
}

// newTestLogger creates a silent zerolog.Logger so logs don't clutter test
// output.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
