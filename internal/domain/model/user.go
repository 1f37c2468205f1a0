package model

import (
	"time"

	"telegram-group-manager/internal/domain"

	"github.com/google/uuid"
)

// Profile carries the identity fields Telegram attaches to an update.
type Profile struct {
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
}

// User is a member of the user directory: anyone who registered with /start
// or filed a join request for the managed group.
type User struct {
	ID           string
	TelegramID   int64
	Username     string
	FirstName    string
	LastName     string
	WelcomeSent  bool
	RegisteredAt time.Time
	LastActiveAt time.Time
}

func NewUser(id string, p Profile) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if p.TelegramID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	u := &User{
		ID:           id,
		TelegramID:   p.TelegramID,
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		RegisteredAt: time.Now(),
		LastActiveAt: time.Now(),
	}
	return u, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }
func (u *User) Touch()       { u.LastActiveAt = time.Now() }

// Refresh overwrites the identity fields with the latest ones Telegram sent.
func (u *User) Refresh(p Profile) {
	if p.Username != "" {
		u.Username = p.Username
	}
	if p.FirstName != "" {
		u.FirstName = p.FirstName
	}
	u.LastName = p.LastName
	u.Touch()
}

// DisplayName is what we log and address the user by.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}
