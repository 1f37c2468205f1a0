//go:build !integration

package application_test

import (
	"context"
	"errors"
	"testing"

	"telegram-group-manager/internal/application"
	"telegram-group-manager/internal/domain/model"
	"telegram-group-manager/internal/domain/ports/repository"
	"telegram-group-manager/internal/usecase"
)

// Function-field fakes for the usecase interfaces the facade composes.

type fakeUserUC struct {
	RegisterFunc func(ctx context.Context, p model.Profile) (*model.User, bool, error)
}

func (f *fakeUserUC) Register(ctx context.Context, p model.Profile) (*model.User, bool, error) {
	return f.RegisterFunc(ctx, p)
}
func (f *fakeUserUC) GetByTelegramID(ctx context.Context, tgID int64) (*model.User, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeUserUC) MarkWelcomeSent(ctx context.Context, tgID int64) error { return nil }
func (f *fakeUserUC) Count(ctx context.Context) (int, error)                { return 0, nil }

type fakeConvUC struct {
	StartFunc         func(ctx context.Context, tgID int64, cmd repository.FlowCommand) (string, error)
	ActiveFunc        func(tgID int64) bool
	HandleMessageFunc func(ctx context.Context, tgID int64, in usecase.Input) (string, error)
}

func (f *fakeConvUC) Start(ctx context.Context, tgID int64, cmd repository.FlowCommand) (string, error) {
	return f.StartFunc(ctx, tgID, cmd)
}
func (f *fakeConvUC) Active(tgID int64) bool {
	if f.ActiveFunc != nil {
		return f.ActiveFunc(tgID)
	}
	return false
}
func (f *fakeConvUC) HandleMessage(ctx context.Context, tgID int64, in usecase.Input) (string, error) {
	return f.HandleMessageFunc(ctx, tgID, in)
}

type fakeJoinUC struct {
	HandleJoinRequestFunc func(ctx context.Context, chatID int64, p model.Profile) error
}

func (f *fakeJoinUC) HandleJoinRequest(ctx context.Context, chatID int64, p model.Profile) error {
	return f.HandleJoinRequestFunc(ctx, chatID, p)
}

func TestBotFacade_HandleStart(t *testing.T) {
	ctx := context.Background()

	t.Run("new user", func(t *testing.T) {
		userUC := &fakeUserUC{
			RegisterFunc: func(ctx context.Context, p model.Profile) (*model.User, bool, error) {
				return &model.User{ID: "id-1", TelegramID: p.TelegramID}, true, nil
			},
		}
		facade := application.NewBotFacade(userUC, &fakeConvUC{}, &fakeJoinUC{})

		reply, err := facade.HandleStart(ctx, model.Profile{TelegramID: 5})
		if err != nil {
			t.Fatalf("HandleStart: %v", err)
		}
		if reply != "You have been registered! Welcome to the bot." {
			t.Errorf("unexpected reply: %q", reply)
		}
	})

	t.Run("returning user", func(t *testing.T) {
		userUC := &fakeUserUC{
			RegisterFunc: func(ctx context.Context, p model.Profile) (*model.User, bool, error) {
				return &model.User{ID: "id-1", TelegramID: p.TelegramID}, false, nil
			},
		}
		facade := application.NewBotFacade(userUC, &fakeConvUC{}, &fakeJoinUC{})

		reply, err := facade.HandleStart(ctx, model.Profile{TelegramID: 5})
		if err != nil {
			t.Fatalf("HandleStart: %v", err)
		}
		if reply != "You are already registered. Welcome back!" {
			t.Errorf("unexpected reply: %q", reply)
		}
	})
}

func TestBotFacade_HandleFlowStart(t *testing.T) {
	ctx := context.Background()

	t.Run("non-admin is rejected before any session opens", func(t *testing.T) {
		started := false
		convUC := &fakeConvUC{
			StartFunc: func(ctx context.Context, tgID int64, cmd repository.FlowCommand) (string, error) {
				started = true
				return "prompt", nil
			},
		}
		facade := application.NewBotFacade(&fakeUserUC{}, convUC, &fakeJoinUC{})

		reply, err := facade.HandleFlowStart(ctx, 5, repository.FlowBroadcast, false)
		if err != nil {
			t.Fatalf("HandleFlowStart: %v", err)
		}
		if reply != "You are not authorized to use this command." {
			t.Errorf("unexpected reply: %q", reply)
		}
		if started {
			t.Error("conversation must not start for non-admins")
		}
	})

	t.Run("admin gets the first prompt", func(t *testing.T) {
		convUC := &fakeConvUC{
			StartFunc: func(ctx context.Context, tgID int64, cmd repository.FlowCommand) (string, error) {
				if cmd != repository.FlowSetWelcome {
					t.Errorf("unexpected flow: %q", cmd)
				}
				return "Please provide a new welcome message.", nil
			},
		}
		facade := application.NewBotFacade(&fakeUserUC{}, convUC, &fakeJoinUC{})

		reply, err := facade.HandleFlowStart(ctx, 5, repository.FlowSetWelcome, true)
		if err != nil {
			t.Fatalf("HandleFlowStart: %v", err)
		}
		if reply != "Please provide a new welcome message." {
			t.Errorf("unexpected reply: %q", reply)
		}
	})
}
