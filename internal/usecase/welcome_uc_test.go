//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"telegram-group-manager/internal/domain/model"
	"telegram-group-manager/internal/domain/ports/repository"
	"telegram-group-manager/internal/usecase"
)

func TestWelcomeUseCase_Get(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	t.Run("returns the configured message", func(t *testing.T) {
		repo := &MockWelcomeRepo{}
		stored := model.Announcement{Text: "hi there", MediaKind: model.MediaPhoto, MediaRef: "file-9"}
		if err := repo.Set(ctx, nil, &stored); err != nil {
			t.Fatalf("seed: %v", err)
		}
		uc := usecase.NewWelcomeUseCase(repo, &MockTelegramBot{}, nil, logger)

		got := uc.Get(ctx)
		if got != stored {
			t.Errorf("expected %+v, got %+v", stored, got)
		}
	})

	t.Run("falls back to the default when nothing is configured", func(t *testing.T) {
		uc := usecase.NewWelcomeUseCase(&MockWelcomeRepo{}, &MockTelegramBot{}, nil, logger)

		got := uc.Get(ctx)
		if got.Text != model.DefaultWelcomeText {
			t.Errorf("expected default text, got %q", got.Text)
		}
		if got.HasMedia() {
			t.Error("default welcome must not carry media")
		}
	})

	t.Run("falls back to the default when the store errors", func(t *testing.T) {
		repo := &MockWelcomeRepo{
			GetFunc: func(ctx context.Context, tx repository.Tx) (*model.Announcement, error) {
				return nil, errors.New("connection refused")
			},
		}
		uc := usecase.NewWelcomeUseCase(repo, &MockTelegramBot{}, nil, logger)

		if got := uc.Get(ctx); got.Text != model.DefaultWelcomeText {
			t.Errorf("expected default text, got %q", got.Text)
		}
	})
}

func TestWelcomeUseCase_Set(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	t.Run("stores text without media", func(t *testing.T) {
		repo := &MockWelcomeRepo{}
		uc := usecase.NewWelcomeUseCase(repo, &MockTelegramBot{}, nil, logger)

		if err := uc.Set(ctx, "new rules", nil); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, err := repo.Get(ctx, nil)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Text != "new rules" || got.HasMedia() {
			t.Errorf("unexpected stored message: %+v", got)
		}
	})

	t.Run("mirrors media to the CDN when an uploader is configured", func(t *testing.T) {
		repo := &MockWelcomeRepo{}
		uploader := &MockUploader{
			UploadFunc: func(ctx context.Context, sourceURL string, kind model.MediaKind) (string, error) {
				return "https://cdn.example/abc.jpg", nil
			},
		}
		uc := usecase.NewWelcomeUseCase(repo, &MockTelegramBot{}, uploader, logger)

		media := &model.MediaAttachment{Kind: model.MediaPhoto, Ref: "file-1"}
		if err := uc.Set(ctx, "with photo", media); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, _ := repo.Get(ctx, nil)
		if got.MediaRef != "https://cdn.example/abc.jpg" {
			t.Errorf("expected hosted url, got %q", got.MediaRef)
		}
		if got.MediaKind != model.MediaPhoto {
			t.Errorf("expected photo kind, got %q", got.MediaKind)
		}
	})

	t.Run("keeps the file id when the upload fails", func(t *testing.T) {
		repo := &MockWelcomeRepo{}
		uploader := &MockUploader{
			UploadFunc: func(ctx context.Context, sourceURL string, kind model.MediaKind) (string, error) {
				return "", errors.New("cdn unavailable")
			},
		}
		uc := usecase.NewWelcomeUseCase(repo, &MockTelegramBot{}, uploader, logger)

		media := &model.MediaAttachment{Kind: model.MediaVideo, Ref: "file-2"}
		if err := uc.Set(ctx, "with video", media); err != nil {
			t.Fatalf("Set must not fail on a CDN error: %v", err)
		}
		got, _ := repo.Get(ctx, nil)
		if got.MediaRef != "file-2" {
			t.Errorf("expected original file id, got %q", got.MediaRef)
		}
	})

	t.Run("keeps the file id when no uploader is configured", func(t *testing.T) {
		repo := &MockWelcomeRepo{}
		uc := usecase.NewWelcomeUseCase(repo, &MockTelegramBot{}, nil, logger)

		media := &model.MediaAttachment{Kind: model.MediaAnimation, Ref: "file-3"}
		if err := uc.Set(ctx, "with gif", media); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, _ := repo.Get(ctx, nil)
		if got.MediaRef != "file-3" {
			t.Errorf("expected original file id, got %q", got.MediaRef)
		}
	})
}
