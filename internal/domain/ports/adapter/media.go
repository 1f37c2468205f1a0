package adapter

import (
	"context"

	"telegram-group-manager/internal/domain/model"
)

// MediaUploader mirrors media to an external CDN so the stored reference
// outlives Telegram's file-id scope. Optional: callers keep the original
// reference when no uploader is configured or the upload fails.
type MediaUploader interface {
	Upload(ctx context.Context, sourceURL string, kind model.MediaKind) (hostedURL string, err error)
}
