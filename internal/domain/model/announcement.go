package model

import "telegram-group-manager/internal/domain"

// MediaKind distinguishes the attachment types the transport can deliver.
type MediaKind string

const (
	MediaNone      MediaKind = ""
	MediaPhoto     MediaKind = "photo"
	MediaVideo     MediaKind = "video"
	MediaAnimation MediaKind = "animation"
)

func ParseMediaKind(s string) (MediaKind, error) {
	switch MediaKind(s) {
	case MediaNone, MediaPhoto, MediaVideo, MediaAnimation:
		return MediaKind(s), nil
	default:
		return MediaNone, domain.ErrInvalidMedia
	}
}

// MediaAttachment is an opaque reference to a piece of media: either a
// Telegram file id or a hosted URL, tagged with its kind.
type MediaAttachment struct {
	Kind MediaKind
	Ref  string
}

// Announcement is a message the bot delivers to end users: the configured
// welcome message sent on join requests, or the payload of a broadcast.
type Announcement struct {
	Text      string
	MediaKind MediaKind
	MediaRef  string
}

func (a Announcement) HasMedia() bool {
	return a.MediaKind != MediaNone && a.MediaRef != ""
}

// DefaultWelcomeText is the compiled-in fallback used when no welcome
// message has been configured or the store is unreachable.
const DefaultWelcomeText = `Welcome! Here are the group policies:
1. Be respectful.
2. No spam.
3. Follow the rules.`

func DefaultWelcome() Announcement {
	return Announcement{Text: DefaultWelcomeText}
}
