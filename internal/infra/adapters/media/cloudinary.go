package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"telegram-group-manager/internal/domain"
	"telegram-group-manager/internal/domain/model"
	"telegram-group-manager/internal/domain/ports/adapter"
)

var _ adapter.MediaUploader = (*CloudinaryUploader)(nil)

// CloudinaryUploader mirrors media to Cloudinary using signed remote
// uploads: Cloudinary fetches the source URL itself, so we never proxy the
// bytes.
type CloudinaryUploader struct {
	cloudName string
	apiKey    string
	apiSecret string
	client    *http.Client
	now       func() time.Time
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials incomplete")
	}
	return &CloudinaryUploader{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		client:    &http.Client{Timeout: 30 * time.Second},
		now:       time.Now,
	}, nil
}

// resource maps the media kind onto Cloudinary's resource types: photos go
// to image/upload, everything that moves goes to video/upload.
func resource(kind model.MediaKind) string {
	if kind == model.MediaPhoto {
		return "image"
	}
	return "video"
}

func (c *CloudinaryUploader) Upload(ctx context.Context, sourceURL string, kind model.MediaKind) (string, error) {
	ts := strconv.FormatInt(c.now().Unix(), 10)

	form := url.Values{}
	form.Set("file", sourceURL)
	form.Set("api_key", c.apiKey)
	form.Set("timestamp", ts)
	form.Set("signature", c.sign(ts))

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/%s/upload", c.cloudName, resource(kind))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: cloudinary returned %s", domain.ErrUploadFailed, resp.Status)
	}
	var out struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.SecureURL == "" {
		return "", domain.ErrUploadFailed
	}
	return out.SecureURL, nil
}

// sign builds Cloudinary's request signature: sha1 of the sorted parameter
// string plus the API secret.
func (c *CloudinaryUploader) sign(timestamp string) string {
	sum := sha1.Sum([]byte("timestamp=" + timestamp + c.apiSecret))
	return hex.EncodeToString(sum[:])
}
