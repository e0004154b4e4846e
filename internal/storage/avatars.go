// Package storage keeps uploaded files on local disk and serves them by
// public URL.
package storage

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxAvatarSize caps avatar uploads at 2MB.
const MaxAvatarSize = 2 << 20

var allowedAvatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// AvatarStore writes avatars under <root>/avatars and returns public URLs.
type AvatarStore struct {
	root          string
	publicBaseURL string
}

func NewAvatarStore(rootDir, publicBaseURL string) *AvatarStore {
	return &AvatarStore{
		root:          filepath.Clean(rootDir),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Save stores the avatar as avatars/<userId>-<timestamp>.<ext> and returns
// its public URL. Non-image content types and oversized uploads are rejected
// before anything touches disk.
func (s *AvatarStore) Save(userID, contentType string, size int64, body io.Reader) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("invalid content type %q", contentType)
	}
	ext, ok := allowedAvatarTypes[mediaType]
	if !ok {
		return "", fmt.Errorf("unsupported avatar type %q, use an image", mediaType)
	}
	if size > MaxAvatarSize {
		return "", fmt.Errorf("avatar exceeds %d bytes", MaxAvatarSize)
	}

	dir := filepath.Join(s.root, "avatars")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create avatars dir: %w", err)
	}

	name := fmt.Sprintf("%s-%d%s", filepath.Base(userID), time.Now().UnixMilli(), ext)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	// Guard against lying Content-Length headers.
	written, err := io.Copy(dst, io.LimitReader(body, MaxAvatarSize+1))
	if err != nil {
		return "", err
	}
	if written > MaxAvatarSize {
		os.Remove(dst.Name())
		return "", fmt.Errorf("avatar exceeds %d bytes", MaxAvatarSize)
	}

	return s.publicBaseURL + "/files/avatars/" + name, nil
}
