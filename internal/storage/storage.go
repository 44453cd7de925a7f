package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/nextgig/job-board/internal/config"
)

// Storage keeps uploaded files (avatars, company logos, resumes) and hands
// out their public URLs.
type Storage interface {
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	URL(path string) string
}

// NewStorage picks the backend named by cfg.Type.
func NewStorage(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// AvatarPath is where a profile picture uploaded at t is stored.
func AvatarPath(profileID, ext string, t time.Time) string {
	return fmt.Sprintf("avatars/%s/%d.%s", profileID, t.UnixMilli(), cleanExt(ext))
}

// LogoPath is where a company logo uploaded at t is stored.
func LogoPath(profileID, ext string, t time.Time) string {
	return fmt.Sprintf("logos/%s/%d.%s", profileID, t.UnixMilli(), cleanExt(ext))
}

// ResumePath is where a candidate resume uploaded at t is stored.
func ResumePath(candidateID, ext string, t time.Time) string {
	return fmt.Sprintf("resumes/%s_%d.%s", candidateID, t.UnixMilli(), cleanExt(ext))
}

// ExtFromFilename returns the lower cased extension of name without the dot.
func ExtFromFilename(name string) string {
	return cleanExt(path.Ext(name))
}

func cleanExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return "bin"
	}
	return ext
}
