// Package media stores user-supplied images on the object store.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/taskpulse/apiserver/config"
	"github.com/taskpulse/apiserver/internal/storage"
)

// ErrUpload wraps every failure to store or remove an object.
var ErrUpload = errors.New("media upload failed")

var extensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/bmp":     ".bmp",
	"image/avif":    ".avif",
}

// Media is one uploaded file.
type Media struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Uploader writes media under a fixed folder and returns public URLs.
type Uploader struct {
	store   storage.ObjectStorage
	folder  string
	timeout time.Duration
	newID   func() string
}

func NewUploader(store storage.ObjectStorage, cfg config.UploadConfig) *Uploader {
	folder := strings.Trim(cfg.Folder, "/")
	if folder == "" {
		folder = "user_profiles"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Uploader{
		store:   store,
		folder:  folder,
		timeout: timeout,
		newID:   uuid.NewString,
	}
}

// Upload stores m and returns the URL it can be fetched from.
func (u *Uploader) Upload(ctx context.Context, m Media) (string, error) {
	if len(m.Data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrUpload)
	}

	key := u.objectKey(m)

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	if err := u.store.Put(ctx, key, bytes.NewReader(m.Data), int64(len(m.Data)), m.ContentType); err != nil {
		return "", fmt.Errorf("%w: put %s: %v", ErrUpload, key, err)
	}
	return u.store.URL(key), nil
}

// Remove deletes an object previously returned by Upload.
func (u *Uploader) Remove(ctx context.Context, objectURL string) error {
	key, err := storage.KeyFromURL(u.store, objectURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpload, err)
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	if err := u.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrUpload, key, err)
	}
	return nil
}

func (u *Uploader) objectKey(m Media) string {
	ext := extensionFor(m.ContentType, m.Filename)
	name := slug.Make(strings.TrimSuffix(filepath.Base(m.Filename), filepath.Ext(m.Filename)))
	if name == "" || name == "." {
		name = "picture"
	}
	return fmt.Sprintf("%s/%s-%s%s", u.folder, name, u.newID(), ext)
}

func extensionFor(contentType, filename string) string {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if ext, ok := extensions[mediaType]; ok {
		return ext
	}
	return strings.ToLower(filepath.Ext(filename))
}
