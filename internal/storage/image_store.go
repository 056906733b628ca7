package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	apperrors "mnki/internal/errors"
)

// Image folders, one per entity kind.
const (
	FolderMembers  = "members"
	FolderTrainers = "trainers"
	FolderAdmin    = "admin"
	FolderEvents   = "events"
)

// ImageStore relays avatar and event images to the object store and hands
// back public URLs to persist.
type ImageStore struct {
	backend   ObjectStorage
	publicURL string
}

// NewImageStore wraps an object storage backend. publicURL is the external
// base under which uploaded objects are reachable.
func NewImageStore(backend ObjectStorage, publicURL string) *ImageStore {
	return &ImageStore{
		backend:   backend,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// Upload stores the image under folder with a generated key and returns its
// public URL. Failures map to the upload-failed error so handlers answer 400.
func (s *ImageStore) Upload(ctx context.Context, folder, filename, contentType string, data []byte) (string, error) {
	ext := path.Ext(filename)
	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)

	if err := s.backend.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		slog.Error("image upload failed", "folder", folder, "error", err)
		return "", apperrors.ErrUploadFailed
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.backend.Bucket(), key), nil
}

// Owns reports whether the URL points at an object in our bucket. Avatars
// from OAuth providers fail this check and are left alone.
func (s *ImageStore) Owns(url string) bool {
	return url != "" && strings.HasPrefix(url, s.publicURL+"/"+s.backend.Bucket()+"/")
}

// Remove deletes a previously uploaded object by its public URL. Delete
// failures are logged and swallowed: a stale remote object is an accepted
// leak, never a request failure.
func (s *ImageStore) Remove(ctx context.Context, url string) {
	if !s.Owns(url) {
		return
	}
	key := strings.TrimPrefix(url, s.publicURL+"/"+s.backend.Bucket()+"/")
	if err := s.backend.Delete(ctx, key); err != nil {
		slog.Warn("failed to delete old image", "key", key, "error", err)
	}
}
