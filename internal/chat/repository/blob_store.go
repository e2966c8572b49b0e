package repository

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"messenger_service/pkg/database"

	"github.com/google/uuid"
)

// Attachment file picked for sending
type Attachment struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

// BlobStore turns an attachment into the content reference stored on the message
type BlobStore interface {
	Put(ctx context.Context, file Attachment) (string, error)
}

// LocalBlobPrefix references produced by the local store
const LocalBlobPrefix = "blob:local/"

type localBlobStore struct{}

// NewLocalBlobStore reference only, the file never leaves the device
func NewLocalBlobStore() BlobStore { return localBlobStore{} }

func (localBlobStore) Put(_ context.Context, _ Attachment) (string, error) {
	return LocalBlobPrefix + uuid.NewString(), nil
}

// PresignExpiry lifetime of MinIO attachment links
const PresignExpiry = 7 * 24 * time.Hour

type minioBlobStore struct {
	client *database.MinIOClient
}

// NewMinIOBlobStore upload attachments and reference them with a presigned URL
func NewMinIOBlobStore(client *database.MinIOClient) BlobStore {
	return &minioBlobStore{client: client}
}

func (s *minioBlobStore) Put(ctx context.Context, file Attachment) (string, error) {
	object := path.Join("attachments", uuid.NewString(), path.Base(file.Name))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := s.client.Upload(ctx, object, file.Body, file.Size, contentType); err != nil {
		return "", fmt.Errorf("upload %s: %w", file.Name, err)
	}
	return s.client.PresignGetURL(ctx, object, PresignExpiry)
}
