package services

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore is the subset of MinIO used to keep raw uploads.
type ObjectStore interface {
	Upload(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error
	GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error)
	EnsureBucketExists(ctx context.Context, bucketName string) error
}

type minioClient struct {
	client *minio.Client
}

func NewMinioService(endpoint, accessKey, secretKey string, useSSL bool) (ObjectStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioClient{client: client}, nil
}

func (m *minioClient) Upload(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	_, err := m.client.PutObject(ctx, bucketName, objectName, reader, objectSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *minioClient) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, bucketName, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioClient) EnsureBucketExists(ctx context.Context, bucketName string) error {
	found, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
	}
	return nil
}

// Capture kinds stored by the archive.
const (
	CaptureImage = "images"
	CaptureAudio = "audio"
)

// ArchiveService keeps a copy of every label photo and voice note so that
// extraction mistakes can be reviewed later. Archiving is best-effort.
type ArchiveService interface {
	Archive(ctx context.Context, userID uuid.UUID, kind, filename, contentType string, data []byte) string
}

type archiveService struct {
	store  ObjectStore
	bucket string
	newID  func() uuid.UUID
}

// NewArchiveService returns an archive writing to bucket. A nil store yields
// an archive that keeps nothing.
func NewArchiveService(store ObjectStore, bucket string) ArchiveService {
	return &archiveService{store: store, bucket: bucket, newID: uuid.New}
}

// Archive uploads data and returns its object key, or "" when nothing was stored.
func (a *archiveService) Archive(ctx context.Context, userID uuid.UUID, kind, filename, contentType string, data []byte) string {
	if a.store == nil || len(data) == 0 {
		return ""
	}
	key := a.objectKey(userID, kind, filename)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := a.store.Upload(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		log.Warnf("failed to archive %s upload for user %s: %v", kind, userID, err)
		return ""
	}
	return key
}

func (a *archiveService) objectKey(userID uuid.UUID, kind, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	return path.Join(userID.String(), kind, a.newID().String()+ext)
}
