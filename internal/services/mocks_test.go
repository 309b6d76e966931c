package services

import (
	"context"
	"io"
	"time"

	"pharmpal/internal/llm"
	"pharmpal/internal/models"
	"pharmpal/internal/ocr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetMedicine(ctx context.Context, userID, medicineID uuid.UUID) (*models.Medicine, error) {
	args := m.Called(ctx, userID, medicineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Medicine), args.Error(1)
}

func (m *MockCacheService) SetMedicine(ctx context.Context, userID uuid.UUID, medicine *models.Medicine, ttl time.Duration) error {
	args := m.Called(ctx, userID, medicine, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteMedicine(ctx context.Context, userID, medicineID uuid.UUID) error {
	args := m.Called(ctx, userID, medicineID)
	return args.Error(0)
}

func (m *MockCacheService) GetExpiryAlerts(ctx context.Context, userID uuid.UUID) ([]*models.ExpiringBatch, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ExpiringBatch), args.Error(1)
}

func (m *MockCacheService) SetExpiryAlerts(ctx context.Context, userID uuid.UUID, alerts []*models.ExpiringBatch, ttl time.Duration) error {
	args := m.Called(ctx, userID, alerts, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteExpiryAlerts(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Upload(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

type MockOCREngine struct {
	mock.Mock
}

func (m *MockOCREngine) Recognize(ctx context.Context, image []byte) ([]ocr.Span, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ocr.Span), args.Error(1)
}

type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	args := m.Called(ctx, audio, filename)
	return args.String(0), args.Error(1)
}

type MockFieldExtractor struct {
	mock.Mock
}

func (m *MockFieldExtractor) ExtractFields(ctx context.Context, transcript string) (map[string]any, error) {
	args := m.Called(ctx, transcript)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

type MockChatCompleter struct {
	mock.Mock
}

func (m *MockChatCompleter) Complete(ctx context.Context, messages []llm.Message, tools []llm.Tool) (llm.Message, error) {
	args := m.Called(ctx, messages, tools)
	return args.Get(0).(llm.Message), args.Error(1)
}
