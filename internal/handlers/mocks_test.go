package handlers

import (
	"context"

	"pharmpal/internal/models"
	"pharmpal/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) SmartCreate(ctx context.Context, userID uuid.UUID, req *models.SmartCreateRequest) (*models.Medicine, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Medicine), args.Error(1)
}

func (m *MockLedgerService) Receive(ctx context.Context, userID, medicineID uuid.UUID, in models.BatchInput) (*models.InventoryBatch, error) {
	args := m.Called(ctx, userID, medicineID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryBatch), args.Error(1)
}

func (m *MockLedgerService) ReceiveFromScan(ctx context.Context, userID uuid.UUID, gs1 string, quantity int) (*models.InventoryBatch, error) {
	args := m.Called(ctx, userID, gs1, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryBatch), args.Error(1)
}

func (m *MockLedgerService) Dispense(ctx context.Context, userID, batchID uuid.UUID, quantity int) (*services.DispenseResult, error) {
	args := m.Called(ctx, userID, batchID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DispenseResult), args.Error(1)
}

func (m *MockLedgerService) Restock(ctx context.Context, userID, batchID uuid.UUID, quantity int) (*models.InventoryBatch, error) {
	args := m.Called(ctx, userID, batchID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryBatch), args.Error(1)
}

func (m *MockLedgerService) DeleteMedicine(ctx context.Context, userID, medicineID uuid.UUID) error {
	return m.Called(ctx, userID, medicineID).Error(0)
}

func (m *MockLedgerService) UpdateMedicine(ctx context.Context, userID, medicineID uuid.UUID, update *models.MedicineUpdate) (*models.Medicine, error) {
	args := m.Called(ctx, userID, medicineID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Medicine), args.Error(1)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) medicine(args mock.Arguments) (*models.Medicine, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Medicine), args.Error(1)
}

func (m *MockCatalogService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Medicine, error) {
	return m.medicine(m.Called(ctx, userID, id))
}

func (m *MockCatalogService) GetByBarcode(ctx context.Context, userID uuid.UUID, barcode string) (*models.Medicine, error) {
	return m.medicine(m.Called(ctx, userID, barcode))
}

func (m *MockCatalogService) FindByName(ctx context.Context, userID uuid.UUID, name string) (*models.Medicine, error) {
	return m.medicine(m.Called(ctx, userID, name))
}

func (m *MockCatalogService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Medicine, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Medicine), args.Error(1)
}

func (m *MockCatalogService) TotalQuantity(ctx context.Context, userID uuid.UUID, name string) (*services.StockQuantity, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.StockQuantity), args.Error(1)
}

func (m *MockCatalogService) ExpiringWithin(ctx context.Context, userID uuid.UUID, days int) ([]*models.ExpiringBatch, error) {
	args := m.Called(ctx, userID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ExpiringBatch), args.Error(1)
}

type MockIntakeService struct {
	mock.Mock
}

func (m *MockIntakeService) ExtractLabel(ctx context.Context, userID uuid.UUID, image services.Upload) (*services.LabelExtraction, error) {
	args := m.Called(ctx, userID, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LabelExtraction), args.Error(1)
}

func (m *MockIntakeService) ProcessVoice(ctx context.Context, userID uuid.UUID, audio services.Upload) (*models.Medicine, error) {
	args := m.Called(ctx, userID, audio)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Medicine), args.Error(1)
}

type MockAssistantService struct {
	mock.Mock
}

func (m *MockAssistantService) Ask(ctx context.Context, userID uuid.UUID, question string) (string, error) {
	args := m.Called(ctx, userID, question)
	return args.String(0), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockAuthService) GenerateToken(user *models.User) (*models.TokenResponse, error) {
	args := m.Called(user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

type MockAlertReader struct {
	mock.Mock
}

func (m *MockAlertReader) Alerts(ctx context.Context, userID uuid.UUID) ([]*models.ExpiringBatch, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ExpiringBatch), args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }
