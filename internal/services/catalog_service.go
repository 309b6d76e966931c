package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"pharmpal/internal/caching"
	"pharmpal/internal/common"
	"pharmpal/internal/models"
	"pharmpal/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

const medicineCacheTTL = 5 * time.Minute

// StockQuantity is the answer to "how many units of X do we have".
type StockQuantity struct {
	MedicineName  string `json:"medicine_name"`
	TotalQuantity int    `json:"total_quantity"`
}

// CatalogService answers read-only questions about a user's catalog.
type CatalogService interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Medicine, error)
	GetByBarcode(ctx context.Context, userID uuid.UUID, barcode string) (*models.Medicine, error)
	FindByName(ctx context.Context, userID uuid.UUID, name string) (*models.Medicine, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Medicine, error)
	TotalQuantity(ctx context.Context, userID uuid.UUID, name string) (*StockQuantity, error)
	ExpiringWithin(ctx context.Context, userID uuid.UUID, days int) ([]*models.ExpiringBatch, error)
}

type catalogService struct {
	store repositories.Store
	cache caching.CacheService
	now   func() time.Time
}

// NewCatalogService creates the catalog. cache may be nil.
func NewCatalogService(store repositories.Store, cache caching.CacheService) CatalogService {
	return &catalogService{store: store, cache: cache, now: time.Now}
}

func (s *catalogService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Medicine, error) {
	if s.cache != nil {
		cached, err := s.cache.GetMedicine(ctx, userID, id)
		if err != nil {
			log.Warnf("medicine cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	medicine, err := s.store.Medicines().GetByID(ctx, userID, id)
	if err != nil {
		return nil, lookupError(err, "Medicine")
	}
	if err := s.withBatches(ctx, medicine); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetMedicine(ctx, userID, medicine, medicineCacheTTL); err != nil {
			log.Warnf("medicine cache write failed: %v", err)
		}
	}
	return medicine, nil
}

func (s *catalogService) GetByBarcode(ctx context.Context, userID uuid.UUID, barcode string) (*models.Medicine, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, common.Validation("barcode is required")
	}
	medicine, err := s.store.Medicines().GetByBarcode(ctx, userID, barcode)
	if err != nil {
		return nil, lookupError(err, "Medicine with this barcode")
	}
	if err := s.withBatches(ctx, medicine); err != nil {
		return nil, err
	}
	return medicine, nil
}

// FindByName returns the first medicine whose name contains name, ignoring
// case. With several matches the oldest entry wins.
func (s *catalogService) FindByName(ctx context.Context, userID uuid.UUID, name string) (*models.Medicine, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.Validation("name is required")
	}
	medicine, err := s.store.Medicines().FindByName(ctx, userID, name)
	if err != nil {
		return nil, lookupError(err, "Medicine")
	}
	if err := s.withBatches(ctx, medicine); err != nil {
		return nil, err
	}
	return medicine, nil
}

func (s *catalogService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Medicine, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)

	medicines, err := s.store.Medicines().List(ctx, userID, limit, offset)
	if err != nil {
		return nil, lookupError(err, "Medicine")
	}

	ids := make([]uuid.UUID, 0, len(medicines))
	for _, m := range medicines {
		ids = append(ids, m.ID)
	}
	batches, err := s.store.Batches().ListByMedicines(ctx, ids)
	if err != nil {
		return nil, lookupError(err, "Medicine")
	}
	for _, m := range medicines {
		m.Batches = batches[m.ID]
		if m.Batches == nil {
			m.Batches = []*models.InventoryBatch{}
		}
	}
	return medicines, nil
}

func (s *catalogService) TotalQuantity(ctx context.Context, userID uuid.UUID, name string) (*StockQuantity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.Validation("medicine_name is required")
	}
	medicine, err := s.store.Medicines().FindByName(ctx, userID, name)
	if err != nil {
		return nil, lookupError(err, "Medicine")
	}
	total, err := s.store.Batches().SumQuantity(ctx, medicine.ID)
	if err != nil {
		return nil, lookupError(err, "Medicine")
	}
	return &StockQuantity{MedicineName: medicine.Name, TotalQuantity: total}, nil
}

// ExpiringWithin lists batches whose expiry date is at most days from today.
// Already expired batches are included.
func (s *catalogService) ExpiringWithin(ctx context.Context, userID uuid.UUID, days int) ([]*models.ExpiringBatch, error) {
	if days < 0 {
		return nil, common.Validation("days_limit must not be negative")
	}
	cutoff := models.NewDate(s.now()).AddDate(0, 0, days)
	expiring, err := s.store.Batches().ListExpiring(ctx, userID, cutoff)
	if err != nil {
		return nil, lookupError(err, "Inventory batch")
	}
	return expiring, nil
}

func (s *catalogService) withBatches(ctx context.Context, medicine *models.Medicine) error {
	batches, err := s.store.Batches().ListByMedicine(ctx, medicine.ID)
	if err != nil {
		return lookupError(err, "Medicine")
	}
	medicine.Batches = batches
	return nil
}

func lookupError(err error, resource string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return common.NotFound(resource)
	}
	log.Errorf("catalog lookup failed: %v", err)
	return common.Internal("Failed to read catalog", err)
}
