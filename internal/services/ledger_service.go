package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"pharmpal/internal/caching"
	"pharmpal/internal/common"
	"pharmpal/internal/models"
	"pharmpal/internal/parsing"
	"pharmpal/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// BatchState is the lifecycle state of an inventory batch.
type BatchState int

const (
	BatchActive BatchState = iota
	// BatchDepleted batches have quantity zero and are deleted in the same transaction.
	BatchDepleted
)

// DispenseOutcome tells the caller what a dispense did to the catalog.
type DispenseOutcome string

const (
	OutcomeBatchUpdated        DispenseOutcome = "batch_updated"
	OutcomeBatchRemoved        DispenseOutcome = "batch_removed"
	OutcomeCatalogEntryRemoved DispenseOutcome = "catalog_entry_removed"
)

const (
	placeholderNamePrefix = "New Medicine - GTIN "
	maxBatchQuantity      = math.MaxInt32
)

// DispenseResult describes a completed dispense. Batch is only set for
// OutcomeBatchUpdated.
type DispenseResult struct {
	Outcome    DispenseOutcome
	Batch      *models.InventoryBatch
	MedicineID uuid.UUID
}

func (r *DispenseResult) Message() string {
	switch r.Outcome {
	case OutcomeCatalogEntryRemoved:
		return "Item dispensed and catalog entry removed."
	case OutcomeBatchRemoved:
		return "Item dispensed and batch removed."
	default:
		return "Item dispensed."
	}
}

// LedgerService applies every stock mutation. Each method runs in exactly
// one storage transaction.
type LedgerService interface {
	SmartCreate(ctx context.Context, userID uuid.UUID, req *models.SmartCreateRequest) (*models.Medicine, error)
	Receive(ctx context.Context, userID, medicineID uuid.UUID, in models.BatchInput) (*models.InventoryBatch, error)
	ReceiveFromScan(ctx context.Context, userID uuid.UUID, gs1 string, quantity int) (*models.InventoryBatch, error)
	Dispense(ctx context.Context, userID, batchID uuid.UUID, quantity int) (*DispenseResult, error)
	Restock(ctx context.Context, userID, batchID uuid.UUID, quantity int) (*models.InventoryBatch, error)
	DeleteMedicine(ctx context.Context, userID, medicineID uuid.UUID) error
	UpdateMedicine(ctx context.Context, userID, medicineID uuid.UUID, update *models.MedicineUpdate) (*models.Medicine, error)
}

type ledgerService struct {
	store repositories.Store
	cache caching.CacheService
	now   func() time.Time
}

// NewLedgerService creates the ledger. cache may be nil.
func NewLedgerService(store repositories.Store, cache caching.CacheService) LedgerService {
	return &ledgerService{store: store, cache: cache, now: time.Now}
}

// dispenseTransition returns the state a batch holding quantity moves to
// when requested units leave it, and the quantity left behind.
func dispenseTransition(quantity, requested int) (BatchState, int, error) {
	switch {
	case requested > quantity:
		return BatchActive, quantity, common.Validationf("insufficient stock: requested %d, available %d", requested, quantity)
	case requested == quantity:
		return BatchDepleted, 0, nil
	default:
		return BatchActive, quantity - requested, nil
	}
}

func validateBatchInput(in models.BatchInput) error {
	if strings.TrimSpace(in.LotNumber) == "" {
		return common.Validation("lot_number is required")
	}
	if in.ExpiryDate.IsZero() {
		return common.Validation("expiry_date is required")
	}
	return common.ValidatePositiveInteger(in.Quantity, "quantity")
}

func validatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return common.Validation("price must be a finite number")
	}
	if price < 0 {
		return common.Validation("price must not be negative")
	}
	return nil
}

func newBatch(medicineID uuid.UUID, in models.BatchInput) *models.InventoryBatch {
	return &models.InventoryBatch{
		MedicineID: medicineID,
		LotNumber:  strings.TrimSpace(in.LotNumber),
		ExpiryDate: in.ExpiryDate,
		Quantity:   in.Quantity,
	}
}

func (s *ledgerService) SmartCreate(ctx context.Context, userID uuid.UUID, req *models.SmartCreateRequest) (*models.Medicine, error) {
	if req == nil {
		return nil, common.Validation("request body is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, common.Validation("name is required")
	}
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}
	batchIn := req.Batch()
	if err := validateBatchInput(batchIn); err != nil {
		return nil, err
	}
	barcode := common.StringPtr(common.SafeString(req.Barcode))

	var result *models.Medicine
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		var medicine *models.Medicine
		if barcode != nil {
			existing, err := tx.Medicines().GetByBarcode(ctx, userID, *barcode)
			switch {
			case err == nil:
				medicine = existing
			case !errors.Is(err, repositories.ErrNotFound):
				return err
			}
		}

		if medicine == nil {
			medicine = &models.Medicine{
				UserID:       userID,
				Barcode:      barcode,
				Name:         name,
				Manufacturer: req.Manufacturer,
				Strength:     req.Strength,
				Price:        req.Price,
				ExpiryDate:   req.ExpiryDate,
			}
			if err := tx.Medicines().Create(ctx, medicine); err != nil {
				return err
			}
		}

		if err := tx.Batches().Create(ctx, newBatch(medicine.ID, batchIn)); err != nil {
			return err
		}

		batches, err := tx.Batches().ListByMedicine(ctx, medicine.ID)
		if err != nil {
			return err
		}
		medicine.Batches = batches
		result = medicine
		return nil
	})
	if err != nil {
		return nil, ledgerError(err, "medicine", "Failed to save medicine")
	}

	s.invalidate(ctx, userID, result.ID)
	return result, nil
}

func (s *ledgerService) Receive(ctx context.Context, userID, medicineID uuid.UUID, in models.BatchInput) (*models.InventoryBatch, error) {
	if err := validateBatchInput(in); err != nil {
		return nil, err
	}

	batch := newBatch(medicineID, in)
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.Medicines().GetByID(ctx, userID, medicineID); err != nil {
			return err
		}
		return tx.Batches().Create(ctx, batch)
	})
	if err != nil {
		return nil, ledgerError(err, "medicine", "Failed to receive stock")
	}

	s.invalidate(ctx, userID, medicineID)
	return batch, nil
}

func (s *ledgerService) ReceiveFromScan(ctx context.Context, userID uuid.UUID, gs1 string, quantity int) (*models.InventoryBatch, error) {
	if err := common.ValidatePositiveInteger(quantity, "quantity"); err != nil {
		return nil, err
	}
	fields := parsing.ParseGS1(gs1, s.now())
	if !fields.Complete() {
		return nil, common.Validationf("incomplete scan: missing %s", strings.Join(fields.Missing(), ", "))
	}
	expiry := models.NewDate(fields.Expiry)

	var batch *models.InventoryBatch
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		medicine, err := tx.Medicines().GetByBarcode(ctx, userID, fields.GTIN)
		if errors.Is(err, repositories.ErrNotFound) {
			manufacturer, strength := parsing.DefaultManufacturer, parsing.DefaultStrength
			medicine = &models.Medicine{
				UserID:       userID,
				Barcode:      &fields.GTIN,
				Name:         placeholderNamePrefix + fields.GTIN,
				Manufacturer: &manufacturer,
				Strength:     &strength,
				Price:        0,
				ExpiryDate:   expiry,
			}
			err = tx.Medicines().Create(ctx, medicine)
		}
		if err != nil {
			return err
		}

		batch = &models.InventoryBatch{
			MedicineID: medicine.ID,
			LotNumber:  fields.LotNumber,
			ExpiryDate: expiry,
			Quantity:   quantity,
		}
		return tx.Batches().Create(ctx, batch)
	})
	if err != nil {
		return nil, ledgerError(err, "medicine", "Failed to receive scanned stock")
	}

	s.invalidate(ctx, userID, batch.MedicineID)
	return batch, nil
}

func (s *ledgerService) Dispense(ctx context.Context, userID, batchID uuid.UUID, quantity int) (*DispenseResult, error) {
	if err := common.ValidatePositiveInteger(quantity, "quantity"); err != nil {
		return nil, err
	}

	var result *DispenseResult
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		batch, err := tx.Batches().GetForUpdate(ctx, userID, batchID)
		if err != nil {
			return err
		}

		state, remaining, err := dispenseTransition(batch.Quantity, quantity)
		if err != nil {
			return err
		}
		result = &DispenseResult{MedicineID: batch.MedicineID}

		if state == BatchActive {
			batch.Quantity = remaining
			if err := tx.Batches().UpdateQuantity(ctx, batch); err != nil {
				return err
			}
			result.Outcome = OutcomeBatchUpdated
			result.Batch = batch
			return nil
		}

		if err := tx.Batches().Delete(ctx, batch.ID); err != nil {
			return err
		}
		siblings, err := tx.Batches().CountByMedicine(ctx, batch.MedicineID)
		if err != nil {
			return err
		}
		if siblings > 0 {
			result.Outcome = OutcomeBatchRemoved
			return nil
		}
		if err := tx.Medicines().Delete(ctx, userID, batch.MedicineID); err != nil {
			return err
		}
		result.Outcome = OutcomeCatalogEntryRemoved
		return nil
	})
	if err != nil {
		return nil, ledgerError(err, "inventory batch", "Failed to dispense stock")
	}

	s.invalidate(ctx, userID, result.MedicineID)
	return result, nil
}

func (s *ledgerService) Restock(ctx context.Context, userID, batchID uuid.UUID, quantity int) (*models.InventoryBatch, error) {
	if err := common.ValidatePositiveInteger(quantity, "quantity"); err != nil {
		return nil, err
	}

	var batch *models.InventoryBatch
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		var err error
		batch, err = tx.Batches().GetForUpdate(ctx, userID, batchID)
		if err != nil {
			return err
		}
		if batch.Quantity > maxBatchQuantity-quantity {
			return common.Validation("quantity exceeds the maximum a batch can hold")
		}
		batch.Quantity += quantity
		return tx.Batches().UpdateQuantity(ctx, batch)
	})
	if err != nil {
		return nil, ledgerError(err, "inventory batch", "Failed to restock")
	}

	s.invalidate(ctx, userID, batch.MedicineID)
	return batch, nil
}

func (s *ledgerService) DeleteMedicine(ctx context.Context, userID, medicineID uuid.UUID) error {
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.Medicines().GetByID(ctx, userID, medicineID); err != nil {
			return err
		}
		if _, err := tx.Batches().DeleteByMedicine(ctx, medicineID); err != nil {
			return err
		}
		return tx.Medicines().Delete(ctx, userID, medicineID)
	})
	if err != nil {
		return ledgerError(err, "medicine", "Failed to delete medicine")
	}

	s.invalidate(ctx, userID, medicineID)
	return nil
}

func (s *ledgerService) UpdateMedicine(ctx context.Context, userID, medicineID uuid.UUID, update *models.MedicineUpdate) (*models.Medicine, error) {
	if update == nil {
		return nil, common.Validation("request body is required")
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, common.Validation("name must not be blank")
	}
	if update.Price != nil {
		if err := validatePrice(*update.Price); err != nil {
			return nil, err
		}
	}
	if update.ExpiryDate != nil && update.ExpiryDate.IsZero() {
		return nil, common.Validation("expiry_date must not be empty")
	}

	var medicine *models.Medicine
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		var err error
		medicine, err = tx.Medicines().GetByID(ctx, userID, medicineID)
		if err != nil {
			return err
		}
		update.Apply(medicine)
		medicine.Name = strings.TrimSpace(medicine.Name)
		medicine.Barcode = common.StringPtr(common.SafeString(medicine.Barcode))
		if err := tx.Medicines().Update(ctx, medicine); err != nil {
			return err
		}
		medicine.Batches, err = tx.Batches().ListByMedicine(ctx, medicineID)
		return err
	})
	if err != nil {
		return nil, ledgerError(err, "medicine", "Failed to update medicine")
	}

	s.invalidate(ctx, userID, medicineID)
	return medicine, nil
}

// invalidate drops the cached catalog entry and the user's expiry alerts,
// which the next read recomputes. It runs after commit and never fails the
// operation.
func (s *ledgerService) invalidate(ctx context.Context, userID, medicineID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteMedicine(ctx, userID, medicineID); err != nil {
		log.Warnf("failed to invalidate cached medicine %s: %v", medicineID, err)
	}
	if err := s.cache.DeleteExpiryAlerts(ctx, userID); err != nil {
		log.Warnf("failed to invalidate expiry alerts for user %s: %v", userID, err)
	}
}

// ledgerError maps storage errors onto application errors. AppErrors raised
// inside the transaction pass through unchanged.
func ledgerError(err error, resource, failure string) error {
	var appErr *common.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, repositories.ErrNotFound):
		return common.NotFound(resource)
	case errors.Is(err, repositories.ErrDuplicateBarcode):
		return common.Conflict("A medicine with this barcode already exists", err)
	default:
		log.Errorf("%s: %v", failure, err)
		return common.Internal(failure, err)
	}
}
