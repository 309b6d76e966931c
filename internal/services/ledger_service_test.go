package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"pharmpal/internal/common"
	"pharmpal/internal/models"
	"pharmpal/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	store   *memStore
	cache   *MockCacheService
	ledger  *ledgerService
	catalog CatalogService
	userID  uuid.UUID
	ctx     context.Context
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.store = newMemStore()
	suite.cache = new(MockCacheService)
	suite.cache.On("DeleteMedicine", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.cache.On("DeleteExpiryAlerts", mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.ledger = &ledgerService{
		store: suite.store,
		cache: suite.cache,
		now:   func() time.Time { return time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC) },
	}
	suite.catalog = NewCatalogService(suite.store, nil)
	suite.userID = uuid.New()
	suite.ctx = context.Background()
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func expiry(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func smartCreateRequest(barcode *string, lot string, quantity int) *models.SmartCreateRequest {
	manufacturer, strength := "Cipla", "500mg"
	return &models.SmartCreateRequest{
		Barcode:      barcode,
		Name:         "Paracetamol",
		Manufacturer: &manufacturer,
		Strength:     &strength,
		Price:        12.34,
		LotNumber:    lot,
		Quantity:     quantity,
		ExpiryDate:   expiry("2027-08-15"),
	}
}

func barcode(s string) *string { return &s }

// seed creates one medicine holding batches with the given quantities.
func (suite *LedgerServiceTestSuite) seed(quantities ...int) *models.Medicine {
	medicine, err := suite.ledger.SmartCreate(suite.ctx, suite.userID, smartCreateRequest(barcode("890100"), "LOT-A", quantities[0]))
	suite.Require().NoError(err)
	for i, q := range quantities[1:] {
		_, err := suite.ledger.Receive(suite.ctx, suite.userID, medicine.ID, models.BatchInput{
			LotNumber:  "LOT-" + string(rune('B'+i)),
			ExpiryDate: expiry("2028-01-01"),
			Quantity:   q,
		})
		suite.Require().NoError(err)
	}
	medicine, err = suite.catalog.GetByID(suite.ctx, suite.userID, medicine.ID)
	suite.Require().NoError(err)
	return medicine
}

func (suite *LedgerServiceTestSuite) TestSmartCreate_SameBarcodeSameUserAppendsBatch() {
	first, err := suite.ledger.SmartCreate(suite.ctx, suite.userID, smartCreateRequest(barcode("890100"), "LOT-1", 10))
	suite.Require().NoError(err)
	second, err := suite.ledger.SmartCreate(suite.ctx, suite.userID, smartCreateRequest(barcode("890100"), "LOT-2", 5))
	suite.Require().NoError(err)

	assert.Equal(suite.T(), first.ID, second.ID)
	assert.Len(suite.T(), suite.store.medicines, 1)
	assert.Len(suite.T(), suite.store.batches, 2)
	assert.Len(suite.T(), second.Batches, 2)
	assert.Equal(suite.T(), 15, second.TotalQuantity())
}

func (suite *LedgerServiceTestSuite) TestSmartCreate_SameBarcodeDifferentUsersAreIsolated() {
	other := uuid.New()

	a, err := suite.ledger.SmartCreate(suite.ctx, suite.userID, smartCreateRequest(barcode("890100"), "LOT-1", 10))
	suite.Require().NoError(err)
	b, err := suite.ledger.SmartCreate(suite.ctx, other, smartCreateRequest(barcode("890100"), "LOT-1", 10))
	suite.Require().NoError(err)

	assert.NotEqual(suite.T(), a.ID, b.ID)
	assert.Len(suite.T(), suite.store.medicines, 2)
	assert.Len(suite.T(), b.Batches, 1)
}

func (suite *LedgerServiceTestSuite) TestSmartCreate_WithoutBarcodeAlwaysCreates() {
	_, err := suite.ledger.SmartCreate(suite.ctx, suite.userID, smartCreateRequest(nil, "LOT-1", 1))
	suite.Require().NoError(err)
	_, err = suite.ledger.SmartCreate(suite.ctx, suite.userID, smartCreateRequest(barcode("  "), "LOT-2", 1))
	suite.Require().NoError(err)

	assert.Len(suite.T(), suite.store.medicines, 2)
}

func (suite *LedgerServiceTestSuite) TestSmartCreate_RoundTripPreservesFields() {
	created, err := suite.ledger.SmartCreate(suite.ctx, suite.userID, smartCreateRequest(barcode("890100"), "LOT-1", 10))
	suite.Require().NoError(err)

	read, err := suite.catalog.GetByID(suite.ctx, suite.userID, created.ID)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), "Paracetamol", read.Name)
	assert.Equal(suite.T(), "890100", *read.Barcode)
	assert.Equal(suite.T(), "Cipla", *read.Manufacturer)
	assert.Equal(suite.T(), "500mg", *read.Strength)
	assert.Equal(suite.T(), 12.34, read.Price)
	assert.Equal(suite.T(), "2027-08-15", read.ExpiryDate.String())
	suite.Require().Len(read.Batches, 1)
	assert.Equal(suite.T(), "LOT-1", read.Batches[0].LotNumber)
	assert.Equal(suite.T(), "2027-08-15", read.Batches[0].ExpiryDate.String())
	assert.Equal(suite.T(), 10, read.Batches[0].Quantity)
}

func (suite *LedgerServiceTestSuite) TestSmartCreate_PriceReadsBackExactly() {
	for _, price := range []float64{12.345, 0.1, 1e12} {
		req := smartCreateRequest(nil, "LOT-1", 1)
		req.Price = price

		created, err := suite.ledger.SmartCreate(suite.ctx, suite.userID, req)
		suite.Require().NoError(err)
		read, err := suite.catalog.GetByID(suite.ctx, suite.userID, created.ID)
		suite.Require().NoError(err)

		assert.Equal(suite.T(), price, created.Price)
		assert.Equal(suite.T(), created.Price, read.Price)
	}
}

func (suite *LedgerServiceTestSuite) TestSmartCreate_RejectsInvalidInputBeforeWriting() {
	for _, req := range []*models.SmartCreateRequest{
		smartCreateRequest(nil, "LOT-1", 0),
		smartCreateRequest(nil, " ", 3),
		func() *models.SmartCreateRequest { r := smartCreateRequest(nil, "L", 3); r.Name = ""; return r }(),
		func() *models.SmartCreateRequest { r := smartCreateRequest(nil, "L", 3); r.Price = -1; return r }(),
		func() *models.SmartCreateRequest { r := smartCreateRequest(nil, "L", 3); r.Price = math.Inf(1); return r }(),
		func() *models.SmartCreateRequest { r := smartCreateRequest(nil, "L", 3); r.Price = math.NaN(); return r }(),
		func() *models.SmartCreateRequest { r := smartCreateRequest(nil, "L", 3); r.ExpiryDate = models.Date{}; return r }(),
	} {
		_, err := suite.ledger.SmartCreate(suite.ctx, suite.userID, req)
		assert.True(suite.T(), common.IsKind(err, common.KindValidation), "got %v", err)
	}
	assert.Zero(suite.T(), suite.store.commits+suite.store.rollbacks)
	assert.Empty(suite.T(), suite.store.medicines)
}

func (suite *LedgerServiceTestSuite) TestSmartCreate_StorageFailureRollsBackEverything() {
	suite.store.failOn["batches.Create"] = errInjected

	_, err := suite.ledger.SmartCreate(suite.ctx, suite.userID, smartCreateRequest(barcode("890100"), "LOT-1", 10))

	assert.True(suite.T(), common.IsKind(err, common.KindInternal))
	assert.ErrorIs(suite.T(), err, errInjected)
	assert.Empty(suite.T(), suite.store.medicines)
	assert.Equal(suite.T(), 1, suite.store.rollbacks)
	suite.cache.AssertNotCalled(suite.T(), "DeleteMedicine", mock.Anything, mock.Anything, mock.Anything)
	suite.cache.AssertNotCalled(suite.T(), "DeleteExpiryAlerts", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestConcurrentInsertOfSameBarcodeIsConflict() {
	suite.store.failOn["medicines.Create"] = repositories.ErrDuplicateBarcode

	_, err := suite.ledger.SmartCreate(suite.ctx, suite.userID, smartCreateRequest(barcode("890100"), "LOT-1", 10))
	assert.True(suite.T(), common.IsKind(err, common.KindConflict), "got %v", err)

	_, err = suite.ledger.ReceiveFromScan(suite.ctx, suite.userID, "(01)00012345678905(17)271130(10)B77", 20)
	assert.True(suite.T(), common.IsKind(err, common.KindConflict), "got %v", err)

	assert.Empty(suite.T(), suite.store.medicines)
	assert.Empty(suite.T(), suite.store.batches)
	assert.Equal(suite.T(), 2, suite.store.rollbacks)
	suite.cache.AssertNotCalled(suite.T(), "DeleteExpiryAlerts", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestSmartCreate_InvalidatesCacheAfterCommit() {
	medicine, err := suite.ledger.SmartCreate(suite.ctx, suite.userID, smartCreateRequest(nil, "LOT-1", 10))
	suite.Require().NoError(err)

	suite.cache.AssertCalled(suite.T(), "DeleteMedicine", mock.Anything, suite.userID, medicine.ID)
	suite.cache.AssertCalled(suite.T(), "DeleteExpiryAlerts", mock.Anything, suite.userID)
}

func (suite *LedgerServiceTestSuite) TestStockChangesDropExpiryAlerts() {
	medicine := suite.seed(5, 2)

	operations := map[string]func() error{
		"receive": func() error {
			_, err := suite.ledger.Receive(suite.ctx, suite.userID, medicine.ID, models.BatchInput{
				LotNumber: "LOT-Z", ExpiryDate: expiry("2026-03-20"), Quantity: 1,
			})
			return err
		},
		"dispense": func() error {
			_, err := suite.ledger.Dispense(suite.ctx, suite.userID, medicine.Batches[0].ID, 1)
			return err
		},
		"restock": func() error {
			_, err := suite.ledger.Restock(suite.ctx, suite.userID, medicine.Batches[0].ID, 1)
			return err
		},
		"delete": func() error {
			return suite.ledger.DeleteMedicine(suite.ctx, suite.userID, medicine.ID)
		},
	}
	for _, name := range []string{"receive", "dispense", "restock", "delete"} {
		cache := new(MockCacheService)
		cache.On("DeleteMedicine", mock.Anything, suite.userID, medicine.ID).Return(nil).Once()
		cache.On("DeleteExpiryAlerts", mock.Anything, suite.userID).Return(nil).Once()
		suite.ledger.cache = cache

		suite.Require().NoError(operations[name](), name)
		cache.AssertExpectations(suite.T())
	}
}

func (suite *LedgerServiceTestSuite) TestCacheFailureDoesNotFailOperation() {
	cache := new(MockCacheService)
	cache.On("DeleteMedicine", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))
	cache.On("DeleteExpiryAlerts", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	suite.ledger.cache = cache

	_, err := suite.ledger.SmartCreate(suite.ctx, suite.userID, smartCreateRequest(nil, "LOT-1", 10))

	assert.NoError(suite.T(), err)
	cache.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestReceive_RequiresOwnership() {
	medicine := suite.seed(5)

	_, err := suite.ledger.Receive(suite.ctx, uuid.New(), medicine.ID, models.BatchInput{
		LotNumber: "X", ExpiryDate: expiry("2028-01-01"), Quantity: 1,
	})

	assert.True(suite.T(), common.IsKind(err, common.KindNotFound))
	assert.Len(suite.T(), suite.store.batches, 1)
}

func (suite *LedgerServiceTestSuite) TestReceive_AlwaysAddsNewBatch() {
	medicine := suite.seed(5)
	in := models.BatchInput{LotNumber: "LOT-A", ExpiryDate: expiry("2027-08-15"), Quantity: 5}

	batch, err := suite.ledger.Receive(suite.ctx, suite.userID, medicine.ID, in)

	suite.Require().NoError(err)
	assert.NotEqual(suite.T(), medicine.Batches[0].ID, batch.ID)
	assert.Len(suite.T(), suite.store.batches, 2)
}

func (suite *LedgerServiceTestSuite) TestReceiveFromScan_UnknownGTINCreatesPlaceholder() {
	batch, err := suite.ledger.ReceiveFromScan(suite.ctx, suite.userID, "(01)00012345678905(17)271130(10)B77", 20)
	suite.Require().NoError(err)

	medicine, err := suite.catalog.GetByID(suite.ctx, suite.userID, batch.MedicineID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "New Medicine - GTIN 00012345678905", medicine.Name)
	assert.Equal(suite.T(), "Unknown", *medicine.Manufacturer)
	assert.Equal(suite.T(), "N/A", *medicine.Strength)
	assert.Equal(suite.T(), 0.0, medicine.Price)
	assert.Equal(suite.T(), "2027-11-30", medicine.ExpiryDate.String())
	assert.Equal(suite.T(), "B77", batch.LotNumber)
	assert.Equal(suite.T(), 20, batch.Quantity)
}

func (suite *LedgerServiceTestSuite) TestReceiveFromScan_KnownGTINReusesMedicine() {
	medicine := suite.seed(5)

	batch, err := suite.ledger.ReceiveFromScan(suite.ctx, suite.userID, "(10)NEW(17)280101(01)890100", 3)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), medicine.ID, batch.MedicineID)
	assert.Len(suite.T(), suite.store.medicines, 1)
}

func (suite *LedgerServiceTestSuite) TestReceiveFromScan_IncompleteScan() {
	_, err := suite.ledger.ReceiveFromScan(suite.ctx, suite.userID, "(01)123(17)301331(10)X", 3)

	assert.True(suite.T(), common.IsKind(err, common.KindValidation))
	assert.ErrorContains(suite.T(), err, "expiry_date")
	assert.Empty(suite.T(), suite.store.medicines)
}

func (suite *LedgerServiceTestSuite) TestDispense_PartialKeepsBatch() {
	medicine := suite.seed(10)

	result, err := suite.ledger.Dispense(suite.ctx, suite.userID, medicine.Batches[0].ID, 4)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), OutcomeBatchUpdated, result.Outcome)
	assert.Equal(suite.T(), 6, result.Batch.Quantity)
	assert.Equal(suite.T(), 6, suite.store.batches[medicine.Batches[0].ID].Quantity)
	assert.Contains(suite.T(), suite.store.medicines, medicine.ID)
}

func (suite *LedgerServiceTestSuite) TestDispense_LastBatchRemovesCatalogEntry() {
	medicine := suite.seed(10)

	result, err := suite.ledger.Dispense(suite.ctx, suite.userID, medicine.Batches[0].ID, 10)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), OutcomeCatalogEntryRemoved, result.Outcome)
	assert.Equal(suite.T(), "Item dispensed and catalog entry removed.", result.Message())
	assert.Nil(suite.T(), result.Batch)
	assert.Empty(suite.T(), suite.store.batches)
	assert.Empty(suite.T(), suite.store.medicines)
}

func (suite *LedgerServiceTestSuite) TestDispense_FullBatchWithSiblingsKeepsMedicine() {
	medicine := suite.seed(10, 3)
	target := medicine.Batches[0]

	result, err := suite.ledger.Dispense(suite.ctx, suite.userID, target.ID, target.Quantity)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), OutcomeBatchRemoved, result.Outcome)
	assert.Equal(suite.T(), "Item dispensed and batch removed.", result.Message())
	assert.NotContains(suite.T(), suite.store.batches, target.ID)
	assert.Contains(suite.T(), suite.store.medicines, medicine.ID)
}

func (suite *LedgerServiceTestSuite) TestDispense_InsufficientStockChangesNothing() {
	medicine := suite.seed(5)
	batchID := medicine.Batches[0].ID

	_, err := suite.ledger.Dispense(suite.ctx, suite.userID, batchID, 6)

	assert.True(suite.T(), common.IsKind(err, common.KindValidation))
	assert.ErrorContains(suite.T(), err, "insufficient stock")
	assert.Equal(suite.T(), 5, suite.store.batches[batchID].Quantity)
}

func (suite *LedgerServiceTestSuite) TestDispense_RollsBackWhenMedicineDeleteFails() {
	medicine := suite.seed(5)
	suite.store.failOn["medicines.Delete"] = errInjected

	_, err := suite.ledger.Dispense(suite.ctx, suite.userID, medicine.Batches[0].ID, 5)

	assert.True(suite.T(), common.IsKind(err, common.KindInternal))
	assert.Len(suite.T(), suite.store.batches, 1)
	assert.Len(suite.T(), suite.store.medicines, 1)
}

func (suite *LedgerServiceTestSuite) TestDispense_OtherUsersBatchIsNotFound() {
	medicine := suite.seed(5)

	_, err := suite.ledger.Dispense(suite.ctx, uuid.New(), medicine.Batches[0].ID, 1)

	assert.True(suite.T(), common.IsKind(err, common.KindNotFound))
}

func (suite *LedgerServiceTestSuite) TestDispense_NonPositiveQuantity() {
	medicine := suite.seed(5)
	before := suite.store.commits

	_, err := suite.ledger.Dispense(suite.ctx, suite.userID, medicine.Batches[0].ID, 0)

	assert.True(suite.T(), common.IsKind(err, common.KindValidation))
	assert.Equal(suite.T(), before, suite.store.commits)
}

func (suite *LedgerServiceTestSuite) TestRestock() {
	medicine := suite.seed(5)

	batch, err := suite.ledger.Restock(suite.ctx, suite.userID, medicine.Batches[0].ID, 250)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), 255, batch.Quantity)

	_, err = suite.ledger.Restock(suite.ctx, suite.userID, medicine.Batches[0].ID, -1)
	assert.True(suite.T(), common.IsKind(err, common.KindValidation))
}

func (suite *LedgerServiceTestSuite) TestDeleteMedicine() {
	medicine := suite.seed(5, 6)

	err := suite.ledger.DeleteMedicine(suite.ctx, uuid.New(), medicine.ID)
	assert.True(suite.T(), common.IsKind(err, common.KindNotFound))

	err = suite.ledger.DeleteMedicine(suite.ctx, suite.userID, medicine.ID)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), suite.store.medicines)
	assert.Empty(suite.T(), suite.store.batches)
}

func (suite *LedgerServiceTestSuite) TestUpdateMedicine_PartialUpdate() {
	medicine := suite.seed(5)
	name, price := "Paracetamol 650", 15.5

	updated, err := suite.ledger.UpdateMedicine(suite.ctx, suite.userID, medicine.ID, &models.MedicineUpdate{Name: &name, Price: &price})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Paracetamol 650", updated.Name)
	assert.Equal(suite.T(), 15.5, updated.Price)
	assert.Equal(suite.T(), "Cipla", *updated.Manufacturer)
	assert.Len(suite.T(), updated.Batches, 1)
}

func (suite *LedgerServiceTestSuite) TestUpdateMedicine_BarcodeCollisionIsConflict() {
	suite.seed(5)
	other, err := suite.ledger.SmartCreate(suite.ctx, suite.userID, smartCreateRequest(barcode("777"), "L", 1))
	suite.Require().NoError(err)

	_, err = suite.ledger.UpdateMedicine(suite.ctx, suite.userID, other.ID, &models.MedicineUpdate{Barcode: barcode("890100")})

	assert.True(suite.T(), common.IsKind(err, common.KindConflict))
	assert.Equal(suite.T(), "777", *suite.store.medicines[other.ID].Barcode)
}

func (suite *LedgerServiceTestSuite) TestUpdateMedicine_BlankBarcodeClears() {
	medicine := suite.seed(5)

	updated, err := suite.ledger.UpdateMedicine(suite.ctx, suite.userID, medicine.ID, &models.MedicineUpdate{Barcode: barcode(" ")})

	suite.Require().NoError(err)
	assert.Nil(suite.T(), updated.Barcode)
}

func TestDispenseTransition(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		requested int
		state     BatchState
		remaining int
		wantErr   bool
	}{
		{"partial", 10, 3, BatchActive, 7, false},
		{"exact", 10, 10, BatchDepleted, 0, false},
		{"too many", 10, 11, BatchActive, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, remaining, err := dispenseTransition(tt.quantity, tt.requested)
			assert.Equal(t, tt.state, state)
			assert.Equal(t, tt.remaining, remaining)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, common.IsKind(err, common.KindValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
