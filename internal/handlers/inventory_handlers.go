package handlers

import (
	"context"
	"net/http"

	"pharmpal/internal/models"
	"pharmpal/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AlertReader returns the precomputed expiry alerts of a user.
type AlertReader interface {
	Alerts(ctx context.Context, userID uuid.UUID) ([]*models.ExpiringBatch, error)
}

// InventoryHandlers handles stock movements on inventory batches
type InventoryHandlers struct {
	ledger services.LedgerService
	alerts AlertReader
}

func NewInventoryHandlers(ledger services.LedgerService, alerts AlertReader) *InventoryHandlers {
	return &InventoryHandlers{ledger: ledger, alerts: alerts}
}

// ReceiveRequest adds a batch to an existing medicine.
type ReceiveRequest struct {
	MedicineID uuid.UUID   `json:"medicine_id" validate:"required"`
	LotNumber  string      `json:"lot_number" validate:"required"`
	ExpiryDate models.Date `json:"expiry_date" validate:"required"`
	Quantity   int         `json:"quantity" validate:"required,gt=0"`
}

// GS1ScanRequest carries a raw GS1 element string from a barcode scanner.
type GS1ScanRequest struct {
	GS1Data  string `json:"gs1_data" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// BatchQuantityRequest names a batch and a quantity to dispense or restock.
type BatchQuantityRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,gt=0"`
}

// DispenseResponse reports what a dispense did. Batch is set only when the
// batch still holds stock.
type DispenseResponse struct {
	Outcome services.DispenseOutcome `json:"outcome"`
	Batch   *models.InventoryBatch   `json:"batch,omitempty"`
	Message string                   `json:"message,omitempty"`
}

// Receive
//
//	@Summary	Receive a batch for an existing medicine
//	@Tags		inventory
//	@Accept		json
//	@Produce	json
//	@Param		body	body	ReceiveRequest	true	"batch"
//	@Success	201	{object}	models.InventoryBatch
//	@Failure	404	{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/inventory/receive [post]
func (h *InventoryHandlers) Receive(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var req ReceiveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	batch, err := h.ledger.Receive(c.Request().Context(), userID, req.MedicineID, models.BatchInput{
		LotNumber:  req.LotNumber,
		ExpiryDate: req.ExpiryDate,
		Quantity:   req.Quantity,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, batch)
}

// ReceiveGS1
//
//	@Summary	Receive a batch from a GS1 scan
//	@Description	Unknown GTINs get a placeholder catalog entry.
//	@Tags		inventory
//	@Accept		json
//	@Produce	json
//	@Param		body	body	GS1ScanRequest	true	"scan"
//	@Success	200	{object}	models.InventoryBatch
//	@Failure	400	{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/inventory/receive-gs1 [post]
func (h *InventoryHandlers) ReceiveGS1(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var req GS1ScanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	batch, err := h.ledger.ReceiveFromScan(c.Request().Context(), userID, req.GS1Data, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, batch)
}

// Dispense
//
//	@Summary	Dispense units from a batch
//	@Description	Emptied batches are deleted, and so is a medicine left without batches.
//	@Tags		inventory
//	@Accept		json
//	@Produce	json
//	@Param		body	body	BatchQuantityRequest	true	"batch and quantity"
//	@Success	200	{object}	DispenseResponse
//	@Failure	400	{object}	common.ErrorResponse
//	@Failure	404	{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/inventory/dispense [post]
func (h *InventoryHandlers) Dispense(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var req BatchQuantityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	result, err := h.ledger.Dispense(c.Request().Context(), userID, req.ItemID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}

	resp := DispenseResponse{Outcome: result.Outcome}
	if result.Outcome == services.OutcomeBatchUpdated {
		resp.Batch = result.Batch
	} else {
		resp.Message = result.Message()
	}
	return c.JSON(http.StatusOK, resp)
}

// Restock
//
//	@Summary	Add units to a batch
//	@Tags		inventory
//	@Accept		json
//	@Produce	json
//	@Param		body	body	BatchQuantityRequest	true	"batch and quantity"
//	@Success	200	{object}	models.InventoryBatch
//	@Failure	404	{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/inventory/restock [post]
func (h *InventoryHandlers) Restock(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var req BatchQuantityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	batch, err := h.ledger.Restock(c.Request().Context(), userID, req.ItemID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, batch)
}

// ExpiryAlerts
//
//	@Summary	Batches expiring within the alert window
//	@Tags		inventory
//	@Produce	json
//	@Success	200	{array}	models.ExpiringBatch
//	@Security	BearerAuth
//	@Router		/inventory/expiry-alerts [get]
func (h *InventoryHandlers) ExpiryAlerts(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	alerts, err := h.alerts.Alerts(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	if alerts == nil {
		alerts = []*models.ExpiringBatch{}
	}
	return c.JSON(http.StatusOK, alerts)
}
