package handlers

import (
	"net/http"

	"pharmpal/internal/common"
	"pharmpal/internal/models"
	"pharmpal/internal/services"

	"github.com/labstack/echo/v4"
)

// MedicineHandlers serves the catalog.
type MedicineHandlers struct {
	catalog services.CatalogService
	ledger  services.LedgerService
}

func NewMedicineHandlers(catalog services.CatalogService, ledger services.LedgerService) *MedicineHandlers {
	return &MedicineHandlers{catalog: catalog, ledger: ledger}
}

// ListMedicinesRequest represents query parameters for listing medicines
type ListMedicinesRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListMedicines returns the user's catalog with batches
//
//	@Summary	List medicines
//	@Tags		medicines
//	@Produce	json
//	@Param		limit	query	int	false	"page size"	default(100)
//	@Param		offset	query	int	false	"offset"
//	@Success	200	{array}	models.Medicine
//	@Security	BearerAuth
//	@Router		/medicines [get]
func (h *MedicineHandlers) ListMedicines(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var req ListMedicinesRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, common.Validation("Invalid query parameters"))
	}

	medicines, err := h.catalog.List(c.Request().Context(), userID, req.Limit, req.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, medicines)
}

// SearchMedicine finds the first medicine whose name contains ?name=
//
//	@Summary	Find a medicine by name
//	@Tags		medicines
//	@Produce	json
//	@Param		name	query	string	true	"part of the name"
//	@Success	200	{object}	models.Medicine
//	@Failure	404	{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/medicines/search [get]
func (h *MedicineHandlers) SearchMedicine(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	medicine, err := h.catalog.FindByName(c.Request().Context(), userID, c.QueryParam("name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, medicine)
}

// GetByBarcode
//
//	@Summary	Get a medicine by barcode
//	@Tags		medicines
//	@Produce	json
//	@Param		barcode	path	string	true	"barcode"
//	@Success	200	{object}	models.Medicine
//	@Failure	404	{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/medicines/barcode/{barcode} [get]
func (h *MedicineHandlers) GetByBarcode(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	medicine, err := h.catalog.GetByBarcode(c.Request().Context(), userID, c.Param("barcode"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, medicine)
}

// GetMedicine
//
//	@Summary	Get a medicine with its batches
//	@Tags		medicines
//	@Produce	json
//	@Param		id	path	string	true	"medicine id"
//	@Success	200	{object}	models.Medicine
//	@Failure	404	{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/medicines/{id} [get]
func (h *MedicineHandlers) GetMedicine(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := common.ValidateUUID(c.Param("id"), "medicine id")
	if err != nil {
		return respondError(c, err)
	}
	medicine, err := h.catalog.GetByID(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, medicine)
}

// UpdateMedicine applies a partial update to catalog fields
//
//	@Summary	Update a medicine
//	@Tags		medicines
//	@Accept		json
//	@Produce	json
//	@Param		id		path	string					true	"medicine id"
//	@Param		body	body	models.MedicineUpdate	true	"fields to change"
//	@Success	200	{object}	models.Medicine
//	@Failure	409	{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/medicines/{id} [put]
func (h *MedicineHandlers) UpdateMedicine(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := common.ValidateUUID(c.Param("id"), "medicine id")
	if err != nil {
		return respondError(c, err)
	}
	var update models.MedicineUpdate
	if err := bindAndValidate(c, &update); err != nil {
		return respondError(c, err)
	}

	medicine, err := h.ledger.UpdateMedicine(c.Request().Context(), userID, id, &update)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, medicine)
}

// DeleteMedicine removes a medicine and all of its batches
//
//	@Summary	Delete a medicine
//	@Tags		medicines
//	@Produce	json
//	@Param		id	path	string	true	"medicine id"
//	@Success	200	{object}	MessageResponse
//	@Failure	404	{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/medicines/{id} [delete]
func (h *MedicineHandlers) DeleteMedicine(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := common.ValidateUUID(c.Param("id"), "medicine id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.ledger.DeleteMedicine(c.Request().Context(), userID, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Medicine and all associated stock deleted successfully."})
}

// SmartCreate creates the catalog entry if needed and receives one batch
//
//	@Summary	Create a medicine and its first batch
//	@Description	An existing barcode reuses its catalog entry.
//	@Tags		medicines
//	@Accept		json
//	@Produce	json
//	@Param		body	body	models.SmartCreateRequest	true	"medicine and batch"
//	@Success	200	{object}	models.Medicine
//	@Failure	400	{object}	common.ErrorResponse
//	@Failure	409	{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/medicines/smart-create [post]
func (h *MedicineHandlers) SmartCreate(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var req models.SmartCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	medicine, err := h.ledger.SmartCreate(c.Request().Context(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, medicine)
}

// MessageResponse is a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}
