package handlers

import (
	"io"
	"net/http"

	"pharmpal/internal/common"
	"pharmpal/internal/services"

	"github.com/labstack/echo/v4"
)

// MaxUploadBytes caps label photos and voice notes.
const MaxUploadBytes = 10 << 20

// IntakeHandlers accept label photos and voice notes
type IntakeHandlers struct {
	intake services.IntakeService
}

func NewIntakeHandlers(intake services.IntakeService) *IntakeHandlers {
	return &IntakeHandlers{intake: intake}
}

// ExtractText
//
//	@Summary	Read date, price and lot from a label photo
//	@Tags		ocr
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"label image"
//	@Success	200	{object}	services.LabelExtraction
//	@Failure	400	{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/ocr/extract-text [post]
func (h *IntakeHandlers) ExtractText(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	upload, err := readUpload(c)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.intake.ExtractLabel(c.Request().Context(), userID, upload)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ProcessAudio
//
//	@Summary	Create a medicine from a spoken description
//	@Tags		voice
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"audio recording"
//	@Success	200	{object}	models.Medicine
//	@Failure	400	{object}	common.ErrorResponse
//	@Failure	429	{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/voice/process-audio [post]
func (h *IntakeHandlers) ProcessAudio(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	upload, err := readUpload(c)
	if err != nil {
		return respondError(c, err)
	}

	medicine, err := h.intake.ProcessVoice(c.Request().Context(), userID, upload)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, medicine)
}

// readUpload reads the multipart "file" field.
func readUpload(c echo.Context) (services.Upload, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return services.Upload{}, common.Validation("file is required")
	}
	if header.Size > MaxUploadBytes {
		return services.Upload{}, common.Validationf("file exceeds %d MB", MaxUploadBytes>>20)
	}

	f, err := header.Open()
	if err != nil {
		return services.Upload{}, common.Internal("Failed to open upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		return services.Upload{}, common.Internal("Failed to read upload", err)
	}
	if len(data) > MaxUploadBytes {
		return services.Upload{}, common.Validationf("file exceeds %d MB", MaxUploadBytes>>20)
	}

	return services.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Data:        data,
	}, nil
}
