package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"pharmpal/internal/common"
	"pharmpal/internal/llm"
	"pharmpal/internal/models"
	"pharmpal/internal/ocr"
	"pharmpal/internal/parsing"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// LabelExtraction is what could be read off a medicine label photo.
type LabelExtraction struct {
	FoundText   string       `json:"found_text"`
	ParsedDate  *models.Date `json:"parsed_date"`
	ParsedPrice *float64     `json:"parsed_price"`
	ParsedLot   *string      `json:"parsed_lot"`
}

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IntakeService turns label photos and voice notes into catalog data. All
// collaborator calls finish before the ledger is touched.
type IntakeService interface {
	ExtractLabel(ctx context.Context, userID uuid.UUID, image Upload) (*LabelExtraction, error)
	ProcessVoice(ctx context.Context, userID uuid.UUID, audio Upload) (*models.Medicine, error)
}

type intakeService struct {
	engine      ocr.Engine
	transcriber llm.Transcriber
	extractor   llm.FieldExtractor
	normalizer  *parsing.Normalizer
	ledger      LedgerService
	archive     ArchiveService
	now         func() time.Time
}

func NewIntakeService(engine ocr.Engine, transcriber llm.Transcriber, extractor llm.FieldExtractor, ledger LedgerService, archive ArchiveService) IntakeService {
	return &intakeService{
		engine:      engine,
		transcriber: transcriber,
		extractor:   extractor,
		normalizer:  parsing.NewNormalizer(),
		ledger:      ledger,
		archive:     archive,
		now:         time.Now,
	}
}

func (s *intakeService) ExtractLabel(ctx context.Context, userID uuid.UUID, image Upload) (*LabelExtraction, error) {
	if len(image.Data) == 0 {
		return nil, common.Validation("file is empty")
	}
	s.keep(ctx, userID, CaptureImage, image)

	spans, err := s.engine.Recognize(ctx, image.Data)
	if err != nil {
		log.Errorf("ocr failed: %v", err)
		return nil, collaboratorError(err, "Could not read text from the image")
	}
	text := ocr.JoinSpans(spans)
	if text == "" {
		return nil, common.Validation("No text detected.")
	}

	fields := parsing.ExtractLabelFields(text, s.now())
	result := &LabelExtraction{
		FoundText:   text,
		ParsedPrice: fields.Price,
		ParsedLot:   fields.LotNumber,
	}
	if fields.Date != nil {
		d := models.NewDate(*fields.Date)
		result.ParsedDate = &d
	}
	return result, nil
}

func (s *intakeService) ProcessVoice(ctx context.Context, userID uuid.UUID, audio Upload) (*models.Medicine, error) {
	if len(audio.Data) == 0 {
		return nil, common.Validation("file is empty")
	}
	s.keep(ctx, userID, CaptureAudio, audio)

	transcript, err := s.transcriber.Transcribe(ctx, bytes.NewReader(audio.Data), audio.Filename)
	if err != nil {
		log.Errorf("transcription failed: %v", err)
		return nil, collaboratorError(err, "Could not transcribe the audio")
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, common.Validation("Could not understand the audio or speech was empty.")
	}
	log.Debugf("voice transcript: %q", transcript)

	fields, err := s.extractor.ExtractFields(ctx, transcript)
	if err != nil {
		log.Errorf("field extraction failed for transcript %q: %v", transcript, err)
		return nil, collaboratorError(err, "Could not extract medicine details from the audio")
	}

	req, err := s.normalizer.Normalize(fields)
	if err != nil {
		return nil, withModelOutput(err, fields)
	}
	return s.ledger.SmartCreate(ctx, userID, req)
}

func (s *intakeService) keep(ctx context.Context, userID uuid.UUID, kind string, upload Upload) {
	if s.archive == nil {
		return
	}
	s.archive.Archive(ctx, userID, kind, upload.Filename, upload.ContentType, upload.Data)
}

// withModelOutput appends the extracted fields to a normalizer rejection so
// the caller can see what the model heard.
func withModelOutput(err error, fields map[string]any) error {
	var appErr *common.AppError
	if !errors.As(err, &appErr) || appErr.Kind != common.KindValidation {
		return err
	}
	return common.Validationf("%s | raw model output: %s", appErr.Message, llm.EchoFields(fields))
}

// collaboratorError reports an external extraction failure as a validation
// error, keeping any message the collaborator already classified.
func collaboratorError(err error, message string) error {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &common.AppError{Kind: common.KindValidation, Message: message, Err: err}
}
