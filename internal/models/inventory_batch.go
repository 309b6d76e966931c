package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryBatch is a stock line of one lot of a medicine.
// A persisted batch always has a positive quantity.
type InventoryBatch struct {
	ID         uuid.UUID `json:"id" db:"id"`
	MedicineID uuid.UUID `json:"medicine_id" db:"medicine_id"`
	LotNumber  string    `json:"lot_number" db:"lot_number"`
	ExpiryDate Date      `json:"expiry_date" db:"expiry_date"`
	Quantity   int       `json:"quantity" db:"quantity"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// BatchInput describes a batch to be received into stock.
type BatchInput struct {
	LotNumber  string `json:"lot_number" validate:"required"`
	ExpiryDate Date   `json:"expiry_date" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

// ExpiringBatch is a batch joined with its medicine name, used by expiry queries.
type ExpiringBatch struct {
	MedicineID   uuid.UUID `json:"-"`
	MedicineName string    `json:"medicine_name"`
	LotNumber    string    `json:"lot_number"`
	ExpiryDate   Date      `json:"expiry_date"`
	Quantity     int       `json:"quantity"`
}
