package models

import (
	"time"

	"github.com/google/uuid"
)

// Medicine is a catalog entry owned by a single user.
type Medicine struct {
	ID           uuid.UUID         `json:"id" db:"id"`
	UserID       uuid.UUID         `json:"-" db:"user_id"`
	Barcode      *string           `json:"barcode" db:"barcode"`
	Name         string            `json:"name" db:"name"`
	Manufacturer *string           `json:"manufacturer" db:"manufacturer"`
	Strength     *string           `json:"strength" db:"strength"`
	Price        float64           `json:"price" db:"price"`
	ExpiryDate   Date              `json:"expiry_date" db:"expiry_date"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" db:"updated_at"`
	Batches      []*InventoryBatch `json:"inventory_items"`
}

// TotalQuantity sums the quantity of every loaded batch.
func (m *Medicine) TotalQuantity() int {
	total := 0
	for _, b := range m.Batches {
		total += b.Quantity
	}
	return total
}

// MedicineUpdate carries a partial update; nil fields keep their stored value.
type MedicineUpdate struct {
	Barcode      *string  `json:"barcode,omitempty"`
	Name         *string  `json:"name,omitempty"`
	Manufacturer *string  `json:"manufacturer,omitempty"`
	Strength     *string  `json:"strength,omitempty"`
	Price        *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	ExpiryDate   *Date    `json:"expiry_date,omitempty"`
}

// Apply copies every supplied field onto m.
func (u *MedicineUpdate) Apply(m *Medicine) {
	if u.Barcode != nil {
		m.Barcode = u.Barcode
	}
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.Manufacturer != nil {
		m.Manufacturer = u.Manufacturer
	}
	if u.Strength != nil {
		m.Strength = u.Strength
	}
	if u.Price != nil {
		m.Price = *u.Price
	}
	if u.ExpiryDate != nil {
		m.ExpiryDate = *u.ExpiryDate
	}
}
