package models

// SmartCreateRequest is the canonical catalog+batch record accepted by the ledger,
// whether it came from a form, a barcode scan or a normalised voice transcript.
type SmartCreateRequest struct {
	Barcode      *string `json:"barcode"`
	Name         string  `json:"name" validate:"required"`
	Manufacturer *string `json:"manufacturer"`
	Strength     *string `json:"strength"`
	Price        float64 `json:"price" validate:"gte=0"`
	LotNumber    string  `json:"lot_number" validate:"required"`
	Quantity     int     `json:"quantity" validate:"required,gt=0"`
	ExpiryDate   Date    `json:"expiry_date" validate:"required"`
}

// Batch returns the batch half of the request.
func (r *SmartCreateRequest) Batch() BatchInput {
	return BatchInput{
		LotNumber:  r.LotNumber,
		ExpiryDate: r.ExpiryDate,
		Quantity:   r.Quantity,
	}
}
