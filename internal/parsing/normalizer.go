package parsing

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pharmpal/internal/common"
	"pharmpal/internal/models"
)

const (
	DefaultManufacturer = "Unknown"
	DefaultStrength     = "N/A"
	voiceLotPrefix      = "LOT-VOICE-"
	voiceLotLayout      = "20060102150405"
)

// Normalizer turns an untrusted field map, usually produced by a language
// model, into a smart-create request. Fields it cannot recover are either
// defaulted or rejected with a validation error.
type Normalizer struct {
	Now func() time.Time
}

func NewNormalizer() *Normalizer {
	return &Normalizer{Now: time.Now}
}

func (n *Normalizer) now() time.Time {
	if n.Now == nil {
		return time.Now()
	}
	return n.Now()
}

// Normalize validates fields and fills defaults. The input map is not modified.
func (n *Normalizer) Normalize(fields map[string]any) (*models.SmartCreateRequest, error) {
	now := n.now()

	name, err := stringField(fields, "name")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, common.Validation("name is required")
	}

	quantity, err := quantityField(fields)
	if err != nil {
		return nil, err
	}

	expiry, err := expiryField(fields, now)
	if err != nil {
		return nil, err
	}

	price, err := priceField(fields)
	if err != nil {
		return nil, err
	}

	manufacturer, err := stringField(fields, "manufacturer")
	if err != nil {
		return nil, err
	}
	if manufacturer == "" {
		manufacturer = DefaultManufacturer
	}

	strength, err := stringField(fields, "strength")
	if err != nil {
		return nil, err
	}
	if strength == "" {
		strength = DefaultStrength
	}

	lot, err := stringField(fields, "lot_number")
	if err != nil {
		return nil, err
	}
	if lot == "" {
		lot = voiceLotPrefix + now.Format(voiceLotLayout)
	}

	barcode, err := stringField(fields, "barcode")
	if err != nil {
		return nil, err
	}

	return &models.SmartCreateRequest{
		Barcode:      common.StringPtr(barcode),
		Name:         name,
		Manufacturer: &manufacturer,
		Strength:     &strength,
		Price:        price,
		LotNumber:    lot,
		Quantity:     quantity,
		ExpiryDate:   models.NewDate(expiry),
	}, nil
}

// stringField returns the trimmed string form of a scalar field, or "" when
// the key is absent or null. Numbers are rendered without exponent.
func stringField(fields map[string]any, key string) (string, error) {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return "", nil
	}
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v), nil
	case json.Number:
		return v.String(), nil
	case float64:
		return decimal.NewFromFloat(v).String(), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		return "", common.Validationf("%s must be a string", key)
	}
}

// numberField returns the numeric value of key. present is false when the
// key is absent, null or a blank string.
func numberField(fields map[string]any, key string) (d decimal.Decimal, present bool, err error) {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return decimal.Zero, false, nil
	}
	switch v := raw.(type) {
	case json.Number:
		d, err = decimal.NewFromString(v.String())
	case float64:
		d = decimal.NewFromFloat(v)
	case float32:
		d = decimal.NewFromFloat32(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.Zero, false, nil
		}
		d, err = decimal.NewFromString(s)
	default:
		err = fmt.Errorf("unsupported type %T", raw)
	}
	if err != nil {
		return decimal.Zero, true, common.Validationf("%s must be a number", key)
	}
	return d, true, nil
}

func quantityField(fields map[string]any) (int, error) {
	d, present, err := numberField(fields, "quantity")
	if err != nil {
		return 0, err
	}
	if !present {
		return 0, common.Validation("quantity is required")
	}
	if !d.IsInteger() {
		return 0, common.Validation("quantity must be a whole number")
	}
	if !d.IsPositive() {
		return 0, common.Validation("quantity must be a positive integer")
	}
	if !d.LessThanOrEqual(decimal.NewFromInt(int64(maxQuantity))) {
		return 0, common.Validation("quantity is too large")
	}
	return int(d.IntPart()), nil
}

const maxQuantity = 1<<31 - 1

func priceField(fields map[string]any) (float64, error) {
	d, present, err := numberField(fields, "price")
	if err != nil {
		return 0, err
	}
	if !present {
		return 0, nil
	}
	if d.IsNegative() {
		return 0, common.Validation("price must not be negative")
	}
	return d.InexactFloat64(), nil
}

func expiryField(fields map[string]any, now time.Time) (time.Time, error) {
	raw, err := stringField(fields, "expiry_date")
	if err != nil {
		return time.Time{}, err
	}
	if raw == "" {
		return time.Time{}, common.Validation("expiry_date is required")
	}
	if d, err := models.ParseDate(raw); err == nil {
		return d.Time, nil
	}
	if t, ok := FindDate(raw, now); ok {
		return t, nil
	}
	return time.Time{}, common.Validationf("expiry_date %q is not a recognisable date", raw)
}
