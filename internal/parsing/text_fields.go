package parsing

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	datePattern = regexp.MustCompile(`(?i)(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})` +
		`|(\d{4})[/-](\d{1,2})[/-](\d{1,2})` +
		`|(\d{1,2})[ -]((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*)[ -](\d{2,4})`)

	pricePattern = regexp.MustCompile(`(?i)(?:\bMRP|\bRs\.?|\$)\s*[:\- ]?\s*(\d+\.?\d*)`)

	lotPattern = regexp.MustCompile(`(?i)\b(?:batch|lot|b\.?no)\b(?:\s*(?:no|number)\b)?\.?\s*[:#]?\s*([\w-]+)`)
)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// LabelFields is what the heuristics recovered from one text block.
type LabelFields struct {
	Date      *time.Time
	Price     *float64
	LotNumber *string
}

// ExtractLabelFields runs every text heuristic over text.
func ExtractLabelFields(text string, now time.Time) LabelFields {
	var fields LabelFields
	if d, ok := FindDate(text, now); ok {
		fields.Date = &d
	}
	if p, ok := FindPrice(text); ok {
		fields.Price = &p
	}
	if lot, ok := FindLotNumber(text); ok {
		fields.LotNumber = &lot
	}
	return fields
}

// FindDate returns the first date token in text. Numeric A/B/Y tokens are read
// day-first and retried month-first when that is not a real date. Only the
// first token is considered; if it does not parse, no date is returned.
func FindDate(text string, now time.Time) (time.Time, bool) {
	m := datePattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	switch {
	case m[1] != "":
		year, ok := resolveYear(m[3], now)
		if !ok {
			return time.Time{}, false
		}
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		if t, ok := calendarDate(year, b, a); ok {
			return t, true
		}
		return calendarDate(year, a, b)
	case m[4] != "":
		year, _ := strconv.Atoi(m[4])
		month, _ := strconv.Atoi(m[5])
		day, _ := strconv.Atoi(m[6])
		return calendarDate(year, month, day)
	default:
		month, ok := monthNumber(m[8])
		if !ok {
			return time.Time{}, false
		}
		year, ok := resolveYear(m[9], now)
		if !ok {
			return time.Time{}, false
		}
		day, _ := strconv.Atoi(m[7])
		return calendarDate(year, month, day)
	}
}

// FindPrice returns the amount following the first MRP, Rs, Rs. or $ marker,
// rounded to two decimal places.
func FindPrice(text string) (float64, bool) {
	m := pricePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	amount, err := decimal.NewFromString(strings.TrimSuffix(m[1], "."))
	if err != nil {
		return 0, false
	}
	return amount.Round(2).InexactFloat64(), true
}

// FindLotNumber returns the token following the first Batch, Lot or B.No label.
func FindLotNumber(text string) (string, bool) {
	for offset := 0; offset < len(text); {
		m := lotPattern.FindStringSubmatchIndex(text[offset:])
		if m == nil {
			break
		}
		token := text[offset+m[2] : offset+m[3]]
		if !isLotLabelWord(token) {
			return token, true
		}
		// the rejected word may itself start the real label
		offset += m[2]
	}
	return "", false
}

// isLotLabelWord reports tokens that belong to the label itself, as in a
// "Batch No:" with nothing printed after it.
func isLotLabelWord(token string) bool {
	switch strings.ToLower(token) {
	case "no", "number", "batch", "lot":
		return true
	}
	return false
}

func resolveYear(digits string, now time.Time) (int, bool) {
	year, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	switch len(digits) {
	case 2:
		return expandTwoDigitYear(year, now), true
	case 4:
		return year, true
	default:
		return 0, false
	}
}

// monthNumber accepts any prefix of a month name at least three letters long.
func monthNumber(word string) (int, bool) {
	word = strings.ToLower(word)
	for i, name := range monthNames {
		if strings.HasPrefix(name, word) {
			return i + 1, true
		}
	}
	return 0, false
}
