package parsing

import (
	"regexp"
	"strconv"
	"time"
)

var (
	gs1GTINPattern   = regexp.MustCompile(`\(01\)(\d+)`)
	gs1LotPattern    = regexp.MustCompile(`\(10\)([\w-]+)`)
	gs1ExpiryPattern = regexp.MustCompile(`\(17\)(\d{6})`)
)

// GS1Fields holds the application identifiers found in a scan.
// Empty strings and a zero Expiry mean the AI was absent or unusable.
type GS1Fields struct {
	GTIN      string
	LotNumber string
	Expiry    time.Time
}

func (f GS1Fields) HasExpiry() bool {
	return !f.Expiry.IsZero()
}

// Complete reports whether GTIN, lot and expiry were all recovered.
func (f GS1Fields) Complete() bool {
	return f.GTIN != "" && f.LotNumber != "" && f.HasExpiry()
}

// Missing lists the AIs that were not recovered, in (01), (10), (17) order.
func (f GS1Fields) Missing() []string {
	var missing []string
	if f.GTIN == "" {
		missing = append(missing, "gtin")
	}
	if f.LotNumber == "" {
		missing = append(missing, "lot_number")
	}
	if !f.HasExpiry() {
		missing = append(missing, "expiry_date")
	}
	return missing
}

// ParseGS1 extracts GTIN (01), lot (10) and expiry (17) from a bracketed
// human-readable GS1 string. Segments may appear in any order; for a repeated
// AI the leftmost occurrence wins. A (17) value that is not a real calendar
// date is dropped without affecting the other fields.
func ParseGS1(raw string, now time.Time) GS1Fields {
	var fields GS1Fields

	if m := gs1GTINPattern.FindStringSubmatch(raw); m != nil {
		fields.GTIN = m[1]
	}
	if m := gs1LotPattern.FindStringSubmatch(raw); m != nil {
		fields.LotNumber = m[1]
	}
	if m := gs1ExpiryPattern.FindStringSubmatch(raw); m != nil {
		if expiry, ok := parseGS1Date(m[1], now); ok {
			fields.Expiry = expiry
		}
	}

	return fields
}

// parseGS1Date decodes YYMMDD. DD=00 denotes the last day of the month.
func parseGS1Date(yymmdd string, now time.Time) (time.Time, bool) {
	yy, _ := strconv.Atoi(yymmdd[0:2])
	mm, _ := strconv.Atoi(yymmdd[2:4])
	dd, _ := strconv.Atoi(yymmdd[4:6])

	year := expandTwoDigitYear(yy, now)
	if dd == 0 {
		if mm < 1 || mm > 12 {
			return time.Time{}, false
		}
		return lastDayOfMonth(year, mm), true
	}
	return calendarDate(year, mm, dd)
}
