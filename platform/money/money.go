// Package money converts between float64 amounts used on the wire and the
// fixed-point text representation Postgres returns for NUMERIC columns.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scales used by the quote tables.
const (
	AmountPlaces int32 = 2
	RatePlaces   int32 = 4
)

// Round2 rounds half away from zero to two decimal places.
func Round2(f float64) float64 {
	v, _ := decimal.NewFromFloat(f).Round(AmountPlaces).Float64()
	return v
}

// FormatText renders f as fixed-point text with the given number of places.
func FormatText(f float64, places int32) string {
	return decimal.NewFromFloat(f).StringFixed(places)
}

// FormatTextPtr is FormatText for optional values.
func FormatTextPtr(f *float64, places int32) *string {
	if f == nil {
		return nil
	}
	s := FormatText(*f, places)
	return &s
}

// ParseText parses a text-decimal. The empty string is zero; malformed
// input from the store is also treated as zero.
func ParseText(s string) float64 {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	v, _ := d.Float64()
	return v
}

// ParseTextPtr is ParseText for nullable columns.
func ParseTextPtr(s *string) *float64 {
	if s == nil {
		return nil
	}
	v := ParseText(*s)
	return &v
}

// ParsePrice parses a user-supplied price such as "12,50", "12.5" or " 1200 ".
func ParsePrice(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if strings.Count(cleaned, ",") == 1 && !strings.Contains(cleaned, ".") {
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid price format: %s", raw)
	}
	v, _ := d.Float64()
	return v, nil
}
