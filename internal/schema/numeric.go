package schema

import (
	"math"
	"strconv"
	"strings"
)

// CoerceNumber turns a JSON number or a formatted numeric string into a
// float64. Every numeric field in the purchase-order shape goes through
// this before any range check. Strings are stripped down to digits, signs,
// and separators, then the first comma is treated as the decimal
// separator ("12,5" parses as 12.5). A value carrying both a thousands
// separator and a decimal point ("1,234.50") does not survive this and is
// reported as a coercion failure rather than silently misread.
func CoerceNumber(field string, value any) (float64, *ValidationError) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, newFieldError(field, "unable to parse numeric value")
		}
		return v, nil
	case string:
		parsed, err := strconv.ParseFloat(normalizeNumericString(v), 64)
		if err != nil {
			return 0, newFieldError(field, "unable to parse numeric value from "+strconv.Quote(v))
		}
		return parsed, nil
	default:
		return 0, newFieldError(field, "unable to parse numeric value")
	}
}

func normalizeNumericString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '+', r == '-', r == '.', r == ',':
			b.WriteRune(r)
		}
	}
	return strings.Replace(b.String(), ",", ".", 1)
}
