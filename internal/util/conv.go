package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NormalizeEmail lowercases and trims an address before any lookup or write.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ParseIntParam parses a path/query value, returning ok=false for anything non-numeric.
func ParseIntParam(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// YearSuffix renders 1 -> "st", 2 -> "nd", 3 -> "rd" and anything else -> "th".
func YearSuffix(year int) string {
	switch year {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

// FlexInt decodes a JSON number or a numeric string. Form clients send numbers either way.
// A scalar that is not an integer decodes with Invalid set instead of failing, so the
// caller can report it with its own message.
type FlexInt struct {
	Value   int
	Set     bool
	Invalid bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "[") {
		return fmt.Errorf("invalid integer %s", raw)
	}
	s := strings.TrimSpace(strings.Trim(raw, `"`))
	if s == "" || s == "null" {
		*f = FlexInt{}
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = FlexInt{Value: n, Set: true}
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && v == math.Trunc(v) && math.Abs(v) <= math.MaxInt32 {
		*f = FlexInt{Value: int(v), Set: true}
		return nil
	}
	*f = FlexInt{Set: true, Invalid: true}
	return nil
}

// Blank reports an absent or zero value. A non-numeric value is present, not blank.
func (f FlexInt) Blank() bool {
	return !f.Set || (!f.Invalid && f.Value == 0)
}
