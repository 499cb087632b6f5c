package domain

import (
	"strconv"
	"strings"
)

// ParsePrice extracts the numeric rupee amount from a display-formatted
// price string such as "₹280" or "₹1,280". Digit grouping commas are
// ignored; a fractional part is truncated to whole rupees. Returns the
// amount and true, or 0 and false when the string holds no parseable
// number.
func ParsePrice(s string) (int64, bool) {
	var b strings.Builder
	started := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			started = true
		case r == ',' && started:
			// grouping separator inside the number
		case r == '.' && started:
			// truncate at the fractional part
			return finishParse(b.String())
		default:
			if started {
				return finishParse(b.String())
			}
		}
	}
	if !started {
		return 0, false
	}
	return finishParse(b.String())
}

func finishParse(digits string) (int64, bool) {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// UnitPrice resolves the authoritative per-unit price of a cart entry in
// rupees. A customization TotalPrice overrides the base item price; an
// unparseable base price resolves to 0 and is caught later by checkout
// validation.
func UnitPrice(e CartEntry) int64 {
	if e.Customization != nil && e.Customization.TotalPrice != nil {
		return *e.Customization.TotalPrice
	}
	n, _ := ParsePrice(e.Item.Price)
	return n
}
