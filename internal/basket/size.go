package basket

import (
	"regexp"
	"strconv"
)

// sizePattern matches pack sizes such as "250G", "500 gm", "1KG", "2 kilo",
// "1kgpack" and "250gx12". Decimal quantities ("1.5KG") are read whole so they
// never parse as "5KG". Kilogram units may run into the next word; gram units
// must be followed by a non-letter, a multiplier or a pack suffix, so "5 Gold"
// is not a size.
var sizePattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:(kilograms?|kilos?|kgs?)|(grams?|gms?|g)(?:[^a-z]|x\d|pack|pkt|pcs?|$))`)

// ParseSizeGrams extracts the pack size of a variant name in grams.
// ok is false when the name carries no recognisable size.
func ParseSizeGrams(name string) (grams float64, ok bool) {
	m := sizePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil || value <= 0 {
		return 0, false
	}

	if m[2] != "" {
		value *= 1000
	}
	return value, true
}
