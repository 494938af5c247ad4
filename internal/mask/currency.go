package mask

import (
	"math"
	"strconv"
	"strings"
)

const maxDecimals = 2

// Currency keeps digits and a single comma decimal separator. Dots become
// commas, extra commas are folded into the trailing digits and the decimal
// part is cut at two digits. No thousands separator is inserted.
func Currency(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == ',':
			b.WriteRune(r)
		case r == '.':
			b.WriteRune(',')
		}
	}
	cleaned := b.String()

	parts := strings.Split(cleaned, ",")
	if len(parts) == 1 {
		return cleaned
	}

	decimals := strings.Join(parts[1:], "")
	if len(decimals) > maxDecimals {
		decimals = decimals[:maxDecimals]
	}
	return parts[0] + "," + decimals
}

// ParseCurrency reads a masked amount. Anything unparsable is 0; rejecting
// zero is the validator's job.
func ParseCurrency(masked string) float64 {
	normalized := strings.Replace(masked, ",", ".", 1)

	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
