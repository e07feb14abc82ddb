package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// priceRe pulls the first run of digits with optional separator groups out
// of a price label like "$19.99" or "ab 1 234,56 €"
var priceRe = regexp.MustCompile(`\d+(?:[.,\s\x{00a0}]\d+)*`)

// ParsePrice extracts the first numeric amount from a price label and
// normalizes it to a float. Currency symbols and surrounding text are
// ignored. Spaces and non-breaking spaces act as thousands separators. A
// dot or comma followed by exactly three digits is treated as a thousands
// separator, any other dot or comma as the decimal mark. "1.234" therefore
// parses as 1234 even when the page means one point two three four; labels
// with three decimal digits are rare enough in retail prices that the
// heuristic holds. Returns 0 when no amount is found.
func ParsePrice(text string) float64 {
	raw := priceRe.FindString(text)
	if raw == "" {
		return 0
	}

	raw = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' {
			return -1
		}
		return r
	}, raw)

	raw = stripThousandsSeparators(raw)
	raw = strings.ReplaceAll(raw, ",", ".")

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}

// stripThousandsSeparators removes every dot or comma that is followed by
// exactly three digits
func stripThousandsSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c == '.' || c == ',') && followedByExactlyThreeDigits(s, i) {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func followedByExactlyThreeDigits(s string, i int) bool {
	if i+3 >= len(s)+1 {
		return false
	}
	for j := i + 1; j <= i+3; j++ {
		if j >= len(s) || s[j] < '0' || s[j] > '9' {
			return false
		}
	}
	if i+4 < len(s) && s[i+4] >= '0' && s[i+4] <= '9' {
		return false
	}
	return true
}
