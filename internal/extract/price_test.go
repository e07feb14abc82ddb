package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		label    string
		expected float64
	}{
		{"$19.99", 19.99},
		{"19,99 €", 19.99},
		{"ab 1 234,56 €", 1234.56},
		{"1,234.56", 1234.56},
		{"USD 45", 45},
		{"Sale: $12.50 (was $20.00)", 12.5},
		{"free", 0},
		{"", 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, ParsePrice(c.label), "label %q", c.label)
	}
}

// A dot followed by exactly three digits reads as a thousands separator.
// "1.234" meaning one point two three four therefore mis-parses; known
// limitation of the locale heuristic.
func TestParsePriceThousandsHeuristic(t *testing.T) {
	assert.Equal(t, 1234.0, ParsePrice("1.234"))
	assert.Equal(t, 1234.0, ParsePrice("1,234"))
	assert.Equal(t, 1234567.89, ParsePrice("1.234.567,89"))
	assert.Equal(t, 12.34, ParsePrice("12.34"))
}

func TestParsePriceNonBreakingSpace(t *testing.T) {
	assert.Equal(t, 2499.0, ParsePrice("2 499 kr"))
}
