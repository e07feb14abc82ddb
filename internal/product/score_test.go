package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreBoundaries(t *testing.T) {
	empty := &CanonicalProduct{}
	assert.Equal(t, 0, Score(empty))

	// name + price + image: 3 of 8 predicates => round(300/8) = 38
	partial := &CanonicalProduct{
		Name:     "Summer Dress",
		Price:    19.99,
		ImageURL: "https://cdn.example.com/dress.jpg",
	}
	assert.Equal(t, 38, Score(partial))

	full := &CanonicalProduct{
		Name:        "Summer Dress",
		Price:       19.99,
		Description: "A breezy summer dress in organic cotton",
		ImageURL:    "https://cdn.example.com/dress.jpg",
		Sizes:       []string{"S", "M", "L"},
		Category:    "Dresses",
		SKU:         "SD-19",
		Brand:       "Acme",
	}
	assert.Equal(t, 100, Score(full))
}

func TestScoreEdgePredicates(t *testing.T) {
	p := &CanonicalProduct{Name: "ab"} // length 2 fails the > 2 check
	assert.Equal(t, 0, Score(p))

	p.Name = "abc"
	assert.Equal(t, 13, Score(p)) // round(100/8)

	p.Description = "exactly twenty chars" // len 20 fails the > 20 check
	assert.Equal(t, 13, Score(p))
}

func TestRescore(t *testing.T) {
	p := &CanonicalProduct{
		Name:            "Summer Dress",
		Price:           19.99,
		ImageURL:        "https://cdn.example.com/dress.jpg",
		NeedsEnrichment: true,
	}
	p.Rescore(70)
	assert.Equal(t, 38, p.QualityScore)
	assert.False(t, p.IsComplete)
	assert.True(t, p.NeedsEnrichment)

	p.Description = "A breezy summer dress in organic cotton"
	p.Sizes = []string{"M"}
	p.Category = "Dresses"
	p.SKU = "SD-19"
	p.Rescore(70)
	assert.Equal(t, 88, p.QualityScore) // 7 of 8
	assert.True(t, p.IsComplete)
	assert.False(t, p.NeedsEnrichment, "reaching the threshold clears the enrichment flag")
}
