package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameSimilarity(t *testing.T) {
	// 3 of the larger name's 5 word tokens shared; separator "-" ignored
	sim := NameSimilarity("Summer Dress Blue", "Summer Dress Blue - Size M")
	assert.InDelta(t, 0.6, sim, 0.001)

	assert.True(t, NamesMatch("Summer Dress Blue", "Summer Dress Blue - Size M"))
	assert.False(t, NamesMatch("Summer Dress", "Winter Coat"))
	assert.Equal(t, 0.0, NameSimilarity("Summer Dress", "Winter Coat"))
}

func TestReconcileMergesSimilarNames(t *testing.T) {
	r := NewReconciler("shop.example.com")
	out := r.Reconcile([]ProductFragment{
		{Name: "Summer Dress Blue", Price: 19.99},
		{Name: "Summer Dress Blue - Size M", Price: 19.99, SKU: "SD-M"},
		{Name: "Winter Coat", Price: 89},
	})

	assert.Len(t, out, 2)
	assert.Equal(t, "Summer Dress Blue", out[0].Name)
	assert.Equal(t, "SD-M", out[0].SKU)
	assert.Equal(t, "Winter Coat", out[1].Name)
}

func TestReconcileMatchPrecedence(t *testing.T) {
	r := NewReconciler("shop.example.com")
	out := r.Reconcile([]ProductFragment{
		{ExternalID: "42", Name: "Red Mug", Price: 8},
		{ExternalID: "42", Name: "Completely Different Title", Price: 9, Brand: "Acme"},
		{Name: "Blue Mug", Price: 8, ProductURL: "https://shop.example.com/products/blue-mug"},
		{Name: "Mug", Price: 0, ProductURL: "https://shop.example.com/products/blue-mug", Description: "A lovely ceramic mug for coffee"},
	})

	assert.Len(t, out, 2)
	assert.Equal(t, "Red Mug", out[0].Name, "first-seen name wins")
	assert.Equal(t, "Acme", out[0].Brand)
	assert.Equal(t, "A lovely ceramic mug for coffee", out[1].Description, "url-matched donor should merge")
}

func TestReconcileSyntheticIDs(t *testing.T) {
	r := NewReconciler("shop.example.com")
	out := r.Reconcile([]ProductFragment{
		{Name: "Classic Tee", Price: 12},
		{Name: "Winter Coat", Price: 89},
	})

	assert.Equal(t, "shop.example.com-classic-tee", out[0].ExternalID)
	assert.Equal(t, "shop.example.com-winter-coat", out[1].ExternalID)

	// Same names on a fresh reconciler yield the same ids
	r2 := NewReconciler("shop.example.com")
	out2 := r2.Reconcile([]ProductFragment{
		{Name: "Classic Tee", Price: 12},
		{Name: "Winter Coat", Price: 89},
	})
	assert.Equal(t, out[0].ExternalID, out2[0].ExternalID)
	assert.Equal(t, out[1].ExternalID, out2[1].ExternalID)
}

func TestReconcileDropsDetailOnlyFragmentsWithoutMatch(t *testing.T) {
	r := NewReconciler("shop.example.com")
	out := r.Reconcile([]ProductFragment{
		{Name: "Nameless Detail", Price: 0, Description: "detail that matches nothing in particular"},
	})

	assert.Empty(t, out, "detail-only fragments never seed canonical records")
}

func TestReconcileDiscardsEmptyNames(t *testing.T) {
	r := NewReconciler("shop.example.com")
	out := r.Reconcile([]ProductFragment{
		{Name: "   ", Price: 10},
		{Name: "", Price: 20},
	})
	assert.Empty(t, out)
}
