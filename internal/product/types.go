package product

// Variant represents one purchasable variation of a product
type Variant struct {
	ID    string  `json:"id,omitempty"`
	SKU   string  `json:"sku,omitempty"`
	Color string  `json:"color,omitempty"`
	Size  string  `json:"size,omitempty"`
	Price float64 `json:"price,omitempty"`
}

// ProductFragment is a partial, unverified observation of a product scraped
// from one location on one page. Fragments are ephemeral: they exist only
// between an extraction pass and reconciliation.
type ProductFragment struct {
	ExternalID      string    `json:"externalId,omitempty"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	Description     string    `json:"description,omitempty"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	ImageURLs       []string  `json:"imageUrls,omitempty"`
	ProductURL      string    `json:"productUrl,omitempty"`
	SKU             string    `json:"sku,omitempty"`
	Brand           string    `json:"brand,omitempty"`
	Category        string    `json:"category,omitempty"`
	Colors          []string  `json:"colors,omitempty"`
	Sizes           []string  `json:"sizes,omitempty"`
	Variants        []Variant `json:"variants,omitempty"`
	Stock           *int      `json:"stock,omitempty"`
	NeedsEnrichment bool      `json:"needsEnrichment,omitempty"`
	QualityScore    int       `json:"qualityScore"`
	IsComplete      bool      `json:"isComplete"`
}

// CanonicalProduct is the merge of one or more fragments believed to
// describe the same real product. Unlike a fragment it always carries an
// external identifier, synthesized deterministically when the source
// provided none.
type CanonicalProduct ProductFragment

// HasDetail reports whether the fragment carries supplementary detail worth
// merging into an existing group even when it cannot seed one itself
func (f ProductFragment) HasDetail() bool {
	return f.Description != "" || f.ImageURL != "" || len(f.ImageURLs) > 0 || f.ProductURL != ""
}

// HasImage reports whether any image reference is present
func (f ProductFragment) HasImage() bool {
	return f.ImageURL != "" || len(f.ImageURLs) > 0
}

// HasImage reports whether any image reference is present
func (p CanonicalProduct) HasImage() bool {
	return ProductFragment(p).HasImage()
}
