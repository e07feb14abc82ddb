package product

import "math"

// Score computes the 0-100 completeness score of a record: the percentage
// of a fixed checklist of presence/length predicates that hold, all
// weighted equally.
func Score(p *CanonicalProduct) int {
	checks := []bool{
		len(p.Name) > 2,
		p.Price > 0,
		len(p.Description) > 20,
		p.HasImage(),
		len(p.Sizes) > 0,
		p.Category != "",
		p.SKU != "",
		p.Brand != "",
	}

	passed := 0
	for _, ok := range checks {
		if ok {
			passed++
		}
	}
	return int(math.Round(100 * float64(passed) / float64(len(checks))))
}

// Rescore recomputes the quality score and completeness flag against the
// given threshold. A record that reaches the threshold no longer needs
// enrichment.
func (p *CanonicalProduct) Rescore(threshold int) {
	p.QualityScore = Score(p)
	p.IsComplete = p.QualityScore >= threshold
	if p.IsComplete {
		p.NeedsEnrichment = false
	}
}
