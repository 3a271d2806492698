package scraper

import (
	"github.com/momoscout/momo-brand-scraper/internal/models"
)

// Accumulator keeps the first-seen record per product identifier across all
// pages of a run. Insertion order is preserved, so the final record list is
// in first-seen order.
type Accumulator struct {
	seen    map[string]struct{}
	records []models.ProductRecord
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		seen: make(map[string]struct{}),
	}
}

// Offer adds the record unless its identifier was already seen. It returns
// true when the record was accepted.
func (a *Accumulator) Offer(rec models.ProductRecord, id string) bool {
	if _, dup := a.seen[id]; dup {
		return false
	}
	a.seen[id] = struct{}{}
	a.records = append(a.records, rec)
	return true
}

// Len returns the number of accepted records.
func (a *Accumulator) Len() int {
	return len(a.records)
}

// Records returns the accepted records in first-seen order.
func (a *Accumulator) Records() []models.ProductRecord {
	return a.records
}
