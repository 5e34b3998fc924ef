package pipeline

import (
	"mizan/internal"
	"mizan/internal/util"
)

type DedupeOutcome string

const (
	DedupeKept      DedupeOutcome = "KEPT"
	DedupeReplaced  DedupeOutcome = "REPLACED"
	DedupeDiscarded DedupeOutcome = "DISCARDED"
)

// Deduplicator keeps one product per normalized name. A later duplicate takes
// over the earlier one's position only when it has strictly more non-zero
// nutrients; on ties the first one stays. Feed products in input order.
type Deduplicator struct {
	byKey    map[string]int
	products []internal.Product
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{byKey: map[string]int{}}
}

func (d *Deduplicator) Add(p internal.Product) DedupeOutcome {
	key := util.NormalizeKey(p.Name)
	idx, seen := d.byKey[key]
	if !seen {
		d.byKey[key] = len(d.products)
		d.products = append(d.products, p)
		return DedupeKept
	}

	if p.Nutrients.Completeness() > d.products[idx].Nutrients.Completeness() {
		d.products[idx] = p
		return DedupeReplaced
	}
	return DedupeDiscarded
}

// Products returns the surviving products in output order.
func (d *Deduplicator) Products() []internal.Product {
	out := make([]internal.Product, len(d.products))
	copy(out, d.products)
	return out
}

func Dedupe(products []internal.Product) []internal.Product {
	d := NewDeduplicator()
	for _, p := range products {
		d.Add(p)
	}
	return d.Products()
}
