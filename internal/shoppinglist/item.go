package shoppinglist

import (
	"time"

	"BriteShop/internal/catalog"
)

// ItemMeta is the product snapshot a caller supplies when adding to the list.
type ItemMeta struct {
	ProductID      string   `json:"productId"`
	Name           string   `json:"name"`
	Brand          *string  `json:"brand"`
	EstimatedPrice *float64 `json:"estimatedPrice"`
	ImageURL       *string  `json:"imageUrl"`
}

// Item is one persisted list entry. Quantity is at least 1 while the entry
// exists; AddedAt never changes after the first insert.
type Item struct {
	ItemMeta
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"addedAt"`
}

// List keeps insertion order; ProductID is unique across entries.
type List []Item

func (l List) index(productID string) int {
	for i := range l {
		if l[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (l List) Contains(productID string) bool {
	return l.index(productID) >= 0
}

// Units sums quantities across all entries.
func (l List) Units() int {
	n := 0
	for _, it := range l {
		n += it.Quantity
	}
	return n
}

func (l List) clone() List {
	out := make(List, len(l))
	for i, it := range l {
		it.Brand = clonePtr(it.Brand)
		it.EstimatedPrice = clonePtr(it.EstimatedPrice)
		it.ImageURL = clonePtr(it.ImageURL)
		out[i] = it
	}
	return out
}

func (l List) without(productID string) List {
	out := make(List, 0, len(l))
	for _, it := range l {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	return out
}

// sanitize drops entries that break list invariants, which can only come from
// hand-edited or foreign data. The first entry for a product wins.
func sanitize(l List) List {
	out := make(List, 0, len(l))
	seen := make(map[string]struct{}, len(l))
	for _, it := range l {
		if it.ProductID == "" || it.Quantity < 1 {
			continue
		}
		if _, dup := seen[it.ProductID]; dup {
			continue
		}
		seen[it.ProductID] = struct{}{}
		out = append(out, it)
	}
	return out
}

// MetaFromProduct snapshots the catalog fields a list entry keeps.
func MetaFromProduct(p catalog.Product) ItemMeta {
	return ItemMeta{
		ProductID:      p.ID,
		Name:           p.Name,
		Brand:          clonePtr(p.Brand),
		EstimatedPrice: clonePtr(p.EstimatedPrice),
		ImageURL:       clonePtr(p.ImageURL),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
