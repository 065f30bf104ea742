package menu

import "github.com/shopspring/decimal"

// Quote is a price breakdown for one guest.
type Quote struct {
	Base  decimal.Decimal
	Lines []Option // resolved selections, in submission order
	Total decimal.Decimal
}

// Surcharge is the sum of the resolved selections' prices.
func (q Quote) Surcharge() decimal.Decimal {
	return q.Total.Sub(q.Base)
}

// Price computes base + Σ price for every value that resolves in the catalog.
// Unknown and empty values contribute nothing; duplicates are each counted.
func (c *Catalog) Price(proteins []string) Quote {
	q := Quote{Base: c.basePrice, Total: c.basePrice}
	for _, v := range proteins {
		o, ok := c.Lookup(v)
		if !ok {
			continue
		}
		q.Lines = append(q.Lines, o)
		q.Total = q.Total.Add(o.Price)
	}
	return q
}
