package shoppinglist

import "github.com/shopspring/decimal"

// Total is the estimated cost of the list: each entry's price snapshot times
// its quantity. Entries without a finite price count as zero. The sum is
// carried in decimal so cent amounts add up exactly.
func Total(l List) float64 {
	sum := decimal.Zero
	for _, it := range l {
		if it.EstimatedPrice == nil || !finite(*it.EstimatedPrice) {
			continue
		}
		line := decimal.NewFromFloat(*it.EstimatedPrice).Mul(decimal.NewFromInt(int64(it.Quantity)))
		sum = sum.Add(line)
	}

	f, _ := sum.Float64()
	return f
}
