package pricing

import "github.com/shopspring/decimal"

// Subtotal sums unit price times quantity over every item.
func Subtotal(items []LineItem) Money {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Total())
	}
	return total
}

// CategorySubtotal sums unit price times quantity over items of the given category.
func CategorySubtotal(items []LineItem, category Category) Money {
	total := decimal.Zero
	for _, it := range items {
		if it.Category != category {
			continue
		}
		total = total.Add(it.Total())
	}
	return total
}
