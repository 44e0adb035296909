package pricing

import "github.com/shopspring/decimal"

// Money represents an exact monetary amount.
type Money = decimal.Decimal

// CurrencyLabel is the currency suffix used in breakdown descriptions.
const CurrencyLabel = "THB"

// Category identifies the product category of a line item.
type Category string

const (
	CategoryClothing    Category = "Clothing"
	CategoryAccessories Category = "Accessories"
	CategoryElectronics Category = "Electronics"
)

// Categories returns every supported product category.
func Categories() []Category {
	return []Category{CategoryClothing, CategoryAccessories, CategoryElectronics}
}

// Valid reports whether c is a supported category.
func (c Category) Valid() bool {
	switch c {
	case CategoryClothing, CategoryAccessories, CategoryElectronics:
		return true
	default:
		return false
	}
}

// LineItem describes a cart line used for pricing calculation.
type LineItem struct {
	ID        string
	Name      string
	Category  Category
	UnitPrice Money
	Quantity  int
}

// Total returns the unit price multiplied by the quantity.
func (it LineItem) Total() Money {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
