package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/pricing"
)

func TestSubtotal(t *testing.T) {
	items := []pricing.LineItem{
		item(pricing.CategoryClothing, "350", 1),
		item(pricing.CategoryAccessories, "250.25", 2),
		item(pricing.CategoryElectronics, "0.1", 3),
	}

	requireMoney(t, "850.8", pricing.Subtotal(items))
	requireMoney(t, "0", pricing.Subtotal(nil))
}

func TestCategorySubtotal(t *testing.T) {
	items := []pricing.LineItem{
		item(pricing.CategoryClothing, "350", 1),
		item(pricing.CategoryClothing, "100", 2),
		item(pricing.CategoryAccessories, "250", 1),
	}

	requireMoney(t, "550", pricing.CategorySubtotal(items, pricing.CategoryClothing))
	requireMoney(t, "250", pricing.CategorySubtotal(items, pricing.CategoryAccessories))
	requireMoney(t, "0", pricing.CategorySubtotal(items, pricing.CategoryElectronics))
}

func TestCategoryValid(t *testing.T) {
	for _, c := range pricing.Categories() {
		require.True(t, c.Valid())
	}
	require.False(t, pricing.Category("Books").Valid())
}
