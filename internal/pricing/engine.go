package pricing

import "github.com/shopspring/decimal"

// Breakdown explains a single applied discount.
type Breakdown struct {
	Campaign    Campaign
	Amount      Money
	Description string
}

// Calculation aggregates the priced result of a cart.
type Calculation struct {
	Subtotal      Money
	Breakdowns    []Breakdown
	TotalDiscount Money
	FinalPrice    Money
}

// Calculate prices the items against the active campaigns.
//
// Campaigns are deduplicated per tag and applied in the order Coupon, OnTop,
// Seasonal, each one seeing the running total left by the previous ones. The
// running total never drops below zero and discounts of zero are not recorded.
// Calculate holds no state and does not modify its arguments.
func Calculate(items []LineItem, campaigns []Campaign) Calculation {
	if len(items) == 0 {
		return Calculation{
			Subtotal:      decimal.Zero,
			Breakdowns:    []Breakdown{},
			TotalDiscount: decimal.Zero,
			FinalPrice:    decimal.Zero,
		}
	}

	subtotal := Subtotal(items)
	running := subtotal
	breakdowns := make([]Breakdown, 0, 3)
	for _, c := range SelectCampaigns(campaigns) {
		b, ok := apply(c, items, running)
		if !ok || !b.Amount.IsPositive() {
			continue
		}
		breakdowns = append(breakdowns, b)
		running = nonNegative(running.Sub(b.Amount))
	}

	return Calculation{
		Subtotal:      subtotal,
		Breakdowns:    breakdowns,
		TotalDiscount: subtotal.Sub(running),
		FinalPrice:    nonNegative(running),
	}
}

// apply dispatches a campaign to its strategy. Unrecognised campaigns report false.
func apply(c Campaign, items []LineItem, running Money) (Breakdown, bool) {
	switch c := c.(type) {
	case FixedAmount:
		return FixedAmountDiscount(c, running), true
	case Percentage:
		return PercentageDiscount(c, running), true
	case CategoryPercentage:
		return CategoryDiscount(c, items), true
	case Points:
		return PointsDiscount(c, running), true
	case Seasonal:
		return SeasonalDiscount(c, running), true
	default:
		return Breakdown{}, false
	}
}
