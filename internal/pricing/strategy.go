package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	// pointsCapRatio limits point redemption to 20% of the running total.
	pointsCapRatio = decimal.NewFromInt(20).Div(hundred)
)

// FixedAmountDiscount subtracts the coupon amount, never more than what remains.
func FixedAmountDiscount(c FixedAmount, running Money) Breakdown {
	amount := nonNegative(decimal.Min(c.Amount, running))
	return Breakdown{
		Campaign:    c,
		Amount:      amount,
		Description: fmt.Sprintf("Fixed amount coupon %s %s: -%s %s", formatMoney(c.Amount), CurrencyLabel, formatMoney(amount), CurrencyLabel),
	}
}

// PercentageDiscount subtracts a percentage of the running total.
func PercentageDiscount(c Percentage, running Money) Breakdown {
	amount := nonNegative(running.Mul(c.Percentage).Div(hundred))
	return Breakdown{
		Campaign:    c,
		Amount:      amount,
		Description: fmt.Sprintf("Percentage coupon %s%%: -%s %s", c.Percentage.String(), formatMoney(amount), CurrencyLabel),
	}
}

// CategoryDiscount discounts a percentage of the target category's subtotal.
// The base is the undiscounted category subtotal, so the result does not
// compound with discounts applied earlier in the pipeline.
func CategoryDiscount(c CategoryPercentage, items []LineItem) Breakdown {
	base := CategorySubtotal(items, c.Category)
	amount := nonNegative(base.Mul(c.Percentage).Div(hundred))
	return Breakdown{
		Campaign:    c,
		Amount:      amount,
		Description: fmt.Sprintf("%s%% off on %s: -%s %s", c.Percentage.String(), c.Category, formatMoney(amount), CurrencyLabel),
	}
}

// PointsDiscount redeems points one-to-one, capped at 20% of the running total.
func PointsDiscount(c Points, running Money) Breakdown {
	limit := nonNegative(running).Mul(pointsCapRatio)
	requested := nonNegative(c.Points)
	amount := decimal.Min(requested, limit)
	description := fmt.Sprintf("Points discount: %s points = -%s %s", c.Points.String(), formatMoney(amount), CurrencyLabel)
	if requested.GreaterThan(limit) {
		description += fmt.Sprintf(" (capped at 20%% = %s %s)", formatMoney(limit), CurrencyLabel)
	}
	return Breakdown{Campaign: c, Amount: amount, Description: description}
}

// SeasonalDiscount subtracts DiscountY for every full EveryX of the running total.
// A non-positive EveryX violates the campaign contract and yields no discount.
func SeasonalDiscount(c Seasonal, running Money) Breakdown {
	times := decimal.Zero
	if c.EveryX.IsPositive() && running.IsPositive() {
		// Precision 0 yields an exact integer quotient, which is the floor for non-negative operands.
		times, _ = running.QuoRem(c.EveryX, 0)
	}
	amount := nonNegative(times.Mul(c.DiscountY))
	return Breakdown{
		Campaign: c,
		Amount:   amount,
		Description: fmt.Sprintf("Seasonal: %s %s off every %s %s (%sx): -%s %s",
			formatMoney(c.DiscountY), CurrencyLabel, formatMoney(c.EveryX), CurrencyLabel, times.String(), formatMoney(amount), CurrencyLabel),
	}
}

func nonNegative(m Money) Money {
	if m.IsNegative() {
		return decimal.Zero
	}
	return m
}

func formatMoney(m Money) string {
	return m.StringFixed(2)
}
