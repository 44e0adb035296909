package pricing

// Tag groups campaigns that are mutually exclusive within one calculation.
type Tag string

const (
	TagCoupon   Tag = "Coupon"
	TagOnTop    Tag = "OnTop"
	TagSeasonal Tag = "Seasonal"
)

// Priority returns the position of the tag in the application order.
// Lower values apply first; unknown tags sort last.
func (t Tag) Priority() int {
	switch t {
	case TagCoupon:
		return 1
	case TagOnTop:
		return 2
	case TagSeasonal:
		return 3
	default:
		return 4
	}
}

// Kind names a discount campaign variant.
type Kind string

const (
	KindFixedAmount        Kind = "FIXED_AMOUNT"
	KindPercentage         Kind = "PERCENTAGE"
	KindCategoryPercentage Kind = "PERCENTAGE_BY_CATEGORY"
	KindPoints             Kind = "POINTS"
	KindSeasonal           Kind = "SEASONAL"
)

// Kinds returns every supported campaign kind.
func Kinds() []Kind {
	return []Kind{KindFixedAmount, KindPercentage, KindCategoryPercentage, KindPoints, KindSeasonal}
}

// Tag returns the category tag intrinsically paired with the kind.
func (k Kind) Tag() Tag {
	switch k {
	case KindFixedAmount, KindPercentage:
		return TagCoupon
	case KindCategoryPercentage, KindPoints:
		return TagOnTop
	case KindSeasonal:
		return TagSeasonal
	default:
		return ""
	}
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool { return k.Tag() != "" }

// Campaign is an immutable discount campaign. Implementations are limited to
// the variants declared in this package.
type Campaign interface {
	Kind() Kind
	Tag() Tag
	sealed()
}

// FixedAmount subtracts a fixed amount from the running total.
type FixedAmount struct {
	Amount Money
}

// Percentage subtracts a percentage (0-100) of the running total.
type Percentage struct {
	Percentage Money
}

// CategoryPercentage discounts a percentage of one product category's subtotal.
type CategoryPercentage struct {
	Category   Category
	Percentage Money
}

// Points redeems customer points at one currency unit per point, capped at 20% of the running total.
type Points struct {
	Points Money
}

// Seasonal subtracts DiscountY for every full EveryX of the running total.
type Seasonal struct {
	EveryX    Money
	DiscountY Money
}

func (FixedAmount) Kind() Kind        { return KindFixedAmount }
func (Percentage) Kind() Kind         { return KindPercentage }
func (CategoryPercentage) Kind() Kind { return KindCategoryPercentage }
func (Points) Kind() Kind             { return KindPoints }
func (Seasonal) Kind() Kind           { return KindSeasonal }

func (c FixedAmount) Tag() Tag        { return c.Kind().Tag() }
func (c Percentage) Tag() Tag         { return c.Kind().Tag() }
func (c CategoryPercentage) Tag() Tag { return c.Kind().Tag() }
func (c Points) Tag() Tag             { return c.Kind().Tag() }
func (c Seasonal) Tag() Tag           { return c.Kind().Tag() }

func (FixedAmount) sealed()        {}
func (Percentage) sealed()         {}
func (CategoryPercentage) sealed() {}
func (Points) sealed()             {}
func (Seasonal) sealed()           {}
