package cart

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-pricing/internal/common"
	"github.com/noah-isme/toko-pricing/internal/pricing"
)

type itemPayload struct {
	Name     string          `json:"name" validate:"required,max=200"`
	Category string          `json:"category" validate:"required,oneof=Clothing Accessories Electronics"`
	Price    decimal.Decimal `json:"price" validate:"gt=0"`
	Quantity int             `json:"quantity" validate:"gte=1,lte=10000"`
}

func (p itemPayload) toNewItem() NewItem {
	return NewItem{
		Name:      p.Name,
		Category:  pricing.Category(p.Category),
		UnitPrice: p.Price,
		Quantity:  p.Quantity,
	}
}

type quantityPayload struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// campaignPayload is the tagged JSON form of a campaign. Which parameters are
// required depends on the type and is checked in toCampaign.
type campaignPayload struct {
	Type            string           `json:"type" validate:"required,oneof=FIXED_AMOUNT PERCENTAGE PERCENTAGE_BY_CATEGORY POINTS SEASONAL"`
	Category        string           `json:"category,omitempty" validate:"omitempty,oneof=Coupon OnTop Seasonal"`
	Amount          *decimal.Decimal `json:"amount,omitempty" validate:"omitempty,gte=0"`
	Percentage      *decimal.Decimal `json:"percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	ProductCategory string           `json:"productCategory,omitempty" validate:"omitempty,oneof=Clothing Accessories Electronics"`
	Points          *decimal.Decimal `json:"points,omitempty" validate:"omitempty,gte=0"`
	EveryXAmount    *decimal.Decimal `json:"everyXAmount,omitempty" validate:"omitempty,gt=0"`
	DiscountYAmount *decimal.Decimal `json:"discountYAmount,omitempty" validate:"omitempty,gte=0"`
}

type quotePayload struct {
	Items     []itemPayload     `json:"items" validate:"dive"`
	Campaigns []campaignPayload `json:"campaigns" validate:"dive"`
}

func (p quotePayload) lineItems() []pricing.LineItem {
	items := make([]pricing.LineItem, 0, len(p.Items))
	for i, it := range p.Items {
		items = append(items, pricing.LineItem{
			ID:        fmt.Sprintf("line-%d", i+1),
			Name:      it.Name,
			Category:  pricing.Category(it.Category),
			UnitPrice: it.Price,
			Quantity:  it.Quantity,
		})
	}
	return items
}

func (p quotePayload) campaigns() ([]pricing.Campaign, error) {
	out := make([]pricing.Campaign, 0, len(p.Campaigns))
	for i, c := range p.Campaigns {
		campaign, err := c.toCampaign()
		if err != nil {
			return nil, prefixField(err, fmt.Sprintf("campaigns[%d].", i))
		}
		out = append(out, campaign)
	}
	return out, nil
}

// toCampaign converts the payload into its pricing variant, checking the
// parameters the type requires and that a supplied tag matches the type.
func (p campaignPayload) toCampaign() (pricing.Campaign, error) {
	kind := pricing.Kind(p.Type)
	if p.Category != "" && pricing.Tag(p.Category) != kind.Tag() {
		return nil, fieldError("category", "eq", string(kind.Tag()))
	}
	switch kind {
	case pricing.KindFixedAmount:
		if p.Amount == nil {
			return nil, fieldError("amount", "required", "")
		}
		return pricing.FixedAmount{Amount: *p.Amount}, nil
	case pricing.KindPercentage:
		if p.Percentage == nil {
			return nil, fieldError("percentage", "required", "")
		}
		return pricing.Percentage{Percentage: *p.Percentage}, nil
	case pricing.KindCategoryPercentage:
		if p.ProductCategory == "" {
			return nil, fieldError("productCategory", "required", "")
		}
		if p.Percentage == nil {
			return nil, fieldError("percentage", "required", "")
		}
		return pricing.CategoryPercentage{Category: pricing.Category(p.ProductCategory), Percentage: *p.Percentage}, nil
	case pricing.KindPoints:
		if p.Points == nil {
			return nil, fieldError("points", "required", "")
		}
		return pricing.Points{Points: *p.Points}, nil
	case pricing.KindSeasonal:
		if p.EveryXAmount == nil {
			return nil, fieldError("everyXAmount", "required", "")
		}
		if p.DiscountYAmount == nil {
			return nil, fieldError("discountYAmount", "required", "")
		}
		return pricing.Seasonal{EveryX: *p.EveryXAmount, DiscountY: *p.DiscountYAmount}, nil
	default:
		return nil, fieldError("type", "oneof", "")
	}
}

func fieldError(field, rule, param string) *common.AppError {
	return common.NewAppError("VALIDATION_FAILED", "payload failed validation", http.StatusUnprocessableEntity, nil).
		WithDetails([]common.FieldError{{Field: field, Rule: rule, Param: param}})
}

func prefixField(err error, prefix string) error {
	appErr, ok := err.(*common.AppError)
	if !ok {
		return err
	}
	fields, ok := appErr.Details.([]common.FieldError)
	if !ok {
		return err
	}
	out := make([]common.FieldError, len(fields))
	for i, f := range fields {
		f.Field = prefix + f.Field
		out[i] = f
	}
	return appErr.WithDetails(out)
}

type itemResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

type campaignResponse struct {
	Type            string           `json:"type"`
	Category        string           `json:"category"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Percentage      *decimal.Decimal `json:"percentage,omitempty"`
	ProductCategory string           `json:"productCategory,omitempty"`
	Points          *decimal.Decimal `json:"points,omitempty"`
	EveryXAmount    *decimal.Decimal `json:"everyXAmount,omitempty"`
	DiscountYAmount *decimal.Decimal `json:"discountYAmount,omitempty"`
}

type breakdownResponse struct {
	Campaign       campaignResponse `json:"campaign"`
	DiscountAmount decimal.Decimal  `json:"discountAmount"`
	Description    string           `json:"description"`
}

type calculationResponse struct {
	Subtotal           decimal.Decimal     `json:"subtotal"`
	DiscountBreakdowns []breakdownResponse `json:"discountBreakdowns"`
	TotalDiscount      decimal.Decimal     `json:"totalDiscount"`
	FinalPrice         decimal.Decimal     `json:"finalPrice"`
	Currency           string              `json:"currency"`
}

type cartResponse struct {
	ID          string              `json:"id"`
	Items       []itemResponse      `json:"items"`
	Campaigns   []campaignResponse  `json:"campaigns"`
	Calculation calculationResponse `json:"calculation"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

func toCampaignResponse(c pricing.Campaign) campaignResponse {
	out := campaignResponse{Type: string(c.Kind()), Category: string(c.Tag())}
	switch v := c.(type) {
	case pricing.FixedAmount:
		out.Amount = &v.Amount
	case pricing.Percentage:
		out.Percentage = &v.Percentage
	case pricing.CategoryPercentage:
		out.ProductCategory = string(v.Category)
		out.Percentage = &v.Percentage
	case pricing.Points:
		out.Points = &v.Points
	case pricing.Seasonal:
		out.EveryXAmount = &v.EveryX
		out.DiscountYAmount = &v.DiscountY
	}
	return out
}

func toCalculationResponse(calc pricing.Calculation) calculationResponse {
	breakdowns := make([]breakdownResponse, 0, len(calc.Breakdowns))
	for _, b := range calc.Breakdowns {
		breakdowns = append(breakdowns, breakdownResponse{
			Campaign:       toCampaignResponse(b.Campaign),
			DiscountAmount: b.Amount,
			Description:    b.Description,
		})
	}
	return calculationResponse{
		Subtotal:           calc.Subtotal,
		DiscountBreakdowns: breakdowns,
		TotalDiscount:      calc.TotalDiscount,
		FinalPrice:         calc.FinalPrice,
		Currency:           pricing.CurrencyLabel,
	}
}

func toCartResponse(v View) cartResponse {
	items := make([]itemResponse, 0, len(v.Cart.Items))
	for _, it := range v.Cart.Items {
		items = append(items, itemResponse{
			ID:       it.ID,
			Name:     it.Name,
			Category: string(it.Category),
			Price:    it.UnitPrice,
			Quantity: it.Quantity,
			Total:    it.Total(),
		})
	}
	campaigns := make([]campaignResponse, 0, len(v.Cart.Campaigns))
	for _, c := range v.Cart.Campaigns {
		campaigns = append(campaigns, toCampaignResponse(c))
	}
	return cartResponse{
		ID:          v.Cart.ID,
		Items:       items,
		Campaigns:   campaigns,
		Calculation: toCalculationResponse(v.Calculation),
		UpdatedAt:   v.Cart.UpdatedAt,
	}
}
