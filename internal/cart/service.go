package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/toko-pricing/internal/obs"
	"github.com/noah-isme/toko-pricing/internal/pricing"
)

// ErrNotFound indicates the requested cart or item could not be located.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

var hundred = decimal.NewFromInt(100)

// NewItem describes a line item to add to a cart.
type NewItem struct {
	Name      string
	Category  pricing.Category
	UnitPrice pricing.Money
	Quantity  int
}

// View is a cart together with its freshly computed calculation.
type View struct {
	Cart        Cart
	Calculation pricing.Calculation
}

// Service encapsulates cart domain operations.
type Service struct {
	Store *Store
}

// NewService builds a service over an in-memory store with the given idle TTL.
func NewService(ttl time.Duration) *Service {
	return &Service{Store: NewStore(ttl)}
}

func (s *Service) store() (*Store, error) {
	if s == nil || s.Store == nil {
		return nil, errors.New("cart service not configured")
	}
	return s.Store, nil
}

// Create opens a new empty cart.
func (s *Service) Create(ctx context.Context) (View, error) {
	st, err := s.store()
	if err != nil {
		return View{}, err
	}
	c := st.create()
	recordMutation("create", nil)
	zerolog.Ctx(ctx).Debug().Str("cart_id", c.ID).Msg("cart created")
	return s.view(ctx, c), nil
}

// Get returns the cart with its calculation recomputed.
func (s *Service) Get(ctx context.Context, id string) (View, error) {
	st, err := s.store()
	if err != nil {
		return View{}, err
	}
	c, err := st.get(id)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, c), nil
}

// AddItem appends a new line item with a generated identifier.
func (s *Service) AddItem(ctx context.Context, id string, in NewItem) (View, error) {
	if err := validateItem(in); err != nil {
		recordMutation("add_item", err)
		return View{}, err
	}
	item := pricing.LineItem{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Category:  in.Category,
		UnitPrice: in.UnitPrice,
		Quantity:  in.Quantity,
	}
	return s.mutate(ctx, "add_item", id, func(c *Cart) error {
		c.Items = append(c.Items, item)
		return nil
	})
}

// RemoveItem deletes the line item from the cart.
func (s *Service) RemoveItem(ctx context.Context, id, itemID string) (View, error) {
	return s.mutate(ctx, "remove_item", id, func(c *Cart) error {
		idx := indexOfItem(c.Items, itemID)
		if idx < 0 {
			return fmt.Errorf("item %s: %w", itemID, ErrNotFound)
		}
		c.Items = slices.Delete(c.Items, idx, idx+1)
		return nil
	})
}

// UpdateItemQuantity sets the quantity of a line item. A quantity of zero or
// less removes the item.
func (s *Service) UpdateItemQuantity(ctx context.Context, id, itemID string, qty int) (View, error) {
	return s.mutate(ctx, "update_quantity", id, func(c *Cart) error {
		idx := indexOfItem(c.Items, itemID)
		if idx < 0 {
			return fmt.Errorf("item %s: %w", itemID, ErrNotFound)
		}
		if qty <= 0 {
			c.Items = slices.Delete(c.Items, idx, idx+1)
			return nil
		}
		c.Items[idx].Quantity = qty
		return nil
	})
}

// ClearItems removes every line item.
func (s *Service) ClearItems(ctx context.Context, id string) (View, error) {
	return s.mutate(ctx, "clear_items", id, func(c *Cart) error {
		c.Items = []pricing.LineItem{}
		return nil
	})
}

// ApplyCampaign attaches a campaign, replacing any campaign already held for the
// same tag.
func (s *Service) ApplyCampaign(ctx context.Context, id string, campaign pricing.Campaign) (View, error) {
	if err := validateCampaign(campaign); err != nil {
		recordMutation("apply_campaign", err)
		return View{}, err
	}
	return s.mutate(ctx, "apply_campaign", id, func(c *Cart) error {
		c.Campaigns = slices.DeleteFunc(c.Campaigns, func(existing pricing.Campaign) bool {
			return existing.Tag() == campaign.Tag()
		})
		c.Campaigns = append(c.Campaigns, campaign)
		return nil
	})
}

// RemoveCampaign drops campaigns of the given kind.
func (s *Service) RemoveCampaign(ctx context.Context, id string, kind pricing.Kind) (View, error) {
	if !kind.Valid() {
		err := fmt.Errorf("unknown campaign type %q: %w", kind, ErrInvalidInput)
		recordMutation("remove_campaign", err)
		return View{}, err
	}
	return s.mutate(ctx, "remove_campaign", id, func(c *Cart) error {
		c.Campaigns = slices.DeleteFunc(c.Campaigns, func(existing pricing.Campaign) bool {
			return existing.Kind() == kind
		})
		return nil
	})
}

// ClearCampaigns removes every campaign.
func (s *Service) ClearCampaigns(ctx context.Context, id string) (View, error) {
	return s.mutate(ctx, "clear_campaigns", id, func(c *Cart) error {
		c.Campaigns = []pricing.Campaign{}
		return nil
	})
}

// Quote prices items and campaigns without touching any stored cart.
func (s *Service) Quote(ctx context.Context, items []pricing.LineItem, campaigns []pricing.Campaign) (pricing.Calculation, error) {
	for _, it := range items {
		if err := validateItem(NewItem{Name: it.Name, Category: it.Category, UnitPrice: it.UnitPrice, Quantity: it.Quantity}); err != nil {
			return pricing.Calculation{}, err
		}
	}
	for _, c := range campaigns {
		if err := validateCampaign(c); err != nil {
			return pricing.Calculation{}, err
		}
	}
	return calculate(ctx, items, campaigns), nil
}

// Sweep drops expired carts.
func (s *Service) Sweep(ctx context.Context) int {
	st, err := s.store()
	if err != nil {
		return 0
	}
	removed := st.Sweep()
	if removed > 0 {
		zerolog.Ctx(ctx).Info().Int("removed", removed).Msg("expired carts swept")
	}
	return removed
}

func (s *Service) mutate(ctx context.Context, op, id string, fn func(c *Cart) error) (View, error) {
	st, err := s.store()
	if err != nil {
		return View{}, err
	}
	c, err := st.update(id, fn)
	recordMutation(op, err)
	if err != nil {
		return View{}, err
	}
	zerolog.Ctx(ctx).Debug().Str("cart_id", id).Str("op", op).Int("items", len(c.Items)).Int("campaigns", len(c.Campaigns)).Msg("cart updated")
	return s.view(ctx, c), nil
}

func (s *Service) view(ctx context.Context, c Cart) View {
	return View{Cart: c, Calculation: calculate(ctx, c.Items, c.Campaigns)}
}

func calculate(ctx context.Context, items []pricing.LineItem, campaigns []pricing.Campaign) pricing.Calculation {
	_, span := otel.Tracer("cart.Service").Start(ctx, "cart.calculate")
	defer span.End()

	calc := pricing.Calculate(items, campaigns)

	outcome := "discounted"
	switch {
	case len(items) == 0:
		outcome = "empty"
	case len(calc.Breakdowns) == 0:
		outcome = "undiscounted"
	}
	discount, _ := calc.TotalDiscount.Float64()
	span.SetAttributes(
		attribute.Int("cart.items", len(items)),
		attribute.Int("cart.campaigns", len(campaigns)),
		attribute.Int("pricing.breakdowns", len(calc.Breakdowns)),
		attribute.String("pricing.subtotal", calc.Subtotal.String()),
		attribute.String("pricing.final", calc.FinalPrice.String()),
		attribute.String("pricing.outcome", outcome),
	)

	if obs.PricingCalculationsTotal != nil {
		obs.PricingCalculationsTotal.WithLabelValues(outcome).Inc()
	}
	if obs.PricingDiscountAmount != nil && len(items) > 0 {
		obs.PricingDiscountAmount.Observe(discount)
	}
	for _, b := range calc.Breakdowns {
		if obs.PricingDiscountsAppliedTotal != nil {
			obs.PricingDiscountsAppliedTotal.WithLabelValues(string(b.Campaign.Kind())).Inc()
		}
		if p, ok := b.Campaign.(pricing.Points); ok && b.Amount.LessThan(p.Points) && obs.PricingPointsCappedTotal != nil {
			obs.PricingPointsCappedTotal.Inc()
		}
	}

	zerolog.Ctx(ctx).Debug().
		Str("subtotal", calc.Subtotal.String()).
		Str("discount", calc.TotalDiscount.String()).
		Str("final", calc.FinalPrice.String()).
		Int("breakdowns", len(calc.Breakdowns)).
		Msg("cart priced")
	return calc
}

func recordMutation(op string, err error) {
	if obs.CartMutationsTotal == nil {
		return
	}
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case errors.Is(err, ErrInvalidInput):
		result = "invalid"
	default:
		result = "error"
	}
	obs.CartMutationsTotal.WithLabelValues(op, result).Inc()
}

func indexOfItem(items []pricing.LineItem, itemID string) int {
	return slices.IndexFunc(items, func(it pricing.LineItem) bool { return it.ID == itemID })
}

func validateItem(in NewItem) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("item name is required: %w", ErrInvalidInput)
	case !in.Category.Valid():
		return fmt.Errorf("unknown category %q: %w", in.Category, ErrInvalidInput)
	case !in.UnitPrice.IsPositive():
		return fmt.Errorf("unit price must be positive: %w", ErrInvalidInput)
	case in.Quantity < 1:
		return fmt.Errorf("quantity must be at least 1: %w", ErrInvalidInput)
	}
	return nil
}

func validateCampaign(c pricing.Campaign) error {
	switch v := c.(type) {
	case pricing.FixedAmount:
		if v.Amount.IsNegative() {
			return fmt.Errorf("amount must not be negative: %w", ErrInvalidInput)
		}
	case pricing.Percentage:
		if !inPercentRange(v.Percentage) {
			return fmt.Errorf("percentage must be between 0 and 100: %w", ErrInvalidInput)
		}
	case pricing.CategoryPercentage:
		if !v.Category.Valid() {
			return fmt.Errorf("unknown category %q: %w", v.Category, ErrInvalidInput)
		}
		if !inPercentRange(v.Percentage) {
			return fmt.Errorf("percentage must be between 0 and 100: %w", ErrInvalidInput)
		}
	case pricing.Points:
		if v.Points.IsNegative() {
			return fmt.Errorf("points must not be negative: %w", ErrInvalidInput)
		}
	case pricing.Seasonal:
		if !v.EveryX.IsPositive() {
			return fmt.Errorf("everyXAmount must be positive: %w", ErrInvalidInput)
		}
		if v.DiscountY.IsNegative() {
			return fmt.Errorf("discountYAmount must not be negative: %w", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("unsupported campaign: %w", ErrInvalidInput)
	}
	return nil
}

func inPercentRange(p pricing.Money) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred)
}
