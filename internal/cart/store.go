package cart

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/toko-pricing/internal/pricing"
)

// Cart is a shopping session: the line items and campaigns the customer holds.
type Cart struct {
	ID        string
	Items     []pricing.LineItem
	Campaigns []pricing.Campaign
	UpdatedAt time.Time
}

func (c *Cart) clone() Cart {
	return Cart{
		ID:        c.ID,
		Items:     slices.Clone(c.Items),
		Campaigns: slices.Clone(c.Campaigns),
		UpdatedAt: c.UpdatedAt,
	}
}

// Store keeps carts in process memory. Carts neither read nor modified for
// longer than TTL are treated as missing and dropped on access or by Sweep.
type Store struct {
	mu    sync.RWMutex
	carts map[string]*Cart
	ttl   time.Duration
	now   func() time.Time
}

// NewStore returns an empty store. A non-positive ttl disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{carts: make(map[string]*Cart), ttl: ttl, now: time.Now}
}

func (s *Store) expired(c *Cart, now time.Time) bool {
	return s.ttl > 0 && now.Sub(c.UpdatedAt) > s.ttl
}

func (s *Store) create() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &Cart{ID: uuid.NewString(), Items: []pricing.LineItem{}, Campaigns: []pricing.Campaign{}, UpdatedAt: s.now()}
	s.carts[c.ID] = c
	return c.clone()
}

// get returns a copy of the cart and counts the read as activity, so carts
// that are only being viewed stay alive.
func (s *Store) get(id string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[id]
	if !ok {
		return Cart{}, notFound(id)
	}
	now := s.now()
	if s.expired(c, now) {
		delete(s.carts, id)
		return Cart{}, notFound(id)
	}
	c.UpdatedAt = now
	return c.clone(), nil
}

// update applies fn to the cart under the write lock. The cart is left
// untouched when fn returns an error.
func (s *Store) update(id string, fn func(c *Cart) error) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[id]
	now := s.now()
	if !ok {
		return Cart{}, notFound(id)
	}
	if s.expired(c, now) {
		delete(s.carts, id)
		return Cart{}, notFound(id)
	}
	work := c.clone()
	if err := fn(&work); err != nil {
		return Cart{}, err
	}
	work.UpdatedAt = now
	*c = work
	return c.clone(), nil
}

// Len returns the number of carts held, including ones not yet swept.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.carts)
}

// Sweep drops expired carts and returns how many were removed.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, c := range s.carts {
		if s.expired(c, now) {
			delete(s.carts, id)
			removed++
		}
	}
	return removed
}

func notFound(id string) error {
	return fmt.Errorf("cart %s: %w", id, ErrNotFound)
}
