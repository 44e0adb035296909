package cart

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pricing/internal/common"
	"github.com/noah-isme/toko-pricing/internal/pricing"
)

// Handler wires cart services to HTTP.
type Handler struct {
	Svc *Service
}

// Routes mounts the cart endpoints under the caller's router. Mutating routes
// are wrapped with the supplied middlewares (idempotency, for instance).
func (h *Handler) Routes(r chi.Router, writes ...func(http.Handler) http.Handler) {
	r.Post("/pricing/quote", h.Quote)
	r.Route("/carts", func(r chi.Router) {
		r.With(writes...).Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Group(func(r chi.Router) {
				r.Use(writes...)
				r.Post("/items", h.AddItem)
				r.Delete("/items", h.ClearItems)
				r.Patch("/items/{itemId}", h.UpdateItem)
				r.Delete("/items/{itemId}", h.RemoveItem)
				r.Put("/campaigns", h.ApplyCampaign)
				r.Delete("/campaigns", h.ClearCampaigns)
				r.Delete("/campaigns/{type}", h.RemoveCampaign)
			})
		})
	})
}

// Quote prices the posted items and campaigns without creating a cart.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var payload quotePayload
	if err := common.DecodeJSON(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	campaigns, err := payload.campaigns()
	if err != nil {
		common.WriteError(w, err)
		return
	}
	calc, err := h.Svc.Quote(r.Context(), payload.lineItems(), campaigns)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	common.Data(w, http.StatusOK, toCalculationResponse(calc))
}

// Create opens a new empty cart.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	view, err := h.Svc.Create(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	common.Data(w, http.StatusCreated, toCartResponse(view))
}

// Get returns cart contents and the current calculation.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartID(w, r)
	if !ok {
		return
	}
	h.respond(w, r, http.StatusOK)(h.Svc.Get(r.Context(), id))
}

// AddItem appends a line item.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartID(w, r)
	if !ok {
		return
	}
	var payload itemPayload
	if err := common.DecodeJSON(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	h.respond(w, r, http.StatusCreated)(h.Svc.AddItem(r.Context(), id, payload.toNewItem()))
}

// UpdateItem changes the quantity of a line item; zero or less removes it.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartID(w, r)
	if !ok {
		return
	}
	var payload quantityPayload
	if err := common.DecodeJSON(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	itemID := chi.URLParam(r, "itemId")
	h.respond(w, r, http.StatusOK)(h.Svc.UpdateItemQuantity(r.Context(), id, itemID, *payload.Quantity))
}

// RemoveItem deletes a line item.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartID(w, r)
	if !ok {
		return
	}
	h.respond(w, r, http.StatusOK)(h.Svc.RemoveItem(r.Context(), id, chi.URLParam(r, "itemId")))
}

// ClearItems empties the cart.
func (h *Handler) ClearItems(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartID(w, r)
	if !ok {
		return
	}
	h.respond(w, r, http.StatusOK)(h.Svc.ClearItems(r.Context(), id))
}

// ApplyCampaign attaches a campaign, replacing the one held for its tag.
func (h *Handler) ApplyCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartID(w, r)
	if !ok {
		return
	}
	var payload campaignPayload
	if err := common.DecodeJSON(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	campaign, err := payload.toCampaign()
	if err != nil {
		common.WriteError(w, err)
		return
	}
	h.respond(w, r, http.StatusOK)(h.Svc.ApplyCampaign(r.Context(), id, campaign))
}

// RemoveCampaign drops campaigns of the kind named in the path.
func (h *Handler) RemoveCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartID(w, r)
	if !ok {
		return
	}
	kind := pricing.Kind(strings.ToUpper(chi.URLParam(r, "type")))
	h.respond(w, r, http.StatusOK)(h.Svc.RemoveCampaign(r.Context(), id, kind))
}

// ClearCampaigns removes every campaign.
func (h *Handler) ClearCampaigns(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartID(w, r)
	if !ok {
		return
	}
	h.respond(w, r, http.StatusOK)(h.Svc.ClearCampaigns(r.Context(), id))
}

func (h *Handler) ready(w http.ResponseWriter) bool {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return false
	}
	return true
}

func (h *Handler) cartID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !h.ready(w) {
		return "", false
	}
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid cart id", nil)
		return "", false
	}
	return id, true
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int) func(View, error) {
	return func(view View, err error) {
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		common.Data(w, status, toCartResponse(view))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case common.IsAppError(err):
		common.WriteError(w, err)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("cart request failed")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
