package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/somramnani/hibachi-orders/internal/enum"
	"github.com/somramnani/hibachi-orders/internal/menu"
	"github.com/somramnani/hibachi-orders/internal/metrics"
	"github.com/somramnani/hibachi-orders/internal/service"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	SubmitOrder(ctx context.Context, req service.SubmitOrderRequest) (*service.SubmitOrderResult, error)
}

// OrderHandler handles the guest-facing order endpoints.
type OrderHandler struct {
	svc     OrderServicer
	catalog *menu.Catalog
	metrics *metrics.Metrics
}

// NewOrderHandler creates a new OrderHandler. m may be nil.
func NewOrderHandler(svc OrderServicer, catalog *menu.Catalog, m *metrics.Metrics) *OrderHandler {
	return &OrderHandler{svc: svc, catalog: catalog, metrics: m}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted under /api.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/submit-order", h.Submit)
	r.Get("/catalog", h.Catalog)
}

// --- Request / Response types ---

type submitOrderRequest struct {
	GuestName       *string  `json:"guestName"`
	GuestNames      *string  `json:"guestNames"` // older form builds
	Proteins        []string `json:"proteins"`
	AdditionalNotes string   `json:"additionalNotes"`
}

type submitOrderResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	OrderID string         `json:"orderId"`
	Data    submittedOrder `json:"data"`
}

type submittedOrder struct {
	GuestName       string   `json:"guestName"`
	Proteins        []string `json:"proteins"`
	AdditionalNotes string   `json:"additionalNotes"`
	SubmittedAt     string   `json:"submittedAt"`
}

type catalogResponse struct {
	BasePrice decimal.Decimal `json:"basePrice"`
	Currency  string          `json:"currency"`
	Proteins  []proteinOption `json:"proteins"`
}

type proteinOption struct {
	Value string          `json:"value"`
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
}

// --- Handlers ---

// Submit handles POST /api/submit-order.
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("decode submit-order body")
		h.metrics.ObserveSubmission(enum.SubmissionFailed)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	result, err := h.svc.SubmitOrder(r.Context(), service.SubmitOrderRequest{
		GuestName:       req.guestName(),
		Proteins:        req.Proteins,
		AdditionalNotes: req.AdditionalNotes,
	})
	if err != nil {
		if isValidationError(err) {
			h.metrics.ObserveSubmission(enum.SubmissionRejected)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("submit order")
		h.metrics.ObserveSubmission(enum.SubmissionFailed)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	h.metrics.ObserveSubmission(enum.SubmissionAccepted)
	writeJSON(w, http.StatusOK, submitOrderResponse{
		Success: true,
		Message: "Order submitted successfully",
		OrderID: result.OrderID,
		Data: submittedOrder{
			GuestName:       result.GuestName,
			Proteins:        result.Proteins,
			AdditionalNotes: result.AdditionalNotes,
			SubmittedAt:     result.SubmittedAt.Format(service.SubmittedAtLayout),
		},
	})
}

// Catalog handles GET /api/catalog.
func (h *OrderHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	opts := h.catalog.Options()
	resp := catalogResponse{
		BasePrice: h.catalog.BasePrice(),
		Currency:  h.catalog.Currency(),
		Proteins:  make([]proteinOption, len(opts)),
	}
	for i, o := range opts {
		resp.Proteins[i] = proteinOption{Value: o.Value, Label: o.Label, Price: o.Price}
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

func (r submitOrderRequest) guestName() string {
	switch {
	case r.GuestName != nil:
		return *r.GuestName
	case r.GuestNames != nil:
		return *r.GuestNames
	default:
		return ""
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrGuestNameRequired) ||
		errors.Is(err, service.ErrProteinsRequired) ||
		errors.Is(err, service.ErrProteinCount)
}
