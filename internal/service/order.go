package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/somramnani/hibachi-orders/internal/enum"
	"github.com/somramnani/hibachi-orders/internal/ledger"
	"github.com/somramnani/hibachi-orders/internal/menu"
	"github.com/somramnani/hibachi-orders/internal/metrics"
	"github.com/somramnani/hibachi-orders/internal/ws"
)

// ProteinsPerOrder is the number of protein selections every order carries.
const ProteinsPerOrder = 3

// SubmittedAtLayout is the wire format of SubmitOrderResult.SubmittedAt.
const SubmittedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Errors returned by the order service.
var (
	ErrGuestNameRequired = errors.New("guest name is required")
	ErrProteinsRequired  = errors.New("proteins are required")
	ErrProteinCount      = errors.New("exactly three protein selections are required")
)

// LedgerRecorder makes one best-effort ledger write.
// Satisfied by *ledger.Recorder.
type LedgerRecorder interface {
	Record(ctx context.Context, row ledger.Row) ledger.Outcome
}

// Broadcaster pushes events to the organizer feed.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	Broadcast(event ws.Event) bool
}

// SubmitOrderRequest is the decoded order. Proteins is nil when the field was
// absent from the request.
type SubmitOrderRequest struct {
	GuestName       string
	Proteins        []string
	AdditionalNotes string
}

// SubmitOrderResult is an accepted order. Ledger is internal telemetry and
// is not part of the public response.
type SubmitOrderResult struct {
	OrderID         string
	GuestName       string
	Proteins        []string
	AdditionalNotes string
	Quote           menu.Quote
	TotalFormatted  string
	SubmittedAt     time.Time
	Ledger          ledger.Outcome
}

// orderSubmittedPayload is the organizer feed view of an order.
type orderSubmittedPayload struct {
	OrderID         string   `json:"orderId"`
	GuestName       string   `json:"guestName"`
	Proteins        []string `json:"proteins"`
	AdditionalNotes string   `json:"additionalNotes"`
	Total           string   `json:"total"`
	SubmittedAt     string   `json:"submittedAt"`
	Ledger          string   `json:"ledger"`
}

// OrderService handles order business logic.
type OrderService struct {
	catalog  *menu.Catalog
	recorder LedgerRecorder
	feed     Broadcaster
	metrics  *metrics.Metrics
	log      zerolog.Logger

	now   func() time.Time
	newID func() string
}

// NewOrderService creates a new OrderService. recorder and feed may be nil.
func NewOrderService(catalog *menu.Catalog, recorder LedgerRecorder, feed Broadcaster, m *metrics.Metrics, log zerolog.Logger) *OrderService {
	return &OrderService{
		catalog:  catalog,
		recorder: recorder,
		feed:     feed,
		metrics:  m,
		log:      log.With().Str("component", "order").Logger(),
		now:      time.Now,
		newID:    newOrderID,
	}
}

func newOrderID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return "ORDER-" + id.String()
}

// SubmitOrder validates and prices the order, attempts the ledger write and
// acknowledges. Only validation errors are returned; the ledger outcome never
// fails the call.
func (s *OrderService) SubmitOrder(ctx context.Context, req SubmitOrderRequest) (*SubmitOrderResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	quote := s.catalog.Price(req.Proteins)
	total := s.catalog.Format(quote.Total)

	row := ledger.NewRow(req.GuestName, req.Proteins, req.AdditionalNotes, total)
	outcome := ledger.Skipped()
	if s.recorder != nil {
		outcome = s.recorder.Record(ctx, row)
	}

	result := &SubmitOrderResult{
		OrderID:         s.newID(),
		GuestName:       req.GuestName,
		Proteins:        append([]string(nil), req.Proteins...),
		AdditionalNotes: req.AdditionalNotes,
		Quote:           quote,
		TotalFormatted:  total,
		SubmittedAt:     s.now().UTC(),
		Ledger:          outcome,
	}

	total64, _ := quote.Total.Float64()
	s.metrics.ObserveOrderTotal(total64)

	s.log.Info().
		Str("order_id", result.OrderID).
		Str("total", total).
		Str("ledger", outcome.Status).
		Str("ledger_reason", outcome.Reason).
		Msg("order accepted")

	s.publish(result)
	return result, nil
}

func validate(req SubmitOrderRequest) error {
	if strings.TrimSpace(req.GuestName) == "" {
		return ErrGuestNameRequired
	}
	if req.Proteins == nil {
		return ErrProteinsRequired
	}
	if len(req.Proteins) != ProteinsPerOrder {
		return ErrProteinCount
	}
	return nil
}

func (s *OrderService) publish(r *SubmitOrderResult) {
	if s.feed == nil {
		return
	}
	event, err := ws.NewEvent(enum.EventOrderSubmitted, orderSubmittedPayload{
		OrderID:         r.OrderID,
		GuestName:       r.GuestName,
		Proteins:        r.Proteins,
		AdditionalNotes: r.AdditionalNotes,
		Total:           r.TotalFormatted,
		SubmittedAt:     r.SubmittedAt.Format(SubmittedAtLayout),
		Ledger:          r.Ledger.Status,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("build order event")
		return
	}
	s.feed.Broadcast(event)
}
