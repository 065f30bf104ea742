// Package orderform holds the client-side state of one guest's order form:
// the fields, the protein selection policy, a live price and the submit cycle.
package orderform

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/somramnani/hibachi-orders/internal/client"
	"github.com/somramnani/hibachi-orders/internal/enum"
	"github.com/somramnani/hibachi-orders/internal/menu"
)

// Form field names accepted by EditField.
const (
	FieldGuestName       = "guestName"
	FieldAdditionalNotes = "additionalNotes"
)

var (
	ErrIncompleteSelection = errors.New("three protein selections are required")
	ErrSubmitInFlight      = errors.New("an order is already being submitted")
	ErrWrongSelectionMode  = errors.New("operation does not apply to this selection mode")
	ErrUnknownField        = errors.New("unknown form field")
	ErrSlotIndex           = errors.New("protein slot out of range")
)

// Phase is the submit state of a Controller.
type Phase int

const (
	Idle Phase = iota
	Submitting
)

func (p Phase) String() string {
	if p == Submitting {
		return "submitting"
	}
	return "idle"
}

// Submitter sends an order to the server. Satisfied by *client.Client.
type Submitter interface {
	SubmitOrder(ctx context.Context, req client.SubmitOrderRequest) (*client.SubmitOrderResponse, error)
}

// FormState is a snapshot of the editable fields.
type FormState struct {
	GuestName       string
	Proteins        []string
	AdditionalNotes string
}

// Receipt confirms an accepted order.
type Receipt struct {
	OrderID     string
	GuestName   string
	SubmittedAt string
	Message     string
}

// Controller owns one form. It is safe for concurrent use; a second Submit
// while one is outstanding fails with ErrSubmitInFlight.
type Controller struct {
	catalog   *menu.Catalog
	submitter Submitter
	mode      string

	mu        sync.Mutex
	guestName string
	notes     string
	sel       selection
	phase     Phase
}

// New creates an empty form using the given selection mode
// (enum.SelectionSlots or enum.SelectionSet; empty means slots).
func New(catalog *menu.Catalog, s Submitter, mode string) (*Controller, error) {
	c := &Controller{catalog: catalog, submitter: s, mode: mode}
	switch mode {
	case "", enum.SelectionSlots:
		c.mode = enum.SelectionSlots
		c.sel = &slotSelection{}
	case enum.SelectionSet:
		c.sel = &setSelection{}
	default:
		return nil, fmt.Errorf("unknown selection mode %q", mode)
	}
	return c, nil
}

// Mode returns the selection mode.
func (c *Controller) Mode() string { return c.mode }

// EditField overwrites guestName or additionalNotes.
func (c *Controller) EditField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case FieldGuestName:
		c.guestName = value
	case FieldAdditionalNotes:
		c.notes = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// SetProteinSlot overwrites slot index (0-based). Slot mode only. An empty
// value clears the slot.
func (c *Controller) SetProteinSlot(index int, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sel.(*slotSelection)
	if !ok {
		return ErrWrongSelectionMode
	}
	if index < 0 || index >= Slots {
		return fmt.Errorf("%w: %d", ErrSlotIndex, index)
	}
	s.set(index, value)
	return nil
}

// ToggleProtein selects or deselects value. Set mode only. Adding a fourth
// protein is a no-op. Reports whether value is selected afterwards.
func (c *Controller) ToggleProtein(value string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sel.(*setSelection)
	if !ok {
		return false, ErrWrongSelectionMode
	}
	return s.toggle(value), nil
}

// CanToggle reports whether the control for value is enabled: always in slot
// mode, and in set mode unless three other proteins are already picked.
func (c *Controller) CanToggle(value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.sel.(*setSelection); ok {
		return s.canToggle(value)
	}
	return true
}

// LivePrice prices the current selection.
func (c *Controller) LivePrice() menu.Quote {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog.Price(c.sel.values())
}

// SelectionHint is the feedback line shown under the protein choices.
func (c *Controller) SelectionHint() string {
	c.mu.Lock()
	n := c.sel.count()
	c.mu.Unlock()

	switch remaining := Slots - n; {
	case n == 0:
		return "Please select three protein options"
	case remaining == 1:
		return "Please select 1 more protein option"
	case remaining > 1:
		return fmt.Sprintf("Please select %d more protein options", remaining)
	default:
		return "✓ Perfect! You've selected all three protein options"
	}
}

// State returns a copy of the form fields.
func (c *Controller) State() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() FormState {
	vals := c.sel.values()
	var proteins []string
	if len(vals) > 0 {
		proteins = append(make([]string, 0, len(vals)), vals...)
	}
	return FormState{GuestName: c.guestName, Proteins: proteins, AdditionalNotes: c.notes}
}

// Phase returns the submit phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Submit sends the form. It fails locally, without a network call, unless
// exactly three proteins are selected. On success the form is cleared; on
// failure it is left as is so the guest can retry. The phase always returns
// to Idle.
func (c *Controller) Submit(ctx context.Context) (*Receipt, error) {
	c.mu.Lock()
	if c.phase == Submitting {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if c.sel.count() != Slots {
		c.mu.Unlock()
		return nil, ErrIncompleteSelection
	}
	st := c.stateLocked()
	c.phase = Submitting
	c.mu.Unlock()
	defer c.setPhase(Idle)

	resp, err := c.submitter.SubmitOrder(ctx, client.SubmitOrderRequest{
		GuestName:       st.GuestName,
		Proteins:        st.Proteins,
		AdditionalNotes: st.AdditionalNotes,
	})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.guestName, c.notes = "", ""
	c.sel.reset()
	c.mu.Unlock()

	return &Receipt{
		OrderID:     resp.OrderID,
		GuestName:   st.GuestName,
		SubmittedAt: resp.Data.SubmittedAt,
		Message:     fmt.Sprintf("Added to the order! Thanks for submitting %s.", st.GuestName),
	}, nil
}

func (c *Controller) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}

const incompleteAlert = "Please select a protein for Protein 1, Protein 2, and Protein 3."

// AlertMessage is the user-facing text for a failed Submit.
func AlertMessage(err error) string {
	if errors.Is(err, ErrIncompleteSelection) {
		return incompleteAlert
	}
	return "Error submitting order: " + err.Error()
}
