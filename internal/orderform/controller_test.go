package orderform_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somramnani/hibachi-orders/internal/client"
	"github.com/somramnani/hibachi-orders/internal/enum"
	"github.com/somramnani/hibachi-orders/internal/menu"
	"github.com/somramnani/hibachi-orders/internal/orderform"
)

type mockSubmitter struct {
	calls    int
	last     client.SubmitOrderRequest
	submitFn func(ctx context.Context, req client.SubmitOrderRequest) (*client.SubmitOrderResponse, error)
}

func (m *mockSubmitter) SubmitOrder(ctx context.Context, req client.SubmitOrderRequest) (*client.SubmitOrderResponse, error) {
	m.calls++
	m.last = req
	return m.submitFn(ctx, req)
}

func accepting() *mockSubmitter {
	return &mockSubmitter{submitFn: func(_ context.Context, req client.SubmitOrderRequest) (*client.SubmitOrderResponse, error) {
		resp := &client.SubmitOrderResponse{Success: true, OrderID: "ORDER-1"}
		resp.Data.GuestName = req.GuestName
		resp.Data.SubmittedAt = "2026-03-14T23:30:00.000Z"
		return resp, nil
	}}
}

func newController(t *testing.T, s orderform.Submitter, mode string) *orderform.Controller {
	t.Helper()
	c, err := orderform.New(menu.MustDefault(), s, mode)
	require.NoError(t, err)
	return c
}

func fillSlots(t *testing.T, c *orderform.Controller, values ...string) {
	t.Helper()
	for i, v := range values {
		require.NoError(t, c.SetProteinSlot(i, v))
	}
}

func TestNewRejectsUnknownMode(t *testing.T) {
	_, err := orderform.New(menu.MustDefault(), accepting(), "buffet")
	assert.Error(t, err)

	c := newController(t, accepting(), "")
	assert.Equal(t, enum.SelectionSlots, c.Mode())
}

func TestEditField(t *testing.T) {
	c := newController(t, accepting(), enum.SelectionSlots)

	require.NoError(t, c.EditField(orderform.FieldGuestName, "Jane Doe"))
	require.NoError(t, c.EditField(orderform.FieldAdditionalNotes, "no onions"))
	assert.ErrorIs(t, c.EditField("dessert", "mochi"), orderform.ErrUnknownField)

	st := c.State()
	assert.Equal(t, "Jane Doe", st.GuestName)
	assert.Equal(t, "no onions", st.AdditionalNotes)
	assert.Equal(t, []string{"", "", ""}, st.Proteins)
}

func TestSlotsAllowDuplicatesAndPriceThem(t *testing.T) {
	c := newController(t, accepting(), enum.SelectionSlots)

	assert.Equal(t, "$60", menu.MustDefault().Format(c.LivePrice().Total))

	fillSlots(t, c, "filet-mignon", "filet-mignon", "lobster-tail")
	assert.Equal(t, "80", c.LivePrice().Total.String())
	assert.Len(t, c.LivePrice().Lines, 3)

	require.NoError(t, c.SetProteinSlot(1, "chicken"))
	assert.Equal(t, "75", c.LivePrice().Total.String())
	assert.Equal(t, c.LivePrice(), c.LivePrice())

	assert.ErrorIs(t, c.SetProteinSlot(3, "steak"), orderform.ErrSlotIndex)
	_, err := c.ToggleProtein("steak")
	assert.ErrorIs(t, err, orderform.ErrWrongSelectionMode)
}

func TestSetToggleOnThenOffRestoresState(t *testing.T) {
	c := newController(t, accepting(), enum.SelectionSet)

	_, err := c.ToggleProtein("chicken")
	require.NoError(t, err)
	before := c.State().Proteins

	selected, err := c.ToggleProtein("lobster-tail")
	require.NoError(t, err)
	assert.True(t, selected)
	assert.Len(t, c.State().Proteins, 2)

	selected, err = c.ToggleProtein("lobster-tail")
	require.NoError(t, err)
	assert.False(t, selected)
	assert.Equal(t, before, c.State().Proteins)

	empty := newController(t, accepting(), enum.SelectionSet)
	empty.ToggleProtein("steak")
	empty.ToggleProtein("steak")
	assert.Nil(t, empty.State().Proteins)
}

func TestSetCapsAtThree(t *testing.T) {
	c := newController(t, accepting(), enum.SelectionSet)
	for _, v := range []string{"chicken", "shrimp", "salmon"} {
		_, err := c.ToggleProtein(v)
		require.NoError(t, err)
	}

	assert.False(t, c.CanToggle("steak"))
	assert.True(t, c.CanToggle("shrimp"), "deselecting stays enabled")

	selected, err := c.ToggleProtein("steak")
	require.NoError(t, err)
	assert.False(t, selected)
	assert.Equal(t, []string{"chicken", "shrimp", "salmon"}, c.State().Proteins)

	assert.ErrorIs(t, c.SetProteinSlot(0, "steak"), orderform.ErrWrongSelectionMode)
}

func TestSetIgnoresEmptyValue(t *testing.T) {
	s := accepting()
	c := newController(t, s, enum.SelectionSet)

	for i := 0; i < 3; i++ {
		selected, err := c.ToggleProtein("")
		require.NoError(t, err)
		assert.False(t, selected)
	}
	assert.False(t, c.CanToggle(""))
	assert.Nil(t, c.State().Proteins)

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, orderform.ErrIncompleteSelection)
	assert.Zero(t, s.calls)
}

func TestSelectionHint(t *testing.T) {
	c := newController(t, accepting(), enum.SelectionSlots)
	assert.Equal(t, "Please select three protein options", c.SelectionHint())

	fillSlots(t, c, "chicken")
	assert.Equal(t, "Please select 2 more protein options", c.SelectionHint())

	fillSlots(t, c, "chicken", "steak")
	assert.Equal(t, "Please select 1 more protein option", c.SelectionHint())

	fillSlots(t, c, "chicken", "steak", "salmon")
	assert.Equal(t, "✓ Perfect! You've selected all three protein options", c.SelectionHint())
}

func TestSubmitIncompleteMakesNoCall(t *testing.T) {
	s := accepting()
	c := newController(t, s, enum.SelectionSlots)
	fillSlots(t, c, "chicken", "", "salmon")

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, orderform.ErrIncompleteSelection)
	assert.Equal(t, "three protein selections are required", err.Error())
	assert.Equal(t, "Please select a protein for Protein 1, Protein 2, and Protein 3.", orderform.AlertMessage(err))
	assert.Zero(t, s.calls)

	set := newController(t, s, enum.SelectionSet)
	set.ToggleProtein("chicken")
	_, err = set.Submit(context.Background())
	assert.ErrorIs(t, err, orderform.ErrIncompleteSelection)
	assert.Zero(t, s.calls)
}

func TestSubmitSuccessResetsForm(t *testing.T) {
	s := accepting()
	c := newController(t, s, enum.SelectionSlots)
	require.NoError(t, c.EditField(orderform.FieldGuestName, "Jane Doe"))
	fillSlots(t, c, "chicken", "steak", "lobster-tail")

	receipt, err := c.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, client.SubmitOrderRequest{
		GuestName: "Jane Doe",
		Proteins:  []string{"chicken", "steak", "lobster-tail"},
	}, s.last)
	assert.Equal(t, "ORDER-1", receipt.OrderID)
	assert.Equal(t, "Added to the order! Thanks for submitting Jane Doe.", receipt.Message)

	assert.Equal(t, orderform.FormState{Proteins: []string{"", "", ""}}, c.State())
	assert.Equal(t, orderform.Idle, c.Phase())
}

func TestSubmitFailureKeepsForm(t *testing.T) {
	s := &mockSubmitter{submitFn: func(context.Context, client.SubmitOrderRequest) (*client.SubmitOrderResponse, error) {
		return nil, &client.APIError{StatusCode: 400, Message: "guest name is required"}
	}}
	c := newController(t, s, enum.SelectionSet)
	for _, v := range []string{"chicken", "shrimp", "salmon"} {
		c.ToggleProtein(v)
	}
	before := c.State()

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Error submitting order: guest name is required", orderform.AlertMessage(err))
	assert.Equal(t, before, c.State())
	assert.Equal(t, orderform.Idle, c.Phase())
}

func TestSubmitRejectsReentry(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	s := &mockSubmitter{submitFn: func(context.Context, client.SubmitOrderRequest) (*client.SubmitOrderResponse, error) {
		close(started)
		<-release
		return nil, errors.New("connection reset")
	}}
	c := newController(t, s, enum.SelectionSlots)
	fillSlots(t, c, "chicken", "steak", "salmon")

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()

	<-started
	assert.Equal(t, orderform.Submitting, c.Phase())
	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, orderform.ErrSubmitInFlight)

	close(release)
	require.Error(t, <-done)
	assert.Equal(t, orderform.Idle, c.Phase())
	assert.Equal(t, 1, s.calls)
}
