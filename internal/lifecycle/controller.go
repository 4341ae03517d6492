package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stayhaven/service-rental/internal/domain"
	bookingDomain "github.com/stayhaven/service-rental/internal/domain/booking"
)

var (
	// ErrBusy is returned while another transition's remote calls are still
	// outstanding. Callers retry after the in-flight action settles.
	ErrBusy = errors.New("another booking action is in progress")

	// ErrConfirmationRequired is returned for a decline that was not
	// explicitly confirmed. Declining is irreversible from the admin's
	// perspective, so it is gated behind a confirmation step.
	ErrConfirmationRequired = errors.New("decline requires explicit confirmation")

	// ErrUnknownBooking is returned when the target booking is not in the
	// controller's current collection.
	ErrUnknownBooking = errors.New("booking not found in current view")
)

// transitionCommand retains the before and after copies of a booking for the
// duration of one remote round trip. Rollback restores previous by ID, so
// applying it more than once leaves the same state as applying it once.
type transitionCommand struct {
	previous BookingView
	next     BookingView
}

// ApplyOptions carries per-action modifiers for Controller.Apply.
type ApplyOptions struct {
	// DeclineConfirmed acknowledges the decline confirmation step. Apply
	// rejects a decline with ErrConfirmationRequired unless it is set.
	DeclineConfirmed bool
}

// Controller owns the admin console's in-memory booking collection and
// orchestrates status transitions against the remote gateway: optimistic
// update first, persistence second, rollback on failure. At most one
// transition is in flight at a time.
type Controller struct {
	gateway  Gateway
	notifier Notifier
	logger   *zap.Logger

	mu       sync.Mutex
	busy     bool
	views    []BookingView
	selected *uuid.UUID
}

// NewController creates a Controller with an empty collection. Call Refresh
// to load bookings before serving reads.
func NewController(gateway Gateway, notifier Notifier, logger *zap.Logger) *Controller {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Controller{
		gateway:  gateway,
		notifier: notifier,
		logger:   logger,
	}
}

// Refresh replaces the in-memory collection with the gateway's current state.
// A stale selection that no longer resolves to a booking is cleared.
func (c *Controller) Refresh(ctx context.Context) error {
	views, err := c.gateway.FetchAllBookings(ctx)
	if err != nil {
		return fmt.Errorf("refresh bookings: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.views = views
	if c.selected != nil && c.indexOfLocked(*c.selected) < 0 {
		c.selected = nil
	}
	return nil
}

// Bookings returns a copy of the current collection.
func (c *Controller) Bookings() []BookingView {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]BookingView, len(c.views))
	copy(out, c.views)
	return out
}

// Busy reports whether a transition's remote calls are outstanding.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Select opens the detail view for a booking in the current collection.
func (c *Controller) Select(bookingID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexOfLocked(bookingID) < 0 {
		return ErrUnknownBooking
	}
	id := bookingID
	c.selected = &id
	return nil
}

// ClearSelection closes the detail view.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
}

// Detail returns the currently selected booking, if any. The detail view
// always reflects the same copy as the list: optimistic updates and rollbacks
// land in both at once.
func (c *Controller) Detail() (BookingView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return BookingView{}, false
	}
	idx := c.indexOfLocked(*c.selected)
	if idx < 0 {
		return BookingView{}, false
	}
	return c.views[idx], true
}

// Apply runs one admin review action against a booking: approve, decline or
// confirm payment. The collection (and open detail view) updates to the
// target status before the gateway call settles, and a success notification
// fires immediately; if persistence, overlap resolution or the follow-up
// re-fetch fails, the pre-transition copy is restored and an error
// notification fires. The success notification is not retracted.
//
// Only one Apply may be in flight at a time; concurrent calls get ErrBusy.
func (c *Controller) Apply(ctx context.Context, bookingID uuid.UUID, action bookingDomain.Action, opts ApplyOptions) error {
	if !action.IsValid() {
		return domain.NewValidationError("unknown action: " + string(action))
	}
	if action == bookingDomain.ActionDecline && !opts.DeclineConfirmed {
		return ErrConfirmationRequired
	}

	cmd, err := c.begin(bookingID, action)
	if err != nil {
		return err
	}
	defer c.finish()

	c.notifier.Success(successMessage(action, cmd.next))

	if err := c.persist(ctx, cmd, action); err != nil {
		c.rollback(cmd)
		c.notifier.Error(errorMessage(action, cmd.previous))
		return err
	}
	return nil
}

// begin validates the precondition, marks the controller busy and applies the
// optimistic copy to the list and detail view.
func (c *Controller) begin(bookingID uuid.UUID, action bookingDomain.Action) (transitionCommand, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return transitionCommand{}, ErrBusy
	}

	idx := c.indexOfLocked(bookingID)
	if idx < 0 {
		return transitionCommand{}, ErrUnknownBooking
	}

	current := c.views[idx]
	if current.Status != action.RequiredStatus() {
		return transitionCommand{}, domain.NewInvalidStateError(string(current.Status), string(action.Target()))
	}

	next := current
	next.Status = action.Target()

	cmd := transitionCommand{previous: current, next: next}
	c.views[idx] = next
	c.busy = true
	return cmd, nil
}

func (c *Controller) finish() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

// persist runs the remote side of the transition. Approval additionally
// declines competing pending bookings for the same unit and dates, then
// reloads the collection so the resolver's effects are visible.
func (c *Controller) persist(ctx context.Context, cmd transitionCommand, action bookingDomain.Action) error {
	bk := cmd.next

	var err error
	if action == bookingDomain.ActionConfirmPayment {
		err = c.gateway.ConfirmPayment(ctx, bk.ID)
	} else {
		err = c.gateway.UpdateBookingStatus(ctx, bk.ID, action.Target())
	}
	if err != nil {
		return fmt.Errorf("persist %s for booking %s: %w", action, bk.Number, err)
	}

	if action != bookingDomain.ActionApprove {
		return nil
	}

	if err := c.gateway.DeclineOverlappingPendingBookings(ctx, bk.ID, bk.UnitID, bk.CheckIn, bk.CheckOut); err != nil {
		return fmt.Errorf("decline overlapping bookings for %s: %w", bk.Number, err)
	}

	views, err := c.gateway.FetchAllBookings(ctx)
	if err != nil {
		return fmt.Errorf("reload bookings after approving %s: %w", bk.Number, err)
	}

	c.mu.Lock()
	c.views = views
	c.mu.Unlock()
	return nil
}

// rollback restores the pre-transition copy wherever the booking still
// appears. Restoring by ID makes it idempotent: a second rollback of the
// same command is a no-op.
func (c *Controller) rollback(cmd transitionCommand) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOfLocked(cmd.previous.ID)
	if idx < 0 {
		return
	}
	c.views[idx] = cmd.previous
	c.logger.Info("rolled back optimistic booking update",
		zap.String("booking_number", cmd.previous.Number),
		zap.String("restored_status", string(cmd.previous.Status)))
}

func (c *Controller) indexOfLocked(bookingID uuid.UUID) int {
	for i := range c.views {
		if c.views[i].ID == bookingID {
			return i
		}
	}
	return -1
}

func successMessage(action bookingDomain.Action, bk BookingView) string {
	switch action {
	case bookingDomain.ActionApprove:
		return fmt.Sprintf("Booking %s approved", bk.Number)
	case bookingDomain.ActionDecline:
		return fmt.Sprintf("Booking %s declined", bk.Number)
	default:
		return fmt.Sprintf("Payment confirmed for booking %s", bk.Number)
	}
}

func errorMessage(action bookingDomain.Action, bk BookingView) string {
	switch action {
	case bookingDomain.ActionApprove:
		return fmt.Sprintf("Failed to approve booking %s", bk.Number)
	case bookingDomain.ActionDecline:
		return fmt.Sprintf("Failed to decline booking %s", bk.Number)
	default:
		return fmt.Sprintf("Failed to confirm payment for booking %s", bk.Number)
	}
}
