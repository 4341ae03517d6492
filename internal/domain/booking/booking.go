package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/stayhaven/service-rental/internal/domain"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for the booking domain. A booking is created
// in pending status by the client flow and only ever leaves it through the
// admin review transitions or a client cancellation. Terminal statuses are
// retained for history, never deleted.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	unitID        uuid.UUID
	clientID      uuid.UUID
	agentID       *uuid.UUID
	status        BookingStatus

	stay    StayPeriod
	guests  GuestCount
	client  ClientDetails
	special string

	totalCents int64
	currency   string

	paymentProofURL string
	cancelReason    string
	cancelledAt     *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateBookingNumber creates a booking number in the format "RB-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "RB-" + string(result), nil
}

// NewBooking creates a new Booking aggregate with status=pending.
func NewBooking(
	unitID, clientID uuid.UUID,
	agentID *uuid.UUID,
	stay StayPeriod,
	guests GuestCount,
	client ClientDetails,
	totalCents int64,
	currency string,
	specialRequest string,
) (*Booking, error) {
	if unitID == uuid.Nil {
		return nil, domain.NewValidationError("unit ID is required")
	}
	if clientID == uuid.Nil {
		return nil, domain.NewValidationError("client ID is required")
	}
	if !guests.IsValid() {
		return nil, domain.NewValidationError("guest counts are invalid")
	}
	if client.Name == "" {
		return nil, domain.NewValidationError("client name is required")
	}
	if totalCents <= 0 {
		return nil, domain.NewValidationError("total amount must be positive")
	}

	bookingNumber, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:            uuid.New(),
		bookingNumber: bookingNumber,
		unitID:        unitID,
		clientID:      clientID,
		agentID:       agentID,
		status:        StatusPending,
		stay:          stay,
		guests:        guests,
		client:        client,
		special:       specialRequest,
		totalCents:    totalCents,
		currency:      currency,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	bookingNumber string,
	unitID, clientID uuid.UUID,
	agentID *uuid.UUID,
	status BookingStatus,
	stay StayPeriod,
	guests GuestCount,
	client ClientDetails,
	specialRequest string,
	totalCents int64,
	currency string,
	paymentProofURL string,
	cancelReason string,
	cancelledAt *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		bookingNumber:   bookingNumber,
		unitID:          unitID,
		clientID:        clientID,
		agentID:         agentID,
		status:          status,
		stay:            stay,
		guests:          guests,
		client:          client,
		special:         specialRequest,
		totalCents:      totalCents,
		currency:        currency,
		paymentProofURL: paymentProofURL,
		cancelReason:    cancelReason,
		cancelledAt:     cancelledAt,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// UnitID returns the booked unit's identifier.
func (b *Booking) UnitID() uuid.UUID { return b.unitID }

// ClientID returns the requesting client's user ID.
func (b *Booking) ClientID() uuid.UUID { return b.clientID }

// AgentID returns the assigned agent's user ID, or nil if unassigned.
func (b *Booking) AgentID() *uuid.UUID { return b.agentID }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Stay returns the check-in/check-out period.
func (b *Booking) Stay() StayPeriod { return b.stay }

// Guests returns the guest counts.
func (b *Booking) Guests() GuestCount { return b.guests }

// Client returns the requester's denormalized display details.
func (b *Booking) Client() ClientDetails { return b.client }

// SpecialRequest returns the free-text special request.
func (b *Booking) SpecialRequest() string { return b.special }

// TotalCents returns the monetary total in cents.
func (b *Booking) TotalCents() int64 { return b.totalCents }

// Currency returns the currency code.
func (b *Booking) Currency() string { return b.currency }

// PaymentProofURL returns the uploaded proof-of-payment reference, if any.
func (b *Booking) PaymentProofURL() string { return b.paymentProofURL }

// CancelReason returns the cancellation reason.
func (b *Booking) CancelReason() string { return b.cancelReason }

// CancelledAt returns the time the booking was cancelled.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// Approve transitions the booking from pending to confirmed. The caller is
// responsible for declining competing pending bookings afterwards.
func (b *Booking) Approve() error {
	return b.transition(StatusConfirmed)
}

// Decline transitions the booking from pending to declined.
func (b *Booking) Decline() error {
	return b.transition(StatusDeclined)
}

// ConfirmPayment transitions the booking from confirmed to booked.
func (b *Booking) ConfirmPayment() error {
	return b.transition(StatusBooked)
}

// Apply performs the transition for the given admin action, rejecting it
// without mutating state when the current status does not satisfy the
// action's precondition.
func (b *Booking) Apply(action Action) error {
	if !action.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("unknown action: %s", action))
	}
	if b.status != action.RequiredStatus() {
		return domain.NewInvalidStateError(string(b.status), string(action.Target()))
	}
	return b.transition(action.Target())
}

// Cancel transitions the booking to cancelled if it is not in a terminal state.
func (b *Booking) Cancel(reason string) error {
	if err := b.transition(StatusCancelled); err != nil {
		return err
	}
	now := time.Now().UTC()
	b.cancelReason = reason
	b.cancelledAt = &now
	return nil
}

// Start transitions the booking from booked to ongoing on check-in day.
func (b *Booking) Start() error {
	return b.transition(StatusOngoing)
}

// Complete transitions the booking from ongoing to completed after check-out.
func (b *Booking) Complete() error {
	return b.transition(StatusCompleted)
}

func (b *Booking) transition(target BookingStatus) error {
	if !b.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(b.status), string(target))
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// AttachPaymentProof records the uploaded proof-of-payment reference.
func (b *Booking) AttachPaymentProof(url string) error {
	if url == "" {
		return domain.NewValidationError("payment proof URL is required")
	}
	b.paymentProofURL = url
	b.updatedAt = time.Now().UTC()
	return nil
}

// AssignAgent assigns the managing agent for the booking.
func (b *Booking) AssignAgent(agentID uuid.UUID) error {
	if agentID == uuid.Nil {
		return domain.NewValidationError("agent ID is required")
	}
	b.agentID = &agentID
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
