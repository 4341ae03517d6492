package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Event types.
const (
	BookingRequested        = "booking.requested"
	BookingApproved         = "booking.approved"
	BookingDeclined         = "booking.declined"
	BookingPaymentConfirmed = "booking.payment_confirmed"
	BookingCancelled        = "booking.cancelled"
	PaymentVerified         = "payment.verified"
)

// BookingRequestedEvent is published when a client submits a booking request.
type BookingRequestedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	UnitID        uuid.UUID `json:"unit_id"`
	ClientID      uuid.UUID `json:"client_id"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	TotalCents    int64     `json:"total_cents"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent is published for every admin-driven transition.
type BookingStatusChangedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	UnitID        uuid.UUID `json:"unit_id"`
	ClientID      uuid.UUID `json:"client_id"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published when a client cancels a booking.
type BookingCancelledEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	CancelledBy   uuid.UUID `json:"cancelled_by"`
	Reason        string    `json:"reason"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PaymentVerifiedEvent is consumed from the payment service when a transfer
// has been verified against an uploaded proof.
type PaymentVerifiedEvent struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	BookingID   uuid.UUID `json:"booking_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	VerifiedBy  uuid.UUID `json:"verified_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
