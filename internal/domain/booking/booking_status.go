package booking

import "fmt"

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusBooked    BookingStatus = "booked"
	StatusOngoing   BookingStatus = "ongoing"
	StatusCompleted BookingStatus = "completed"
	StatusDeclined  BookingStatus = "declined"
	StatusCancelled BookingStatus = "cancelled"
)

// validTransitions defines the state machine for booking status transitions.
// Admin review only ever drives pending->confirmed, pending->declined and
// confirmed->booked; ongoing and completed are reached by the stay calendar.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusDeclined, StatusCancelled},
	StatusConfirmed: {StatusBooked, StatusCancelled},
	StatusBooked:    {StatusOngoing},
	StatusOngoing:   {StatusCompleted},
	StatusCompleted: {},
	StatusDeclined:  {},
	StatusCancelled: {},
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}

// DisplayBucket is the coarser status taxonomy used for filtering and grouping.
// Several lifecycle statuses collapse into one bucket: booked, ongoing and
// completed all display as "booked"; declined and cancelled display as
// "declined".
type DisplayBucket string

const (
	BucketPending         DisplayBucket = "pending"
	BucketAwaitingPayment DisplayBucket = "awaiting_payment"
	BucketBooked          DisplayBucket = "booked"
	BucketDeclined        DisplayBucket = "declined"
)

// Bucket maps a lifecycle status to its display bucket.
func (s BookingStatus) Bucket() DisplayBucket {
	switch s {
	case StatusPending:
		return BucketPending
	case StatusConfirmed:
		return BucketAwaitingPayment
	case StatusBooked, StatusOngoing, StatusCompleted:
		return BucketBooked
	case StatusDeclined, StatusCancelled:
		return BucketDeclined
	}
	return BucketDeclined
}

// Priority returns the grouping precedence of the status when listing all
// bookings: pending first, then awaiting payment, booked, declined.
func (s BookingStatus) Priority() int {
	switch s.Bucket() {
	case BucketPending:
		return 1
	case BucketAwaitingPayment:
		return 2
	case BucketBooked:
		return 3
	default:
		return 4
	}
}

// Action identifies an admin review operation on a booking.
type Action string

const (
	ActionApprove        Action = "approve"
	ActionDecline        Action = "decline"
	ActionConfirmPayment Action = "confirm_payment"
)

// IsValid returns true if the action is recognized.
func (a Action) IsValid() bool {
	switch a {
	case ActionApprove, ActionDecline, ActionConfirmPayment:
		return true
	}
	return false
}

// RequiredStatus returns the status a booking must hold for the action to apply.
func (a Action) RequiredStatus() BookingStatus {
	switch a {
	case ActionApprove, ActionDecline:
		return StatusPending
	case ActionConfirmPayment:
		return StatusConfirmed
	}
	return ""
}

// Target returns the status the action transitions a booking into.
func (a Action) Target() BookingStatus {
	switch a {
	case ActionApprove:
		return StatusConfirmed
	case ActionDecline:
		return StatusDeclined
	case ActionConfirmPayment:
		return StatusBooked
	}
	return ""
}

// ParseAction converts a string to an Action, returning an error if invalid.
func ParseAction(s string) (Action, error) {
	action := Action(s)
	if !action.IsValid() {
		return "", fmt.Errorf("invalid booking action: %s", s)
	}
	return action, nil
}
