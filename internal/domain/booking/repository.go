package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByNumber retrieves a booking by its human-readable booking number.
	FindByNumber(ctx context.Context, number string) (*Booking, error)

	// FindByClientID retrieves bookings belonging to a specific client with pagination.
	FindByClientID(ctx context.Context, clientID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindByAgentID retrieves bookings assigned to a specific agent with pagination.
	FindByAgentID(ctx context.Context, agentID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindOverlappingPending retrieves every pending booking for the unit whose
	// stay intersects the given period, excluding the booking identified by
	// excludeID.
	FindOverlappingPending(ctx context.Context, excludeID, unitID uuid.UUID, stay StayPeriod) ([]*Booking, error)

	// FindAll retrieves the full booking collection, newest first (admin).
	FindAll(ctx context.Context) ([]*Booking, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}
