package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stayhaven/service-rental/internal/application"
	bookingDomain "github.com/stayhaven/service-rental/internal/domain/booking"
)

// BookingView is the admin console's in-memory representation of a booking.
// It is a plain value: transitions produce new copies, never in-place edits,
// so a pre-transition copy stays valid as a rollback target.
type BookingView struct {
	ID              uuid.UUID
	Number          string
	UnitID          uuid.UUID
	UnitTitle       string
	UnitLocation    string
	ClientName      string
	ClientContact   string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	TotalCents      int64
	Currency        string
	SpecialRequest  string
	PaymentProofURL string
	Status          bookingDomain.BookingStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Gateway is the remote mutation surface the admin console drives. Every
// operation either succeeds or returns an error the controller can react to;
// there is no partial success at this boundary.
type Gateway interface {
	// FetchAllBookings returns the full current booking collection with
	// denormalized unit and client summaries.
	FetchAllBookings(ctx context.Context) ([]BookingView, error)

	// UpdateBookingStatus persists a status change for the booking.
	UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, newStatus bookingDomain.BookingStatus) error

	// ConfirmPayment persists the confirmed->booked transition. Kept distinct
	// from UpdateBookingStatus because payment confirmation carries extra
	// side effects at the remote boundary.
	ConfirmPayment(ctx context.Context, bookingID uuid.UUID) error

	// DeclineOverlappingPendingBookings declines every other pending booking
	// for the unit whose stay intersects the given range.
	DeclineOverlappingPendingBookings(ctx context.Context, excludeBookingID, unitID uuid.UUID, checkIn, checkOut time.Time) error
}

// ServiceGateway adapts the booking application service to the Gateway
// interface consumed by the admin console.
type ServiceGateway struct {
	service *application.BookingService
}

// NewServiceGateway creates a ServiceGateway over the booking service.
func NewServiceGateway(service *application.BookingService) *ServiceGateway {
	return &ServiceGateway{service: service}
}

// FetchAllBookings implements Gateway.
func (g *ServiceGateway) FetchAllBookings(ctx context.Context) ([]BookingView, error) {
	dtos, err := g.service.FetchAllBookings(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]BookingView, len(dtos))
	for i, dto := range dtos {
		views[i] = toBookingView(dto)
	}
	return views, nil
}

// UpdateBookingStatus implements Gateway.
func (g *ServiceGateway) UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, newStatus bookingDomain.BookingStatus) error {
	_, err := g.service.UpdateBookingStatus(ctx, bookingID, newStatus)
	return err
}

// ConfirmPayment implements Gateway.
func (g *ServiceGateway) ConfirmPayment(ctx context.Context, bookingID uuid.UUID) error {
	_, err := g.service.ConfirmPayment(ctx, bookingID)
	return err
}

// DeclineOverlappingPendingBookings implements Gateway.
func (g *ServiceGateway) DeclineOverlappingPendingBookings(ctx context.Context, excludeBookingID, unitID uuid.UUID, checkIn, checkOut time.Time) error {
	return g.service.DeclineOverlappingPendingBookings(ctx, excludeBookingID, unitID, checkIn, checkOut)
}

func toBookingView(dto application.BookingDTO) BookingView {
	view := BookingView{
		ID:              dto.ID,
		Number:          dto.BookingNumber,
		UnitID:          dto.UnitID,
		ClientName:      dto.ClientName,
		ClientContact:   dto.ClientContact,
		CheckIn:         dto.CheckIn,
		CheckOut:        dto.CheckOut,
		Guests:          dto.GuestsBase + dto.GuestsExtra,
		TotalCents:      dto.TotalCents,
		Currency:        dto.Currency,
		SpecialRequest:  dto.SpecialRequest,
		PaymentProofURL: dto.PaymentProofURL,
		Status:          dto.Status,
		CreatedAt:       dto.CreatedAt,
		UpdatedAt:       dto.UpdatedAt,
	}
	if dto.Unit != nil {
		view.UnitTitle = dto.Unit.Title
		view.UnitLocation = dto.Unit.Location
	}
	return view
}
