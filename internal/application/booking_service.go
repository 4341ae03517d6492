package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/stayhaven/service-rental/internal/domain"
	bookingDomain "github.com/stayhaven/service-rental/internal/domain/booking"
	unitDomain "github.com/stayhaven/service-rental/internal/domain/unit"
	"github.com/stayhaven/service-rental/internal/events"
	"github.com/stayhaven/service-rental/internal/kafka"
)

const dateLayout = "2006-01-02"

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	UnitID         uuid.UUID `json:"unit_id" binding:"required"`
	CheckIn        string    `json:"check_in" binding:"required"`
	CheckOut       string    `json:"check_out" binding:"required"`
	GuestsBase     int       `json:"guests_base" binding:"required"`
	GuestsExtra    int       `json:"guests_extra"`
	ClientName     string    `json:"client_name" binding:"required"`
	ClientContact  string    `json:"client_contact"`
	SpecialRequest string    `json:"special_request"`
}

// UnitSummary is the denormalized unit info carried on booking responses.
type UnitSummary struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Location string    `json:"location"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID              uuid.UUID                   `json:"id"`
	BookingNumber   string                      `json:"booking_number"`
	UnitID          uuid.UUID                   `json:"unit_id"`
	Unit            *UnitSummary                `json:"unit,omitempty"`
	ClientID        uuid.UUID                   `json:"client_id"`
	ClientName      string                      `json:"client_name"`
	ClientContact   string                      `json:"client_contact,omitempty"`
	AgentID         *uuid.UUID                  `json:"agent_id,omitempty"`
	Status          bookingDomain.BookingStatus `json:"status"`
	CheckIn         time.Time                   `json:"check_in"`
	CheckOut        time.Time                   `json:"check_out"`
	GuestsBase      int                         `json:"guests_base"`
	GuestsExtra     int                         `json:"guests_extra"`
	TotalCents      int64                       `json:"total_cents"`
	Currency        string                      `json:"currency"`
	SpecialRequest  string                      `json:"special_request,omitempty"`
	PaymentProofURL string                      `json:"payment_proof_url,omitempty"`
	CancelReason    string                      `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// BookingService is the application service orchestrating booking use cases.
/// It is also the mutation gateway the admin lifecycle controller drives:
// UpdateBookingStatus, ConfirmPayment and DeclineOverlappingPendingBookings
// map one-to-one onto the remote operations the admin console invokes.
type BookingService struct {
	repo     bookingDomain.BookingRepository
	units    unitDomain.UnitRepository
	pricing  bookingDomain.PricingStrategy
	producer *kafka.Producer
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	units unitDomain.UnitRepository,
	pricing bookingDomain.PricingStrategy,
	producer *kafka.Producer,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		units:    units,
		pricing:  pricing,
		producer: producer,
		logger:   logger,
	}
}

// CreateBooking creates a new pending booking for the given client.
func (s *BookingService) CreateBooking(ctx context.Context, clientID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	stay, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	u, err := s.units.FindByID(ctx, req.UnitID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive() {
		return nil, domain.NewValidationError("unit is not available for booking")
	}

	guests := bookingDomain.GuestCount{Base: req.GuestsBase, Extra: req.GuestsExtra}
	if guests.Total() > u.MaxGuests() {
		return nil, domain.NewValidationError(
			fmt.Sprintf("unit accommodates at most %d guests", u.MaxGuests()))
	}

	totalCents, err := s.pricing.Calculate(bookingDomain.PricingParams{
		NightlyRateCents:   u.NightlyRateCents(),
		ExtraGuestFeeCents: u.ExtraGuestFeeCents(),
		Nights:             stay.Nights(),
		ExtraGuests:        guests.Extra,
	})
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("pricing error: %v", err))
	}

	agentID := u.AgentID()
	bk, err := bookingDomain.NewBooking(
		u.ID(),
		clientID,
		&agentID,
		stay,
		guests,
		bookingDomain.ClientDetails{Name: req.ClientName, Contact: req.ClientContact},
		totalCents,
		"USD",
		req.SpecialRequest,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingRequested, events.BookingRequestedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		UnitID:        bk.UnitID(),
		ClientID:      bk.ClientID(),
		CheckIn:       stay.CheckIn,
		CheckOut:      stay.CheckOut,
		TotalCents:    bk.TotalCents(),
		Currency:      bk.Currency(),
		OccurredAt:    time.Now().UTC(),
	})

	result := s.toDTO(bk, u)
	return &result, nil
}

// UpdateBookingStatus persists an admin-driven status change. The transition
// is validated against the booking's current status; violations are rejected
// without mutating anything.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, newStatus bookingDomain.BookingStatus) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	from := bk.Status()

	switch newStatus {
	case bookingDomain.StatusConfirmed:
		err = bk.Approve()
	case bookingDomain.StatusDeclined:
		err = bk.Decline()
	case bookingDomain.StatusBooked:
		err = bk.ConfirmPayment()
	case bookingDomain.StatusCancelled:
		err = bk.Cancel("")
	default:
		err = domain.NewInvalidStateError(string(from), string(newStatus))
	}
	if err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	eventType := events.BookingApproved
	if newStatus == bookingDomain.StatusDeclined {
		eventType = events.BookingDeclined
	}
	s.publishStatusChanged(ctx, eventType, bk, from)

	result := s.toDTO(bk, nil)
	return &result, nil
}

// ConfirmPayment transitions a confirmed booking to booked. It is kept as a
// distinct operation because payment confirmation carries its own event.
func (s *BookingService) ConfirmPayment(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	from := bk.Status()

	if err := bk.ConfirmPayment(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishStatusChanged(ctx, events.BookingPaymentConfirmed, bk, from)

	result := s.toDTO(bk, nil)
	return &result, nil
}

// DeclineOverlappingPendingBookings declines every other pending booking for
// the unit whose stay intersects the given period. The batch is best effort:
// every candidate is attempted and individual failures are accumulated rather
// than aborting the sweep. There is no compensating transaction for a partial
// failure; the caller re-fetches afterwards to observe the effect.
func (s *BookingService) DeclineOverlappingPendingBookings(ctx context.Context, excludeID, unitID uuid.UUID, checkIn, checkOut time.Time) error {
	stay, err := bookingDomain.NewStayPeriod(checkIn, checkOut)
	if err != nil {
		return domain.NewValidationError(err.Error())
	}

	candidates, err := s.repo.FindOverlappingPending(ctx, excludeID, unitID, stay)
	if err != nil {
		return fmt.Errorf("failed to resolve overlapping bookings: %w", err)
	}

	var errs error
	declined := 0
	for _, bk := range candidates {
		from := bk.Status()
		if err := bk.Decline(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("booking %s: %w", bk.ID(), err))
			continue
		}
		bk.IncrementVersion()
		if err := s.repo.Update(ctx, bk); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("booking %s: %w", bk.ID(), err))
			continue
		}
		declined++
		s.publishStatusChanged(ctx, events.BookingDeclined, bk, from)
	}

	s.logger.Info("overlap resolution finished",
		zap.String("unit_id", unitID.String()),
		zap.Int("candidates", len(candidates)),
		zap.Int("declined", declined),
	)
	return errs
}

// CancelBooking cancels a booking that is not yet in a terminal state.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, cancelledBy uuid.UUID, reason string) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.ClientID() != cancelledBy {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}

	if err := bk.Cancel(reason); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCancelled, events.BookingCancelledEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		CancelledBy:   cancelledBy,
		Reason:        reason,
		OccurredAt:    time.Now().UTC(),
	})

	result := s.toDTO(bk, nil)
	return &result, nil
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	dtos, err := s.withUnitSummaries(ctx, []*bookingDomain.Booking{bk})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// GetClientBookings retrieves paginated bookings for a specific client.
func (s *BookingService) GetClientBookings(ctx context.Context, clientID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.FindByClientID(ctx, clientID, page, limit)
	if err != nil {
		return nil, err
	}
	dtos, err := s.withUnitSummaries(ctx, bookings)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetAgentBookings retrieves paginated bookings for a specific agent.
func (s *BookingService) GetAgentBookings(ctx context.Context, agentID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.FindByAgentID(ctx, agentID, page, limit)
	if err != nil {
		return nil, err
	}
	dtos, err := s.withUnitSummaries(ctx, bookings)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// FetchAllBookings returns the full booking collection with unit summaries,
// newest first. This backs the admin console's in-memory snapshot.
func (s *BookingService) FetchAllBookings(ctx context.Context) ([]BookingDTO, error) {
	bookings, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	return s.withUnitSummaries(ctx, bookings)
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	dtos, err := s.withUnitSummaries(ctx, bookings)
	if err != nil {
		return nil, 0, err
	}
	return dtos, total, nil
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
	ByBucket      map[string]int64 `json:"by_bucket"`
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	buckets := make(map[string]int64)
	for status, c := range counts {
		total += c
		if parsed, err := bookingDomain.ParseBookingStatus(status); err == nil {
			buckets[string(parsed.Bucket())] += c
		}
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
		ByBucket:      buckets,
	}, nil
}

// --- Helpers ---

func parseStay(checkIn, checkOut string) (bookingDomain.StayPeriod, error) {
	in, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return bookingDomain.StayPeriod{}, domain.NewValidationError("check_in must be a YYYY-MM-DD date")
	}
	out, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return bookingDomain.StayPeriod{}, domain.NewValidationError("check_out must be a YYYY-MM-DD date")
	}
	stay, err := bookingDomain.NewStayPeriod(in, out)
	if err != nil {
		return bookingDomain.StayPeriod{}, domain.NewValidationError(err.Error())
	}
	return stay, nil
}

func (s *BookingService) withUnitSummaries(ctx context.Context, bookings []*bookingDomain.Booking) ([]BookingDTO, error) {
	ids := make([]uuid.UUID, 0, len(bookings))
	seen := make(map[uuid.UUID]struct{}, len(bookings))
	for _, bk := range bookings {
		if _, ok := seen[bk.UnitID()]; !ok {
			seen[bk.UnitID()] = struct{}{}
			ids = append(ids, bk.UnitID())
		}
	}

	units, err := s.units.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = s.toDTO(bk, units[bk.UnitID()])
	}
	return dtos, nil
}

func (s *BookingService) toDTO(bk *bookingDomain.Booking, u *unitDomain.Unit) BookingDTO {
	dto := BookingDTO{
		ID:              bk.ID(),
		BookingNumber:   bk.BookingNumber(),
		UnitID:          bk.UnitID(),
		ClientID:        bk.ClientID(),
		ClientName:      bk.Client().Name,
		ClientContact:   bk.Client().Contact,
		AgentID:         bk.AgentID(),
		Status:          bk.Status(),
		CheckIn:         bk.Stay().CheckIn,
		CheckOut:        bk.Stay().CheckOut,
		GuestsBase:      bk.Guests().Base,
		GuestsExtra:     bk.Guests().Extra,
		TotalCents:      bk.TotalCents(),
		Currency:        bk.Currency(),
		SpecialRequest:  bk.SpecialRequest(),
		PaymentProofURL: bk.PaymentProofURL(),
		CancelReason:    bk.CancelReason(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
	if u != nil {
		dto.Unit = &UnitSummary{ID: u.ID(), Title: u.Title(), Location: u.Location()}
	}
	return dto
}

func (s *BookingService) publishStatusChanged(ctx context.Context, eventType string, bk *bookingDomain.Booking, from bookingDomain.BookingStatus) {
	s.publishEvent(ctx, events.TopicBookingEvents, eventType, events.BookingStatusChangedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		UnitID:        bk.UnitID(),
		ClientID:      bk.ClientID(),
		FromStatus:    string(from),
		ToStatus:      string(bk.Status()),
		OccurredAt:    time.Now().UTC(),
	})
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	if s.producer == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent("service-rental", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
