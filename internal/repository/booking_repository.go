package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stayhaven/service-rental/internal/domain"
	bookingDomain "github.com/stayhaven/service-rental/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BookingNumber   string     `gorm:"uniqueIndex;not null;size:20"`
	UnitID          uuid.UUID  `gorm:"type:uuid;index;not null"`
	ClientID        uuid.UUID  `gorm:"type:uuid;index;not null"`
	AgentID         *uuid.UUID `gorm:"type:uuid;index"`
	Status          string     `gorm:"not null;size:30;index"`
	CheckIn         time.Time  `gorm:"type:date;not null;index"`
	CheckOut        time.Time  `gorm:"type:date;not null"`
	GuestsBase      int        `gorm:"not null;default:1"`
	GuestsExtra     int        `gorm:"not null;default:0"`
	ClientName      string     `gorm:"not null;size:200"`
	ClientContact   string     `gorm:"size:200"`
	SpecialRequest  string     `gorm:"size:1000"`
	TotalCents      int64      `gorm:"not null"`
	Currency        string     `gorm:"not null;size:3;default:'USD'"`
	PaymentProofURL string     `gorm:"size:500"`
	CancelReason    string     `gorm:"size:500"`
	CancelledAt     *time.Time `gorm:""`
	Version         int64      `gorm:"not null;default:1"`
	CreatedAt       time.Time  `gorm:"not null"`
	UpdatedAt       time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByNumber retrieves a booking by its booking number.
func (r *GormBookingRepository) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("booking_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", number)
		}
		return nil, fmt.Errorf("failed to find booking by number: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByClientID retrieves bookings for a specific client with pagination.
func (r *GormBookingRepository) FindByClientID(ctx context.Context, clientID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPaged(ctx, "client_id = ?", clientID, page, limit)
}

// FindByAgentID retrieves bookings for a specific agent with pagination.
func (r *GormBookingRepository) FindByAgentID(ctx context.Context, agentID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPaged(ctx, "agent_id = ?", agentID, page, limit)
}

func (r *GormBookingRepository) findPaged(ctx context.Context, cond string, arg interface{}, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where(cond, arg).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// FindOverlappingPending retrieves every other pending booking for the unit
// whose stay intersects the given period. The interval test is closed on both
// ends: other.check_in <= stay.check_out AND other.check_out >= stay.check_in.
func (r *GormBookingRepository) FindOverlappingPending(ctx context.Context, excludeID, unitID uuid.UUID, stay bookingDomain.StayPeriod) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("unit_id = ? AND status = ? AND id <> ?", unitID, string(bookingDomain.StatusPending), excludeID).
		Where("check_in <= ? AND check_out >= ?", stay.CheckOut, stay.CheckIn).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find overlapping pending bookings: %w", err)
	}
	return toDomainBookings(models)
}

// FindAll retrieves the full booking collection, newest first (admin).
func (r *GormBookingRepository) FindAll(ctx context.Context) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	return toDomainBookings(models)
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// The aggregate's version was already incremented; only update the row if
	// it still carries the previous version.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"agent_id":          model.AgentID,
			"status":            model.Status,
			"check_in":          model.CheckIn,
			"check_out":         model.CheckOut,
			"guests_base":       model.GuestsBase,
			"guests_extra":      model.GuestsExtra,
			"client_name":       model.ClientName,
			"client_contact":    model.ClientContact,
			"special_request":   model.SpecialRequest,
			"total_cents":       model.TotalCents,
			"currency":          model.Currency,
			"payment_proof_url": model.PaymentProofURL,
			"cancel_reason":     model.CancelReason,
			"cancelled_at":      model.CancelledAt,
			"version":           model.Version,
			"updated_at":        model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) BookingModel {
	return BookingModel{
		ID:              bk.ID(),
		BookingNumber:   bk.BookingNumber(),
		UnitID:          bk.UnitID(),
		ClientID:        bk.ClientID(),
		AgentID:         bk.AgentID(),
		Status:          string(bk.Status()),
		CheckIn:         bk.Stay().CheckIn,
		CheckOut:        bk.Stay().CheckOut,
		GuestsBase:      bk.Guests().Base,
		GuestsExtra:     bk.Guests().Extra,
		ClientName:      bk.Client().Name,
		ClientContact:   bk.Client().Contact,
		SpecialRequest:  bk.SpecialRequest(),
		TotalCents:      bk.TotalCents(),
		Currency:        bk.Currency(),
		PaymentProofURL: bk.PaymentProofURL(),
		CancelReason:    bk.CancelReason(),
		CancelledAt:     bk.CancelledAt(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	stay, err := bookingDomain.NewStayPeriod(m.CheckIn, m.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("stored stay period is invalid: %w", err)
	}

	return bookingDomain.Reconstruct(
		m.ID,
		m.BookingNumber,
		m.UnitID,
		m.ClientID,
		m.AgentID,
		status,
		stay,
		bookingDomain.GuestCount{Base: m.GuestsBase, Extra: m.GuestsExtra},
		bookingDomain.ClientDetails{Name: m.ClientName, Contact: m.ClientContact},
		m.SpecialRequest,
		m.TotalCents,
		m.Currency,
		m.PaymentProofURL,
		m.CancelReason,
		m.CancelledAt,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
