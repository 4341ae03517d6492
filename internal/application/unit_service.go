package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stayhaven/service-rental/internal/domain"
	unitDomain "github.com/stayhaven/service-rental/internal/domain/unit"
)

// CreateUnitRequest is the request DTO for creating a unit listing.
type CreateUnitRequest struct {
	Title              string `json:"title" binding:"required"`
	Location           string `json:"location" binding:"required"`
	Description        string `json:"description"`
	NightlyRateCents   int64  `json:"nightly_rate_cents" binding:"required"`
	ExtraGuestFeeCents int64  `json:"extra_guest_fee_cents"`
	BaseGuests         int    `json:"base_guests" binding:"required"`
	MaxGuests          int    `json:"max_guests" binding:"required"`
}

// UpdateUnitRequest is the request DTO for updating a unit listing.
type UpdateUnitRequest struct {
	Title              string `json:"title"`
	Location           string `json:"location"`
	Description        string `json:"description"`
	NightlyRateCents   int64  `json:"nightly_rate_cents"`
	ExtraGuestFeeCents int64  `json:"extra_guest_fee_cents"`
	BaseGuests         int    `json:"base_guests"`
	MaxGuests          int    `json:"max_guests"`
}

// UnitDTO is the API response representation of a unit listing.
type UnitDTO struct {
	ID                 uuid.UUID `json:"id"`
	AgentID            uuid.UUID `json:"agent_id"`
	Title              string    `json:"title"`
	Location           string    `json:"location"`
	Description        string    `json:"description,omitempty"`
	NightlyRateCents   int64     `json:"nightly_rate_cents"`
	ExtraGuestFeeCents int64     `json:"extra_guest_fee_cents"`
	BaseGuests         int       `json:"base_guests"`
	MaxGuests          int       `json:"max_guests"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// UnitService implements use cases for unit listing management.
type UnitService struct {
	repo   unitDomain.UnitRepository
	logger *zap.Logger
}

// NewUnitService creates a new UnitService.
func NewUnitService(repo unitDomain.UnitRepository, logger *zap.Logger) *UnitService {
	return &UnitService{repo: repo, logger: logger}
}

// CreateUnit creates a new unit listing managed by the given agent.
func (s *UnitService) CreateUnit(ctx context.Context, agentID uuid.UUID, req CreateUnitRequest) (*UnitDTO, error) {
	u, err := unitDomain.NewUnit(
		agentID,
		req.Title, req.Location, req.Description,
		req.NightlyRateCents, req.ExtraGuestFeeCents,
		req.BaseGuests, req.MaxGuests,
	)
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid unit data: %v", err))
	}

	if err := s.repo.Save(ctx, u); err != nil {
		s.logger.Error("failed to create unit", zap.Error(err))
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}

	s.logger.Info("unit listing created",
		zap.String("unit_id", u.ID().String()),
		zap.String("agent_id", agentID.String()),
	)
	result := toUnitDTO(u)
	return &result, nil
}

// GetMyUnits returns all unit listings managed by the given agent.
func (s *UnitService) GetMyUnits(ctx context.Context, agentID uuid.UUID) ([]UnitDTO, error) {
	units, err := s.repo.FindByAgentID(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get units: %w", err)
	}
	dtos := make([]UnitDTO, len(units))
	for i, u := range units {
		dtos[i] = toUnitDTO(u)
	}
	return dtos, nil
}

// GetUnit returns a single unit listing by ID.
func (s *UnitService) GetUnit(ctx context.Context, unitID uuid.UUID) (*UnitDTO, error) {
	u, err := s.repo.FindByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	result := toUnitDTO(u)
	return &result, nil
}

// UpdateUnit updates a unit listing, verifying the agent manages it.
func (s *UnitService) UpdateUnit(ctx context.Context, agentID, unitID uuid.UUID, req UpdateUnitRequest) (*UnitDTO, error) {
	u, err := s.repo.FindByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if !u.IsManagedBy(agentID) {
		return nil, domain.NewForbiddenError("you do not manage this unit")
	}

	u.Update(
		req.Title, req.Location, req.Description,
		req.NightlyRateCents, req.ExtraGuestFeeCents,
		req.BaseGuests, req.MaxGuests,
	)

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("failed to update unit", zap.Error(err))
		return nil, fmt.Errorf("failed to update unit: %w", err)
	}

	s.logger.Info("unit listing updated", zap.String("unit_id", unitID.String()))
	result := toUnitDTO(u)
	return &result, nil
}

// ArchiveUnit archives a unit listing, verifying the agent manages it.
func (s *UnitService) ArchiveUnit(ctx context.Context, agentID, unitID uuid.UUID) error {
	u, err := s.repo.FindByID(ctx, unitID)
	if err != nil {
		return err
	}
	if !u.IsManagedBy(agentID) {
		return domain.NewForbiddenError("you do not manage this unit")
	}

	u.Archive()
	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("failed to archive unit", zap.Error(err))
		return fmt.Errorf("failed to archive unit: %w", err)
	}

	s.logger.Info("unit listing archived", zap.String("unit_id", unitID.String()))
	return nil
}

func toUnitDTO(u *unitDomain.Unit) UnitDTO {
	return UnitDTO{
		ID:                 u.ID(),
		AgentID:            u.AgentID(),
		Title:              u.Title(),
		Location:           u.Location(),
		Description:        u.Description(),
		NightlyRateCents:   u.NightlyRateCents(),
		ExtraGuestFeeCents: u.ExtraGuestFeeCents(),
		BaseGuests:         u.BaseGuests(),
		MaxGuests:          u.MaxGuests(),
		Status:             string(u.Status()),
		CreatedAt:          u.CreatedAt(),
		UpdatedAt:          u.UpdatedAt(),
	}
}
