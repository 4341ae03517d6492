package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stayhaven/service-rental/internal/domain"
	unitDomain "github.com/stayhaven/service-rental/internal/domain/unit"
)

// UnitModel is the GORM model for the units table.
type UnitModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	AgentID            uuid.UUID `gorm:"type:uuid;index;not null"`
	Title              string    `gorm:"not null;size:200"`
	Location           string    `gorm:"not null;size:300"`
	Description        string    `gorm:"type:text"`
	NightlyRateCents   int64     `gorm:"not null"`
	ExtraGuestFeeCents int64     `gorm:"not null;default:0"`
	BaseGuests         int       `gorm:"not null;default:1"`
	MaxGuests          int       `gorm:"not null;default:1"`
	Status             string    `gorm:"not null;size:20;index"`
	Version            int64     `gorm:"not null;default:1"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (UnitModel) TableName() string { return "units" }

// GormUnitRepository implements UnitRepository using GORM.
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository.
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByID retrieves a unit by its unique identifier.
func (r *GormUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*unitDomain.Unit, error) {
	var model UnitModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Unit", id.String())
		}
		return nil, fmt.Errorf("failed to find unit by ID: %w", err)
	}
	return toDomainUnit(&model), nil
}

// FindByIDs retrieves a batch of units keyed by their identifiers.
func (r *GormUnitRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*unitDomain.Unit, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*unitDomain.Unit{}, nil
	}

	var models []UnitModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find units by IDs: %w", err)
	}

	units := make(map[uuid.UUID]*unitDomain.Unit, len(models))
	for i := range models {
		units[models[i].ID] = toDomainUnit(&models[i])
	}
	return units, nil
}

// FindByAgentID retrieves all units managed by the given agent.
func (r *GormUnitRepository) FindByAgentID(ctx context.Context, agentID uuid.UUID) ([]*unitDomain.Unit, error) {
	var models []UnitModel
	if err := r.db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find units by agent: %w", err)
	}

	units := make([]*unitDomain.Unit, len(models))
	for i := range models {
		units[i] = toDomainUnit(&models[i])
	}
	return units, nil
}

// Save persists a new unit.
func (r *GormUnitRepository) Save(ctx context.Context, u *unitDomain.Unit) error {
	model := toUnitModel(u)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save unit: %w", err)
	}
	return nil
}

// Update persists changes to an existing unit with optimistic locking.
func (r *GormUnitRepository) Update(ctx context.Context, u *unitDomain.Unit) error {
	model := toUnitModel(u)

	expectedVersion := u.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&UnitModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"title":                 model.Title,
			"location":              model.Location,
			"description":           model.Description,
			"nightly_rate_cents":    model.NightlyRateCents,
			"extra_guest_fee_cents": model.ExtraGuestFeeCents,
			"base_guests":           model.BaseGuests,
			"max_guests":            model.MaxGuests,
			"status":                model.Status,
			"version":               model.Version,
			"updated_at":            model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update unit: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("unit was modified by another transaction")
	}
	return nil
}

func toUnitModel(u *unitDomain.Unit) UnitModel {
	return UnitModel{
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
		Version:            u.Version(),
		CreatedAt:          u.CreatedAt(),
		UpdatedAt:          u.UpdatedAt(),
	}
}

func toDomainUnit(m *UnitModel) *unitDomain.Unit {
	return unitDomain.Reconstruct(
		m.ID,
		m.AgentID,
		m.Title,
		m.Location,
		m.Description,
		m.NightlyRateCents,
		m.ExtraGuestFeeCents,
		m.BaseGuests,
		m.MaxGuests,
		unitDomain.UnitStatus(m.Status),
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
