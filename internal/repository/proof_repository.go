package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	proofDomain "github.com/stayhaven/service-rental/internal/domain/proof"
)

// ProofModel is the GORM model for the payment_proofs table.
type ProofModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID  uuid.UUID `gorm:"type:uuid;not null;index"`
	UploaderID uuid.UUID `gorm:"type:uuid;not null"`
	FileURL    string    `gorm:"type:text;not null"`
	Note       string    `gorm:"type:text"`
	UploadedAt time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (ProofModel) TableName() string { return "payment_proofs" }

// GormProofRepository implements ProofRepository using GORM.
type GormProofRepository struct {
	db *gorm.DB
}

// NewGormProofRepository creates a new GormProofRepository.
func NewGormProofRepository(db *gorm.DB) *GormProofRepository {
	return &GormProofRepository{db: db}
}

// Save persists a new payment proof.
func (r *GormProofRepository) Save(ctx context.Context, p *proofDomain.PaymentProof) error {
	model := toProofModel(p)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindByBookingID returns all proofs for a booking, oldest first.
func (r *GormProofRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*proofDomain.PaymentProof, error) {
	var models []ProofModel
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).Order("uploaded_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	proofs := make([]*proofDomain.PaymentProof, len(models))
	for i, m := range models {
		proofs[i] = toProofDomain(&m)
	}
	return proofs, nil
}

// FindByID returns a single proof by ID.
func (r *GormProofRepository) FindByID(ctx context.Context, id uuid.UUID) (*proofDomain.PaymentProof, error) {
	var model ProofModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, err
	}
	return toProofDomain(&model), nil
}

func toProofModel(p *proofDomain.PaymentProof) ProofModel {
	return ProofModel{
		ID:         p.ID(),
		BookingID:  p.BookingID(),
		UploaderID: p.UploaderID(),
		FileURL:    p.FileURL(),
		Note:       p.Note(),
		UploadedAt: p.UploadedAt(),
		CreatedAt:  p.CreatedAt(),
	}
}

func toProofDomain(m *ProofModel) *proofDomain.PaymentProof {
	return proofDomain.Reconstruct(
		m.ID,
		m.BookingID,
		m.UploaderID,
		m.FileURL,
		m.Note,
		m.UploadedAt,
		m.CreatedAt,
	)
}
