package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stayhaven/service-rental/internal/domain"
	bookingDomain "github.com/stayhaven/service-rental/internal/domain/booking"
	proofDomain "github.com/stayhaven/service-rental/internal/domain/proof"
)

// UploadProofRequest is the request DTO for uploading a payment proof.
type UploadProofRequest struct {
	FileURL string `json:"file_url" binding:"required"`
	Note    string `json:"note"`
}

// ProofDTO is the API response representation of a payment proof.
type ProofDTO struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"booking_id"`
	UploaderID uuid.UUID `json:"uploader_id"`
	FileURL    string    `json:"file_url"`
	Note       string    `json:"note,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ProofService implements use cases for proof-of-payment uploads.
type ProofService struct {
	proofs   proofDomain.ProofRepository
	bookings bookingDomain.BookingRepository
	logger   *zap.Logger
}

// NewProofService creates a new ProofService.
func NewProofService(proofs proofDomain.ProofRepository, bookings bookingDomain.BookingRepository, logger *zap.Logger) *ProofService {
	return &ProofService{proofs: proofs, bookings: bookings, logger: logger}
}

// UploadProof records a payment proof for a confirmed booking and attaches
// its reference to the booking.
func (s *ProofService) UploadProof(ctx context.Context, bookingID, uploaderID uuid.UUID, req UploadProofRequest) (*ProofDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.ClientID() != uploaderID {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	if bk.Status() != bookingDomain.StatusConfirmed {
		return nil, domain.NewInvalidStateError(string(bk.Status()), "payment proof upload")
	}

	p, err := proofDomain.NewPaymentProof(bookingID, uploaderID, req.FileURL, req.Note)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if err := s.proofs.Save(ctx, p); err != nil {
		s.logger.Error("failed to save payment proof", zap.Error(err))
		return nil, fmt.Errorf("failed to save payment proof: %w", err)
	}

	if err := bk.AttachPaymentProof(req.FileURL); err != nil {
		return nil, err
	}
	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to attach proof to booking: %w", err)
	}

	s.logger.Info("payment proof uploaded",
		zap.String("booking_id", bookingID.String()),
		zap.String("proof_id", p.ID().String()),
	)
	result := toProofDTO(p)
	return &result, nil
}

// GetBookingProofs returns all payment proofs for a booking.
func (s *ProofService) GetBookingProofs(ctx context.Context, bookingID uuid.UUID) ([]ProofDTO, error) {
	proofs, err := s.proofs.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment proofs: %w", err)
	}
	dtos := make([]ProofDTO, len(proofs))
	for i, p := range proofs {
		dtos[i] = toProofDTO(p)
	}
	return dtos, nil
}

func toProofDTO(p *proofDomain.PaymentProof) ProofDTO {
	return ProofDTO{
		ID:         p.ID(),
		BookingID:  p.BookingID(),
		UploaderID: p.UploaderID(),
		FileURL:    p.FileURL(),
		Note:       p.Note(),
		UploadedAt: p.UploadedAt(),
	}
}
