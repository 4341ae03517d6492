package proof

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PaymentProof records an uploaded proof-of-payment file for a booking.
type PaymentProof struct {
	id         uuid.UUID
	bookingID  uuid.UUID
	uploaderID uuid.UUID
	fileURL    string
	note       string
	uploadedAt time.Time
	createdAt  time.Time
}

// NewPaymentProof creates a new payment proof record.
func NewPaymentProof(bookingID, uploaderID uuid.UUID, fileURL, note string) (*PaymentProof, error) {
	if bookingID == uuid.Nil {
		return nil, fmt.Errorf("booking ID is required")
	}
	if fileURL == "" {
		return nil, fmt.Errorf("file URL is required")
	}

	now := time.Now().UTC()
	return &PaymentProof{
		id:         uuid.New(),
		bookingID:  bookingID,
		uploaderID: uploaderID,
		fileURL:    fileURL,
		note:       note,
		uploadedAt: now,
		createdAt:  now,
	}, nil
}

// Reconstruct rebuilds a PaymentProof from persistence.
func Reconstruct(id, bookingID, uploaderID uuid.UUID, fileURL, note string, uploadedAt, createdAt time.Time) *PaymentProof {
	return &PaymentProof{
		id:         id,
		bookingID:  bookingID,
		uploaderID: uploaderID,
		fileURL:    fileURL,
		note:       note,
		uploadedAt: uploadedAt,
		createdAt:  createdAt,
	}
}

// Getters.
func (p *PaymentProof) ID() uuid.UUID         { return p.id }
func (p *PaymentProof) BookingID() uuid.UUID  { return p.bookingID }
func (p *PaymentProof) UploaderID() uuid.UUID { return p.uploaderID }
func (p *PaymentProof) FileURL() string       { return p.fileURL }
func (p *PaymentProof) Note() string          { return p.note }
func (p *PaymentProof) UploadedAt() time.Time { return p.uploadedAt }
func (p *PaymentProof) CreatedAt() time.Time  { return p.createdAt }
