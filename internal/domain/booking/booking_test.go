package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayhaven/service-rental/internal/domain"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	stay := mustStay(t, date(2026, 10, 10), date(2026, 10, 15))
	bk, err := NewBooking(
		uuid.New(), uuid.New(), nil,
		stay,
		GuestCount{Base: 2, Extra: 1},
		ClientDetails{Name: "Amira Tan", Contact: "amira@example.com"},
		75000, "USD", "late check-in",
	)
	require.NoError(t, err)
	return bk
}

func TestNewBooking(t *testing.T) {
	bk := newTestBooking(t)

	assert.Equal(t, StatusPending, bk.Status())
	assert.Regexp(t, `^RB-[A-HJ-NP-Z2-9]{6}$`, bk.BookingNumber())
	assert.Equal(t, int64(1), bk.Version())
	assert.Equal(t, int64(75000), bk.TotalCents())
	assert.Equal(t, "USD", bk.Currency())
}

func TestNewBooking_Validation(t *testing.T) {
	stay := mustStay(t, date(2026, 10, 10), date(2026, 10, 15))
	client := ClientDetails{Name: "Amira Tan"}
	guests := GuestCount{Base: 2}

	_, err := NewBooking(uuid.Nil, uuid.New(), nil, stay, guests, client, 1000, "USD", "")
	assert.Error(t, err, "missing unit ID")

	_, err = NewBooking(uuid.New(), uuid.Nil, nil, stay, guests, client, 1000, "USD", "")
	assert.Error(t, err, "missing client ID")

	_, err = NewBooking(uuid.New(), uuid.New(), nil, stay, GuestCount{Base: 0}, client, 1000, "USD", "")
	assert.Error(t, err, "no base guests")

	_, err = NewBooking(uuid.New(), uuid.New(), nil, stay, guests, ClientDetails{}, 1000, "USD", "")
	assert.Error(t, err, "missing client name")

	_, err = NewBooking(uuid.New(), uuid.New(), nil, stay, guests, client, 0, "USD", "")
	assert.Error(t, err, "non-positive total")
}

func TestBooking_AdminTransitions(t *testing.T) {
	t.Run("approve then confirm payment", func(t *testing.T) {
		bk := newTestBooking(t)

		require.NoError(t, bk.Approve())
		assert.Equal(t, StatusConfirmed, bk.Status())

		require.NoError(t, bk.ConfirmPayment())
		assert.Equal(t, StatusBooked, bk.Status())
	})

	t.Run("decline", func(t *testing.T) {
		bk := newTestBooking(t)

		require.NoError(t, bk.Decline())
		assert.Equal(t, StatusDeclined, bk.Status())
		assert.True(t, bk.Status().IsTerminal())
	})

	t.Run("confirm payment before approval", func(t *testing.T) {
		bk := newTestBooking(t)

		err := bk.ConfirmPayment()
		assert.True(t, domain.IsInvalidState(err))
		assert.Equal(t, StatusPending, bk.Status())
	})

	t.Run("approve a declined booking", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.Decline())

		err := bk.Approve()
		assert.True(t, domain.IsInvalidState(err))
		assert.Equal(t, StatusDeclined, bk.Status())
	})
}

func TestBooking_Apply_RejectsWithoutMutation(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Approve())

	// Approve requires pending; the booking is confirmed now.
	err := bk.Apply(ActionApprove)
	assert.True(t, domain.IsInvalidState(err))
	assert.Equal(t, StatusConfirmed, bk.Status())

	err = bk.Apply(Action("bogus"))
	assert.Error(t, err)
	assert.Equal(t, StatusConfirmed, bk.Status())

	require.NoError(t, bk.Apply(ActionConfirmPayment))
	assert.Equal(t, StatusBooked, bk.Status())
}

func TestBooking_Cancel(t *testing.T) {
	bk := newTestBooking(t)

	require.NoError(t, bk.Cancel("change of plans"))
	assert.Equal(t, StatusCancelled, bk.Status())
	assert.Equal(t, "change of plans", bk.CancelReason())
	require.NotNil(t, bk.CancelledAt())
	assert.WithinDuration(t, time.Now().UTC(), *bk.CancelledAt(), 5*time.Second)

	err := bk.Cancel("again")
	assert.True(t, domain.IsInvalidState(err), "cancelled is terminal")
}

func TestBooking_StayLifecycle(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Approve())
	require.NoError(t, bk.ConfirmPayment())

	require.NoError(t, bk.Start())
	assert.Equal(t, StatusOngoing, bk.Status())

	require.NoError(t, bk.Complete())
	assert.Equal(t, StatusCompleted, bk.Status())
	assert.True(t, bk.Status().IsTerminal())
}

func TestBooking_AttachPaymentProof(t *testing.T) {
	bk := newTestBooking(t)

	assert.Error(t, bk.AttachPaymentProof(""))

	require.NoError(t, bk.AttachPaymentProof("https://cdn.example.com/proofs/abc.png"))
	assert.Equal(t, "https://cdn.example.com/proofs/abc.png", bk.PaymentProofURL())
}

func TestBooking_IncrementVersion(t *testing.T) {
	bk := newTestBooking(t)
	require.Equal(t, int64(1), bk.Version())

	bk.IncrementVersion()
	assert.Equal(t, int64(2), bk.Version())
}
