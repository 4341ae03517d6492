package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stayhaven/service-rental/internal/domain"
	bookingDomain "github.com/stayhaven/service-rental/internal/domain/booking"
	unitDomain "github.com/stayhaven/service-rental/internal/domain/unit"
)

// fakeBookingRepo is an in-memory BookingRepository. Update can be made to
// fail for selected bookings to exercise partial-failure paths.
type fakeBookingRepo struct {
	mu        sync.Mutex
	bookings  map[uuid.UUID]*bookingDomain.Booking
	failOn    map[uuid.UUID]error
	updateLog []uuid.UUID
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[uuid.UUID]*bookingDomain.Booking),
		failOn:   make(map[uuid.UUID]error),
	}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking", id.String())
	}
	return bk, nil
}

func (r *fakeBookingRepo) FindByNumber(_ context.Context, number string) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bk := range r.bookings {
		if bk.BookingNumber() == number {
			return bk, nil
		}
	}
	return nil, domain.NewNotFoundError("booking", number)
}

func (r *fakeBookingRepo) FindByClientID(_ context.Context, clientID uuid.UUID, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.ClientID() == clientID {
			out = append(out, bk)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) FindByAgentID(_ context.Context, agentID uuid.UUID, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.AgentID() != nil && *bk.AgentID() == agentID {
			out = append(out, bk)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) FindOverlappingPending(_ context.Context, excludeID, unitID uuid.UUID, stay bookingDomain.StayPeriod) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.ID() == excludeID || bk.UnitID() != unitID {
			continue
		}
		if bk.Status() != bookingDomain.StatusPending {
			continue
		}
		if stay.Overlaps(bk.Stay()) {
			out = append(out, bk)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingNumber() < out[j].BookingNumber() })
	return out, nil
}

func (r *fakeBookingRepo) FindAll(_ context.Context) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*bookingDomain.Booking, 0, len(r.bookings))
	for _, bk := range r.bookings {
		out = append(out, bk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out, nil
}

func (r *fakeBookingRepo) ListAll(ctx context.Context, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	all, err := r.FindAll(ctx)
	return all, int64(len(all)), err
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		counts[string(bk.Status())]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failOn[bk.ID()]; ok {
		return err
	}
	if _, ok := r.bookings[bk.ID()]; !ok {
		return domain.NewNotFoundError("booking", bk.ID().String())
	}
	r.bookings[bk.ID()] = bk
	r.updateLog = append(r.updateLog, bk.ID())
	return nil
}

// fakeUnitRepo is an in-memory UnitRepository.
type fakeUnitRepo struct {
	units map[uuid.UUID]*unitDomain.Unit
}

func newFakeUnitRepo() *fakeUnitRepo {
	return &fakeUnitRepo{units: make(map[uuid.UUID]*unitDomain.Unit)}
}

func (r *fakeUnitRepo) FindByID(_ context.Context, id uuid.UUID) (*unitDomain.Unit, error) {
	u, ok := r.units[id]
	if !ok {
		return nil, domain.NewNotFoundError("unit", id.String())
	}
	return u, nil
}

func (r *fakeUnitRepo) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*unitDomain.Unit, error) {
	out := make(map[uuid.UUID]*unitDomain.Unit, len(ids))
	for _, id := range ids {
		if u, ok := r.units[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (r *fakeUnitRepo) FindByAgentID(_ context.Context, agentID uuid.UUID) ([]*unitDomain.Unit, error) {
	var out []*unitDomain.Unit
	for _, u := range r.units {
		if u.AgentID() == agentID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUnitRepo) Save(_ context.Context, u *unitDomain.Unit) error {
	r.units[u.ID()] = u
	return nil
}

func (r *fakeUnitRepo) Update(_ context.Context, u *unitDomain.Unit) error {
	r.units[u.ID()] = u
	return nil
}

// --- Test fixtures ---

func testUnit(t *testing.T) *unitDomain.Unit {
	t.Helper()
	u, err := unitDomain.NewUnit(uuid.New(), "Seaview Loft", "Penang", "", 12000, 1500, 2, 4)
	require.NoError(t, err)
	return u
}

func seedBooking(t *testing.T, repo *fakeBookingRepo, unitID uuid.UUID, status bookingDomain.BookingStatus, checkIn, checkOut time.Time) *bookingDomain.Booking {
	t.Helper()
	stay, err := bookingDomain.NewStayPeriod(checkIn, checkOut)
	require.NoError(t, err)

	bk, err := bookingDomain.NewBooking(
		unitID, uuid.New(), nil, stay,
		bookingDomain.GuestCount{Base: 2},
		bookingDomain.ClientDetails{Name: "Guest"},
		50000, "USD", "",
	)
	require.NoError(t, err)

	switch status {
	case bookingDomain.StatusConfirmed:
		require.NoError(t, bk.Approve())
	case bookingDomain.StatusBooked:
		require.NoError(t, bk.Approve())
		require.NoError(t, bk.ConfirmPayment())
	case bookingDomain.StatusDeclined:
		require.NoError(t, bk.Decline())
	}

	require.NoError(t, repo.Save(context.Background(), bk))
	return bk
}

func newTestService(repo *fakeBookingRepo, units *fakeUnitRepo) *BookingService {
	return NewBookingService(repo, units, bookingDomain.NewStandardPricingStrategy(), nil, zap.NewNop())
}

func day(d int) time.Time {
	return time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC)
}

// --- Tests ---

func TestCreateBooking(t *testing.T) {
	repo := newFakeBookingRepo()
	units := newFakeUnitRepo()
	u := testUnit(t)
	require.NoError(t, units.Save(context.Background(), u))
	svc := newTestService(repo, units)

	dto, err := svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		UnitID:      u.ID(),
		CheckIn:     "2026-10-10",
		CheckOut:    "2026-10-13",
		GuestsBase:  2,
		GuestsExtra: 1,
		ClientName:  "Amira Tan",
	})
	require.NoError(t, err)

	assert.Equal(t, bookingDomain.StatusPending, dto.Status)
	// 3 nights at 12000 plus 1 extra guest at 1500/night plus cleaning fee.
	assert.Equal(t, int64(12000*3+1500*1*3+2500), dto.TotalCents)
	assert.Equal(t, "USD", dto.Currency)
	require.NotNil(t, dto.Unit)
	assert.Equal(t, "Seaview Loft", dto.Unit.Title)
}

func TestCreateBooking_Rejections(t *testing.T) {
	repo := newFakeBookingRepo()
	units := newFakeUnitRepo()
	u := testUnit(t)
	require.NoError(t, units.Save(context.Background(), u))
	svc := newTestService(repo, units)

	base := CreateBookingRequest{
		UnitID: u.ID(), CheckIn: "2026-10-10", CheckOut: "2026-10-13",
		GuestsBase: 2, ClientName: "Amira Tan",
	}

	t.Run("too many guests", func(t *testing.T) {
		req := base
		req.GuestsBase = 4
		req.GuestsExtra = 2
		_, err := svc.CreateBooking(context.Background(), uuid.New(), req)
		assert.Error(t, err)
	})

	t.Run("bad dates", func(t *testing.T) {
		req := base
		req.CheckIn = "2026-10-13"
		req.CheckOut = "2026-10-10"
		_, err := svc.CreateBooking(context.Background(), uuid.New(), req)
		assert.Error(t, err)
	})

	t.Run("archived unit", func(t *testing.T) {
		archived := testUnit(t)
		archived.Archive()
		require.NoError(t, units.Save(context.Background(), archived))

		req := base
		req.UnitID = archived.ID()
		_, err := svc.CreateBooking(context.Background(), uuid.New(), req)
		assert.Error(t, err)
	})
}

func TestUpdateBookingStatus(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newTestService(repo, newFakeUnitRepo())

	t.Run("approve pending", func(t *testing.T) {
		bk := seedBooking(t, repo, uuid.New(), bookingDomain.StatusPending, day(10), day(15))

		dto, err := svc.UpdateBookingStatus(context.Background(), bk.ID(), bookingDomain.StatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, bookingDomain.StatusConfirmed, dto.Status)

		stored, err := repo.FindByID(context.Background(), bk.ID())
		require.NoError(t, err)
		assert.Equal(t, bookingDomain.StatusConfirmed, stored.Status())
		assert.Equal(t, int64(2), stored.Version())
	})

	t.Run("invalid transition leaves booking untouched", func(t *testing.T) {
		bk := seedBooking(t, repo, uuid.New(), bookingDomain.StatusPending, day(10), day(15))

		_, err := svc.UpdateBookingStatus(context.Background(), bk.ID(), bookingDomain.StatusBooked)
		assert.True(t, domain.IsInvalidState(err))

		stored, err := repo.FindByID(context.Background(), bk.ID())
		require.NoError(t, err)
		assert.Equal(t, bookingDomain.StatusPending, stored.Status())
		assert.Equal(t, int64(1), stored.Version())
	})

	t.Run("unknown booking", func(t *testing.T) {
		_, err := svc.UpdateBookingStatus(context.Background(), uuid.New(), bookingDomain.StatusConfirmed)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestConfirmPayment(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newTestService(repo, newFakeUnitRepo())

	bk := seedBooking(t, repo, uuid.New(), bookingDomain.StatusConfirmed, day(10), day(15))

	dto, err := svc.ConfirmPayment(context.Background(), bk.ID())
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.StatusBooked, dto.Status)

	_, err = svc.ConfirmPayment(context.Background(), bk.ID())
	assert.True(t, domain.IsInvalidState(err), "already booked")
}

func TestDeclineOverlappingPendingBookings(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newTestService(repo, newFakeUnitRepo())
	unitID := uuid.New()

	approved := seedBooking(t, repo, unitID, bookingDomain.StatusPending, day(10), day(15))
	overlapping := seedBooking(t, repo, unitID, bookingDomain.StatusPending, day(12), day(18))
	boundary := seedBooking(t, repo, unitID, bookingDomain.StatusPending, day(15), day(20))
	clear := seedBooking(t, repo, unitID, bookingDomain.StatusPending, day(16), day(20))
	confirmed := seedBooking(t, repo, unitID, bookingDomain.StatusConfirmed, day(11), day(14))
	otherUnit := seedBooking(t, repo, uuid.New(), bookingDomain.StatusPending, day(12), day(14))

	err := svc.DeclineOverlappingPendingBookings(context.Background(),
		approved.ID(), unitID, day(10), day(15))
	require.NoError(t, err)

	expect := map[uuid.UUID]bookingDomain.BookingStatus{
		approved.ID():    bookingDomain.StatusPending,
		overlapping.ID(): bookingDomain.StatusDeclined,
		boundary.ID():    bookingDomain.StatusDeclined,
		clear.ID():       bookingDomain.StatusPending,
		confirmed.ID():   bookingDomain.StatusConfirmed,
		otherUnit.ID():   bookingDomain.StatusPending,
	}
	for id, want := range expect {
		stored, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, want, stored.Status(), "booking %s", id)
	}
}

func TestDeclineOverlappingPendingBookings_BestEffort(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newTestService(repo, newFakeUnitRepo())
	unitID := uuid.New()

	approved := seedBooking(t, repo, unitID, bookingDomain.StatusPending, day(10), day(15))
	first := seedBooking(t, repo, unitID, bookingDomain.StatusPending, day(11), day(13))
	second := seedBooking(t, repo, unitID, bookingDomain.StatusPending, day(12), day(14))

	repo.failOn[first.ID()] = fmt.Errorf("connection reset")

	err := svc.DeclineOverlappingPendingBookings(context.Background(),
		approved.ID(), unitID, day(10), day(15))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	// The failing candidate did not stop the sweep.
	stored, findErr := repo.FindByID(context.Background(), second.ID())
	require.NoError(t, findErr)
	assert.Equal(t, bookingDomain.StatusDeclined, stored.Status())
}

func TestCancelBooking_Ownership(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newTestService(repo, newFakeUnitRepo())

	bk := seedBooking(t, repo, uuid.New(), bookingDomain.StatusPending, day(10), day(15))

	_, err := svc.CancelBooking(context.Background(), bk.ID(), uuid.New(), "not mine")
	assert.Error(t, err)

	dto, err := svc.CancelBooking(context.Background(), bk.ID(), bk.ClientID(), "change of plans")
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.StatusCancelled, dto.Status)
	assert.Equal(t, "change of plans", dto.CancelReason)
}

func TestFetchAllBookings(t *testing.T) {
	repo := newFakeBookingRepo()
	units := newFakeUnitRepo()
	u := testUnit(t)
	require.NoError(t, units.Save(context.Background(), u))
	svc := newTestService(repo, units)

	seedBooking(t, repo, u.ID(), bookingDomain.StatusPending, day(10), day(15))
	seedBooking(t, repo, uuid.New(), bookingDomain.StatusConfirmed, day(12), day(14))

	dtos, err := svc.FetchAllBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, dtos, 2)

	for _, dto := range dtos {
		if dto.UnitID == u.ID() {
			require.NotNil(t, dto.Unit, "known unit gets a summary")
			assert.Equal(t, "Seaview Loft", dto.Unit.Title)
		} else {
			assert.Nil(t, dto.Unit, "unknown unit stays bare")
		}
	}
}

func TestGetBookingStats(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newTestService(repo, newFakeUnitRepo())
	unitID := uuid.New()

	seedBooking(t, repo, unitID, bookingDomain.StatusPending, day(10), day(12))
	seedBooking(t, repo, unitID, bookingDomain.StatusPending, day(13), day(15))
	seedBooking(t, repo, unitID, bookingDomain.StatusConfirmed, day(16), day(18))
	seedBooking(t, repo, unitID, bookingDomain.StatusBooked, day(19), day(21))
	seedBooking(t, repo, unitID, bookingDomain.StatusDeclined, day(22), day(24))

	stats, err := svc.GetBookingStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.TotalBookings)
	assert.Equal(t, int64(2), stats.ByStatus["pending"])
	assert.Equal(t, int64(1), stats.ByStatus["confirmed"])
	assert.Equal(t, int64(2), stats.ByBucket["pending"])
	assert.Equal(t, int64(1), stats.ByBucket["awaiting_payment"])
	assert.Equal(t, int64(1), stats.ByBucket["booked"])
	assert.Equal(t, int64(1), stats.ByBucket["declined"])
}
