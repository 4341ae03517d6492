package lifecycle

import (
	"sort"
	"strings"

	"github.com/stayhaven/service-rental/internal/domain"
	bookingDomain "github.com/stayhaven/service-rental/internal/domain/booking"
)

// FilterLabel selects which display bucket of bookings the admin console
// shows. Labels match the console's tab captions.
type FilterLabel string

const (
	FilterAll             FilterLabel = "All Status"
	FilterPending         FilterLabel = "Pending"
	FilterAwaitingPayment FilterLabel = "Awaiting Payment"
	FilterBooked          FilterLabel = "Booked"
	FilterDeclined        FilterLabel = "Declined"
)

// FilterLabels lists every filter in tab order.
func FilterLabels() []FilterLabel {
	return []FilterLabel{FilterAll, FilterPending, FilterAwaitingPayment, FilterBooked, FilterDeclined}
}

// IsValid reports whether f is a known filter label.
func (f FilterLabel) IsValid() bool {
	switch f {
	case FilterAll, FilterPending, FilterAwaitingPayment, FilterBooked, FilterDeclined:
		return true
	}
	return false
}

func (f FilterLabel) bucket() (bookingDomain.DisplayBucket, bool) {
	switch f {
	case FilterPending:
		return bookingDomain.BucketPending, true
	case FilterAwaitingPayment:
		return bookingDomain.BucketAwaitingPayment, true
	case FilterBooked:
		return bookingDomain.BucketBooked, true
	case FilterDeclined:
		return bookingDomain.BucketDeclined, true
	}
	return "", false
}

// Matches reports whether a booking in the given status belongs under this
// filter. FilterAll matches every status.
func (f FilterLabel) Matches(status bookingDomain.BookingStatus) bool {
	bucket, ok := f.bucket()
	if !ok {
		return f == FilterAll
	}
	return status.Bucket() == bucket
}

// ParseFilterLabel resolves a query-parameter value to a FilterLabel. It
// accepts the display caption as well as a snake_case form ("awaiting_payment").
func ParseFilterLabel(raw string) (FilterLabel, error) {
	if raw == "" {
		return FilterAll, nil
	}
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "_", " "))
	for _, f := range FilterLabels() {
		if strings.ToLower(string(f)) == normalized {
			return f, nil
		}
	}
	return "", domain.NewValidationError("unknown filter: " + raw)
}

// SortOrder selects the secondary ordering applied within a filtered listing.
type SortOrder string

const (
	SortNewest     SortOrder = "newest"
	SortOldest     SortOrder = "oldest"
	SortCheckIn    SortOrder = "check_in"
	SortAmountDesc SortOrder = "amount_desc"
	SortAmountAsc  SortOrder = "amount_asc"
)

// IsValid reports whether s is a known sort order.
func (s SortOrder) IsValid() bool {
	switch s {
	case SortNewest, SortOldest, SortCheckIn, SortAmountDesc, SortAmountAsc:
		return true
	}
	return false
}

// ParseSortOrder resolves a query-parameter value to a SortOrder, defaulting
// to newest-first.
func ParseSortOrder(raw string) (SortOrder, error) {
	if raw == "" {
		return SortNewest, nil
	}
	s := SortOrder(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", domain.NewValidationError("unknown sort order: " + raw)
	}
	return s, nil
}

func (s SortOrder) less(a, b BookingView) bool {
	switch s {
	case SortOldest:
		return a.CreatedAt.Before(b.CreatedAt)
	case SortCheckIn:
		return a.CheckIn.Before(b.CheckIn)
	case SortAmountDesc:
		return a.TotalCents > b.TotalCents
	case SortAmountAsc:
		return a.TotalCents < b.TotalCents
	default: // SortNewest
		return a.CreatedAt.After(b.CreatedAt)
	}
}

// Arrange filters and orders a booking collection for display. Under
// FilterAll, bookings group by status priority (pending first, then awaiting
// payment, booked, declined) with the sort order applied inside each group;
// under any other filter the sort order applies directly. The input slice is
// not modified.
func Arrange(views []BookingView, filter FilterLabel, order SortOrder) []BookingView {
	arranged := make([]BookingView, 0, len(views))
	for _, v := range views {
		if filter.Matches(v.Status) {
			arranged = append(arranged, v)
		}
	}

	sort.SliceStable(arranged, func(i, j int) bool {
		a, b := arranged[i], arranged[j]
		if filter == FilterAll {
			if pa, pb := a.Status.Priority(), b.Status.Priority(); pa != pb {
				return pa < pb
			}
		}
		return order.less(a, b)
	})
	return arranged
}
