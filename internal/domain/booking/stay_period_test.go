package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustStay(t *testing.T, in, out time.Time) StayPeriod {
	t.Helper()
	stay, err := NewStayPeriod(in, out)
	require.NoError(t, err)
	return stay
}

func TestNewStayPeriod(t *testing.T) {
	stay, err := NewStayPeriod(
		time.Date(2026, 10, 10, 14, 30, 0, 0, time.FixedZone("MYT", 8*3600)),
		time.Date(2026, 10, 15, 11, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	assert.Equal(t, date(2026, 10, 10), stay.CheckIn, "check-in normalized to UTC midnight")
	assert.Equal(t, date(2026, 10, 15), stay.CheckOut)
	assert.Equal(t, 5, stay.Nights())
}

func TestNewStayPeriod_Invalid(t *testing.T) {
	_, err := NewStayPeriod(date(2026, 10, 15), date(2026, 10, 10))
	assert.Error(t, err, "check-out before check-in")

	_, err = NewStayPeriod(date(2026, 10, 10), date(2026, 10, 10))
	assert.Error(t, err, "zero-night stay")
}

func TestStayPeriod_Overlaps(t *testing.T) {
	base := mustStay(t, date(2026, 10, 10), date(2026, 10, 15))

	tests := []struct {
		name     string
		other    StayPeriod
		overlaps bool
	}{
		{"identical range", mustStay(t, date(2026, 10, 10), date(2026, 10, 15)), true},
		{"contained range", mustStay(t, date(2026, 10, 11), date(2026, 10, 13)), true},
		{"straddles start", mustStay(t, date(2026, 10, 5), date(2026, 10, 10)), true},
		{"straddles end", mustStay(t, date(2026, 10, 15), date(2026, 10, 20)), true},
		{"shares single boundary date", mustStay(t, date(2026, 10, 15), date(2026, 10, 16)), true},
		{"ends day before", mustStay(t, date(2026, 10, 5), date(2026, 10, 9)), false},
		{"starts day after", mustStay(t, date(2026, 10, 16), date(2026, 10, 20)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, base.Overlaps(tt.other))
			assert.Equal(t, tt.overlaps, tt.other.Overlaps(base), "overlap is symmetric")
		})
	}
}

func TestStayPeriod_Contains(t *testing.T) {
	stay := mustStay(t, date(2026, 10, 10), date(2026, 10, 15))

	assert.True(t, stay.Contains(date(2026, 10, 10)))
	assert.True(t, stay.Contains(date(2026, 10, 15)))
	assert.True(t, stay.Contains(time.Date(2026, 10, 12, 23, 59, 0, 0, time.UTC)))
	assert.False(t, stay.Contains(date(2026, 10, 9)))
	assert.False(t, stay.Contains(date(2026, 10, 16)))
}
