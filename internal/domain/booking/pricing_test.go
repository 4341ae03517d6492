package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardPricingStrategy_Calculate(t *testing.T) {
	strategy := NewStandardPricingStrategy()

	tests := []struct {
		name   string
		params PricingParams
		want   int64
	}{
		{
			name:   "base stay without extras",
			params: PricingParams{NightlyRateCents: 12000, Nights: 3},
			want:   12000*3 + 2500,
		},
		{
			name:   "extra guests multiply per night",
			params: PricingParams{NightlyRateCents: 12000, ExtraGuestFeeCents: 1500, Nights: 4, ExtraGuests: 2},
			want:   12000*4 + 1500*2*4 + 2500,
		},
		{
			name:   "single night",
			params: PricingParams{NightlyRateCents: 9900, Nights: 1},
			want:   9900 + 2500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := strategy.Calculate(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStandardPricingStrategy_Calculate_Invalid(t *testing.T) {
	strategy := NewStandardPricingStrategy()

	_, err := strategy.Calculate(PricingParams{NightlyRateCents: 12000, Nights: 0})
	assert.Error(t, err)

	_, err = strategy.Calculate(PricingParams{NightlyRateCents: 0, Nights: 2})
	assert.Error(t, err)

	_, err = strategy.Calculate(PricingParams{NightlyRateCents: 12000, Nights: 2, ExtraGuests: -1})
	assert.Error(t, err)
}
