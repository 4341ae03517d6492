package booking

import "fmt"

// PricingStrategy defines the interface for calculating booking totals.
type PricingStrategy interface {
	// Calculate returns the total price in cents for the given parameters.
	Calculate(params PricingParams) (int64, error)
}

// PricingParams holds the inputs for price calculation.
type PricingParams struct {
	NightlyRateCents   int64
	ExtraGuestFeeCents int64
	Nights             int
	ExtraGuests        int
}

// StandardPricingStrategy implements the default StayHaven pricing logic.
type StandardPricingStrategy struct{}

// NewStandardPricingStrategy creates a new StandardPricingStrategy.
func NewStandardPricingStrategy() *StandardPricingStrategy {
	return &StandardPricingStrategy{}
}

// cleaningFeeCents is the flat fee added to every stay.
const cleaningFeeCents int64 = 2500

// Calculate computes the total price in cents.
//
// Pricing formula:
//   - Nightly rate x nights
//   - Extra-guest fee x extra guests x nights
//   - Flat cleaning fee
func (s *StandardPricingStrategy) Calculate(params PricingParams) (int64, error) {
	if params.Nights <= 0 {
		return 0, fmt.Errorf("stay must cover at least one night")
	}
	if params.NightlyRateCents <= 0 {
		return 0, fmt.Errorf("nightly rate must be positive")
	}
	if params.ExtraGuests < 0 {
		return 0, fmt.Errorf("extra guests cannot be negative")
	}

	total := params.NightlyRateCents * int64(params.Nights)
	total += params.ExtraGuestFeeCents * int64(params.ExtraGuests) * int64(params.Nights)
	total += cleaningFeeCents

	return total, nil
}
