package booking

// GuestCount holds the number of guests included in the nightly rate and the
// number of extra guests charged separately.
type GuestCount struct {
	Base  int `json:"base"`
	Extra int `json:"extra"`
}

// Total returns the total number of guests staying.
func (g GuestCount) Total() int {
	return g.Base + g.Extra
}

// IsValid returns true if the guest counts are usable.
func (g GuestCount) IsValid() bool {
	return g.Base >= 1 && g.Extra >= 0
}

// ClientDetails carries the requester's display information, denormalized onto
// the booking so admin views can render without a join to the identity service.
type ClientDetails struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}
