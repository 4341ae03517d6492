package unit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UnitStatus represents the listing state of a rental unit.
type UnitStatus string

const (
	UnitStatusActive   UnitStatus = "active"
	UnitStatusArchived UnitStatus = "archived"
)

// Unit is the aggregate root for a rentable property listing.
type Unit struct {
	id                 uuid.UUID
	agentID            uuid.UUID
	title              string
	location           string
	description        string
	nightlyRateCents   int64
	extraGuestFeeCents int64
	baseGuests         int
	maxGuests          int
	status             UnitStatus
	version            int64
	createdAt          time.Time
	updatedAt          time.Time
}

// NewUnit creates a new active unit listing with validated fields.
func NewUnit(
	agentID uuid.UUID,
	title, location, description string,
	nightlyRateCents, extraGuestFeeCents int64,
	baseGuests, maxGuests int,
) (*Unit, error) {
	if agentID == uuid.Nil {
		return nil, fmt.Errorf("agent ID is required")
	}
	if title == "" {
		return nil, fmt.Errorf("unit title is required")
	}
	if location == "" {
		return nil, fmt.Errorf("unit location is required")
	}
	if nightlyRateCents <= 0 {
		return nil, fmt.Errorf("nightly rate must be positive")
	}
	if baseGuests < 1 {
		return nil, fmt.Errorf("base guest count must be at least 1")
	}
	if maxGuests < baseGuests {
		return nil, fmt.Errorf("max guests cannot be below base guests")
	}

	now := time.Now().UTC()
	return &Unit{
		id:                 uuid.New(),
		agentID:            agentID,
		title:              title,
		location:           location,
		description:        description,
		nightlyRateCents:   nightlyRateCents,
		extraGuestFeeCents: extraGuestFeeCents,
		baseGuests:         baseGuests,
		maxGuests:          maxGuests,
		status:             UnitStatusActive,
		version:            1,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// Reconstruct rebuilds a Unit from persistence data (no validation).
func Reconstruct(
	id, agentID uuid.UUID,
	title, location, description string,
	nightlyRateCents, extraGuestFeeCents int64,
	baseGuests, maxGuests int,
	status UnitStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Unit {
	return &Unit{
		id:                 id,
		agentID:            agentID,
		title:              title,
		location:           location,
		description:        description,
		nightlyRateCents:   nightlyRateCents,
		extraGuestFeeCents: extraGuestFeeCents,
		baseGuests:         baseGuests,
		maxGuests:          maxGuests,
		status:             status,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// --- Getters ---

func (u *Unit) ID() uuid.UUID             { return u.id }
func (u *Unit) AgentID() uuid.UUID        { return u.agentID }
func (u *Unit) Title() string             { return u.title }
func (u *Unit) Location() string          { return u.location }
func (u *Unit) Description() string       { return u.description }
func (u *Unit) NightlyRateCents() int64   { return u.nightlyRateCents }
func (u *Unit) ExtraGuestFeeCents() int64 { return u.extraGuestFeeCents }
func (u *Unit) BaseGuests() int           { return u.baseGuests }
func (u *Unit) MaxGuests() int            { return u.maxGuests }
func (u *Unit) Status() UnitStatus        { return u.status }
func (u *Unit) Version() int64            { return u.version }
func (u *Unit) CreatedAt() time.Time      { return u.createdAt }
func (u *Unit) UpdatedAt() time.Time      { return u.updatedAt }

// --- Behavior ---

// IsManagedBy checks if the unit is managed by the given agent.
func (u *Unit) IsManagedBy(agentID uuid.UUID) bool {
	return u.agentID == agentID
}

// Update applies partial updates to the unit listing.
func (u *Unit) Update(
	title, location, description string,
	nightlyRateCents, extraGuestFeeCents int64,
	baseGuests, maxGuests int,
) {
	if title != "" {
		u.title = title
	}
	if location != "" {
		u.location = location
	}
	if description != "" {
		u.description = description
	}
	if nightlyRateCents > 0 {
		u.nightlyRateCents = nightlyRateCents
	}
	if extraGuestFeeCents >= 0 {
		u.extraGuestFeeCents = extraGuestFeeCents
	}
	if baseGuests > 0 {
		u.baseGuests = baseGuests
	}
	if maxGuests >= u.baseGuests {
		u.maxGuests = maxGuests
	}
	u.version++
	u.updatedAt = time.Now().UTC()
}

// Archive marks the unit listing as archived.
func (u *Unit) Archive() {
	u.status = UnitStatusArchived
	u.version++
	u.updatedAt = time.Now().UTC()
}

// IsActive returns true if the unit listing is active.
func (u *Unit) IsActive() bool {
	return u.status == UnitStatusActive
}
