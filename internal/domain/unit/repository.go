package unit

import (
	"context"

	"github.com/google/uuid"
)

// UnitRepository defines persistence operations for unit listings.
type UnitRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Unit, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Unit, error)
	FindByAgentID(ctx context.Context, agentID uuid.UUID) ([]*Unit, error)
	Save(ctx context.Context, unit *Unit) error
	Update(ctx context.Context, unit *Unit) error
}
