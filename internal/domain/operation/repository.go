package operation

import (
	"context"

	"contractops/internal/core/id"
)

// Repository is the storage contract for operations.
// Implementations live in the infrastructure layer.
type Repository interface {
	Save(ctx context.Context, op *Operation) error
	FindByID(ctx context.Context, opID id.ID) (*Operation, error)
	List(ctx context.Context) ([]*Operation, error)
	ListByClient(ctx context.Context, clientID id.ID) ([]*Operation, error)
	Delete(ctx context.Context, opID id.ID) error
}
