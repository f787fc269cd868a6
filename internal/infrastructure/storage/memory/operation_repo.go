package memory

import (
	"context"
	"sort"
	"sync"

	"contractops/internal/core/apperror"
	"contractops/internal/core/id"
	"contractops/internal/domain/operation"
)

// OperationRepo is an in-memory operation.Repository.
type OperationRepo struct {
	mu         sync.RWMutex
	operations map[id.ID]*operation.Operation
}

// NewOperationRepo creates an empty operation repository.
func NewOperationRepo() *OperationRepo {
	return &OperationRepo{operations: make(map[id.ID]*operation.Operation)}
}

// Save stores a deep copy of the aggregate.
func (r *OperationRepo) Save(ctx context.Context, op *operation.Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations[op.ID] = op.Clone()
	return nil
}

// FindByID returns a deep copy of the stored aggregate.
func (r *OperationRepo) FindByID(ctx context.Context, opID id.ID) (*operation.Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.operations[opID]
	if !ok {
		return nil, apperror.NewNotFound("operation", opID)
	}
	return op.Clone(), nil
}

// List returns all operations ordered by creation time.
func (r *OperationRepo) List(ctx context.Context) ([]*operation.Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*operation.Operation, 0, len(r.operations))
	for _, op := range r.operations {
		out = append(out, op.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ListByClient returns the client's operations ordered by creation time.
func (r *OperationRepo) ListByClient(ctx context.Context, clientID id.ID) ([]*operation.Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*operation.Operation
	for _, op := range r.operations {
		if op.ClientID == clientID {
			out = append(out, op.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Delete removes an operation.
func (r *OperationRepo) Delete(ctx context.Context, opID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.operations[opID]; !ok {
		return apperror.NewNotFound("operation", opID)
	}
	delete(r.operations, opID)
	return nil
}

var _ operation.Repository = (*OperationRepo)(nil)
