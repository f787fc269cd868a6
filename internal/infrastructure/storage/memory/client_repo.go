// Package memory provides in-process repository implementations. The system
// has no persistence layer; the UI and export collaborators operate on the
// live in-memory state, so repositories only need to guard against callers
// mutating stored aggregates through shared slices.
package memory

import (
	"context"
	"sort"
	"sync"

	"contractops/internal/core/apperror"
	"contractops/internal/core/id"
	"contractops/internal/domain/client"
)

// ClientRepo is an in-memory client.Repository.
type ClientRepo struct {
	mu      sync.RWMutex
	clients map[id.ID]*client.Client
}

// NewClientRepo creates an empty client repository.
func NewClientRepo() *ClientRepo {
	return &ClientRepo{clients: make(map[id.ID]*client.Client)}
}

// Save stores a deep copy of the client.
func (r *ClientRepo) Save(ctx context.Context, c *client.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.ID] = c.Clone()
	return nil
}

// FindByID returns a deep copy of the stored client.
func (r *ClientRepo) FindByID(ctx context.Context, clientID id.ID) (*client.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[clientID]
	if !ok {
		return nil, apperror.NewNotFound("client", clientID)
	}
	return c.Clone(), nil
}

// List returns all clients ordered by name.
func (r *ClientRepo) List(ctx context.Context) ([]*client.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*client.Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes a client.
func (r *ClientRepo) Delete(ctx context.Context, clientID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[clientID]; !ok {
		return apperror.NewNotFound("client", clientID)
	}
	delete(r.clients, clientID)
	return nil
}

var _ client.Repository = (*ClientRepo)(nil)
