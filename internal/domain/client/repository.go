package client

import (
	"context"

	"contractops/internal/core/id"
)

// Repository is the storage contract for clients.
// Implementations live in the infrastructure layer.
type Repository interface {
	Save(ctx context.Context, c *Client) error
	FindByID(ctx context.Context, clientID id.ID) (*Client, error)
	List(ctx context.Context) ([]*Client, error)
	Delete(ctx context.Context, clientID id.ID) error
}
