package client

import (
	"context"

	"contractops/internal/core/clock"
	"contractops/internal/core/id"
	"contractops/pkg/logger"
)

// Service provides business logic for the client directory.
type Service struct {
	repo  Repository
	clock clock.Clock
}

// NewService creates a new client Service.
func NewService(repo Repository, clk clock.Clock) *Service {
	return &Service{repo: repo, clock: clk}
}

// CreateInput carries the fields accepted at client creation.
type CreateInput struct {
	Name     string
	Type     Type
	Phone    string
	Email    string
	Address  string
	Contacts []Contact
}

// Create validates and stores a new client.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Client, error) {
	c := New(in.Name, in.Type)
	c.Phone = in.Phone
	c.Email = in.Email
	c.Address = in.Address
	c.Contacts = withContactIDs(in.Contacts)

	now := s.clock.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := c.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	logger.Info(ctx, "client created", "client_id", c.ID, "type", c.Type)
	return c, nil
}

// Get retrieves a client by ID.
func (s *Service) Get(ctx context.Context, clientID id.ID) (*Client, error) {
	return s.repo.FindByID(ctx, clientID)
}

// List returns all clients.
func (s *Service) List(ctx context.Context) ([]*Client, error) {
	return s.repo.List(ctx)
}

// Update replaces a client's editable fields.
func (s *Service) Update(ctx context.Context, clientID id.ID, in CreateInput) (*Client, error) {
	c, err := s.repo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	c.Name = in.Name
	c.Type = in.Type
	c.Phone = in.Phone
	c.Email = in.Email
	c.Address = in.Address
	c.Contacts = withContactIDs(in.Contacts)
	c.UpdatedAt = s.clock.Now()

	if err := c.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a client from the directory. Operations referencing it keep
// their clientId; reports resolve the dangling reference to "Unknown".
func (s *Service) Delete(ctx context.Context, clientID id.ID) error {
	return s.repo.Delete(ctx, clientID)
}

func withContactIDs(contacts []Contact) []Contact {
	out := make([]Contact, len(contacts))
	copy(out, contacts)
	for i := range out {
		if id.IsNil(out[i].ID) {
			out[i].ID = id.New()
		}
	}
	return out
}
