// Package client provides the client directory: the owners, main contractors
// and consultants that operations are billed against.
package client

import (
	"context"
	"time"

	"contractops/internal/core/apperror"
	"contractops/internal/core/id"
)

// Type defines the contractual role of a client.
type Type string

const (
	TypeOwner          Type = "owner"
	TypeMainContractor Type = "main_contractor"
	TypeConsultant     Type = "consultant"
)

// Label returns the display name used in reports.
func (t Type) Label() string {
	switch t {
	case TypeOwner:
		return "Owner"
	case TypeMainContractor:
		return "Main Contractor"
	case TypeConsultant:
		return "Consultant"
	default:
		return "Unknown"
	}
}

func isValidType(t Type) bool {
	switch t {
	case TypeOwner, TypeMainContractor, TypeConsultant:
		return true
	}
	return false
}

// Contact is a person on the client's side.
type Contact struct {
	ID            id.ID  `json:"id"`
	Name          string `json:"name"`
	Position      string `json:"position,omitempty"`
	Department    string `json:"department,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	IsMainContact bool   `json:"isMainContact"`
}

// Client represents a business partner an operation is contracted with.
// Operations reference clients by ID; clients are never owned by operations.
type Client struct {
	ID        id.ID     `json:"id"`
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	Contacts  []Contact `json:"contacts,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New creates a Client with a generated ID.
func New(name string, clientType Type) *Client {
	return &Client{
		ID:   id.New(),
		Name: name,
		Type: clientType,
	}
}

// Validate checks client invariants.
func (c *Client) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("client name is required").
			WithDetail("field", "name")
	}
	if !isValidType(c.Type) {
		return apperror.NewValidation("invalid client type").
			WithDetail("field", "type").
			WithDetail("value", string(c.Type))
	}
	return nil
}

// MainContact returns the contact flagged as primary, or nil.
func (c *Client) MainContact() *Contact {
	for i := range c.Contacts {
		if c.Contacts[i].IsMainContact {
			return &c.Contacts[i]
		}
	}
	return nil
}

// Clone returns a deep copy. Repositories hand out clones so callers can
// never mutate stored state through a shared slice.
func (c *Client) Clone() *Client {
	cp := *c
	if c.Contacts != nil {
		cp.Contacts = make([]Contact, len(c.Contacts))
		copy(cp.Contacts, c.Contacts)
	}
	return &cp
}
