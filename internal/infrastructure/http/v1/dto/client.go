package dto

import (
	"contractops/internal/domain/client"
)

// ContactRequest is one contact person in a client payload.
type ContactRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Position   string `json:"position"`
	Department string `json:"department"`
	IsMain     bool   `json:"isMain"`
}

// CreateClientRequest for creating clients.
type CreateClientRequest struct {
	Name     string           `json:"name" binding:"required"`
	Type     string           `json:"type" binding:"required,oneof=owner main_contractor consultant"`
	Phone    string           `json:"phone"`
	Email    string           `json:"email"`
	Address  string           `json:"address"`
	Contacts []ContactRequest `json:"contacts"`
}

// ToInput maps the request onto the service input.
func (r CreateClientRequest) ToInput() client.CreateInput {
	contacts := make([]client.Contact, 0, len(r.Contacts))
	for _, c := range r.Contacts {
		contacts = append(contacts, client.Contact{
			Name:          c.Name,
			Phone:         c.Phone,
			Email:         c.Email,
			Position:      c.Position,
			Department:    c.Department,
			IsMainContact: c.IsMain,
		})
	}
	return client.CreateInput{
		Name:     r.Name,
		Type:     client.Type(r.Type),
		Phone:    r.Phone,
		Email:    r.Email,
		Address:  r.Address,
		Contacts: contacts,
	}
}

// UpdateClientRequest for updating clients. Same shape as create; the full
// record is replaced.
type UpdateClientRequest = CreateClientRequest
