package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractops/internal/core/apperror"
	"contractops/internal/core/clock"
	"contractops/internal/core/id"
)

type fakeRepo struct {
	clients map[id.ID]*Client
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{clients: make(map[id.ID]*Client)}
}

func (r *fakeRepo) Save(ctx context.Context, c *Client) error {
	r.clients[c.ID] = c.Clone()
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, clientID id.ID) (*Client, error) {
	c, ok := r.clients[clientID]
	if !ok {
		return nil, apperror.NewNotFound("client", clientID)
	}
	return c.Clone(), nil
}

func (r *fakeRepo) List(ctx context.Context) ([]*Client, error) {
	out := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c.Clone())
	}
	return out, nil
}

func (r *fakeRepo) Delete(ctx context.Context, clientID id.ID) error {
	if _, ok := r.clients[clientID]; !ok {
		return apperror.NewNotFound("client", clientID)
	}
	delete(r.clients, clientID)
	return nil
}

var clientNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, clock.At(clientNow)), repo
}

func TestCreateClient(t *testing.T) {
	svc, _ := newTestService()

	c, err := svc.Create(context.Background(), CreateInput{
		Name: "Alpha Holdings",
		Type: TypeOwner,
		Contacts: []Contact{
			{Name: "Nora Adel", IsMainContact: true},
		},
	})
	require.NoError(t, err)

	assert.False(t, id.IsNil(c.ID))
	assert.Equal(t, clientNow, c.CreatedAt)
	require.Len(t, c.Contacts, 1)
	assert.False(t, id.IsNil(c.Contacts[0].ID))

	mc := c.MainContact()
	require.NotNil(t, mc)
	assert.Equal(t, "Nora Adel", mc.Name)
}

func TestCreateClientValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Type: TypeOwner})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	_, err = svc.Create(ctx, CreateInput{Name: "Alpha", Type: "franchise"})
	require.Error(t, err)
}

func TestUpdateClient(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateInput{Name: "Alpha", Type: TypeOwner})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID, CreateInput{
		Name:  "Alpha Holdings",
		Type:  TypeMainContractor,
		Phone: "0100",
	})
	require.NoError(t, err)

	assert.Equal(t, "Alpha Holdings", updated.Name)
	assert.Equal(t, TypeMainContractor, updated.Type)
	assert.Equal(t, c.CreatedAt, updated.CreatedAt)
}

func TestUpdateClientNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Update(context.Background(), id.New(), CreateInput{Name: "X", Type: TypeOwner})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestTypeLabels(t *testing.T) {
	assert.Equal(t, "Owner", TypeOwner.Label())
	assert.Equal(t, "Main Contractor", TypeMainContractor.Label())
	assert.Equal(t, "Consultant", TypeConsultant.Label())
}
