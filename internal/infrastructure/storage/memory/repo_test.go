package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractops/internal/core/apperror"
	"contractops/internal/core/id"
	"contractops/internal/core/types"
	"contractops/internal/domain/client"
	"contractops/internal/domain/operation"
)

func TestClientRepoSaveAndFind(t *testing.T) {
	repo := NewClientRepo()
	ctx := context.Background()

	c := client.New("Alpha Holdings", client.TypeOwner)
	require.NoError(t, repo.Save(ctx, c))

	found, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha Holdings", found.Name)
}

func TestClientRepoFindNotFound(t *testing.T) {
	repo := NewClientRepo()

	_, err := repo.FindByID(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestClientRepoCloneIsolation(t *testing.T) {
	repo := NewClientRepo()
	ctx := context.Background()

	c := client.New("Alpha Holdings", client.TypeOwner)
	c.Contacts = []client.Contact{{ID: id.New(), Name: "Nora"}}
	require.NoError(t, repo.Save(ctx, c))

	// Mutating the caller's aggregate after save must not leak in.
	c.Name = "changed"
	c.Contacts[0].Name = "changed"

	found, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha Holdings", found.Name)
	assert.Equal(t, "Nora", found.Contacts[0].Name)

	// And mutating a fetched copy must not affect the store.
	found.Contacts[0].Name = "changed again"
	refetched, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nora", refetched.Contacts[0].Name)
}

func TestClientRepoListSortedByName(t *testing.T) {
	repo := NewClientRepo()
	ctx := context.Background()

	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		require.NoError(t, repo.Save(ctx, client.New(name, client.TypeOwner)))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, "Mid", list[1].Name)
	assert.Equal(t, "Zeta", list[2].Name)
}

func TestClientRepoDelete(t *testing.T) {
	repo := NewClientRepo()
	ctx := context.Background()

	c := client.New("Alpha", client.TypeOwner)
	require.NoError(t, repo.Save(ctx, c))
	require.NoError(t, repo.Delete(ctx, c.ID))

	_, err := repo.FindByID(ctx, c.ID)
	assert.True(t, apperror.IsNotFound(err))

	err = repo.Delete(ctx, c.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func testOperation(clientID id.ID, code string, createdAt time.Time) *operation.Operation {
	return &operation.Operation{
		ID:       id.New(),
		Code:     code,
		Name:     "Op " + code,
		ClientID: clientID,
		Items: []operation.OperationItem{
			{ID: id.New(), Description: "Works", Amount: types.NewMoneyFromInt(1000)},
		},
		CreatedAt: createdAt,
	}
}

func TestOperationRepoCloneIsolation(t *testing.T) {
	repo := NewOperationRepo()
	ctx := context.Background()

	op := testOperation(id.New(), "A-1", time.Now())
	require.NoError(t, repo.Save(ctx, op))

	op.Items[0].Description = "changed"

	found, err := repo.FindByID(ctx, op.ID)
	require.NoError(t, err)
	assert.Equal(t, "Works", found.Items[0].Description)
}

func TestOperationRepoListSortedByCreation(t *testing.T) {
	repo := NewOperationRepo()
	ctx := context.Background()
	clientID := id.New()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, testOperation(clientID, "C-3", base.AddDate(0, 0, 2))))
	require.NoError(t, repo.Save(ctx, testOperation(clientID, "A-1", base)))
	require.NoError(t, repo.Save(ctx, testOperation(clientID, "B-2", base.AddDate(0, 0, 1))))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "A-1", list[0].Code)
	assert.Equal(t, "B-2", list[1].Code)
	assert.Equal(t, "C-3", list[2].Code)
}

func TestOperationRepoListByClient(t *testing.T) {
	repo := NewOperationRepo()
	ctx := context.Background()

	mine := id.New()
	other := id.New()
	require.NoError(t, repo.Save(ctx, testOperation(mine, "M-1", time.Now())))
	require.NoError(t, repo.Save(ctx, testOperation(mine, "M-2", time.Now())))
	require.NoError(t, repo.Save(ctx, testOperation(other, "O-1", time.Now())))

	list, err := repo.ListByClient(ctx, mine)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	for _, op := range list {
		assert.Equal(t, mine, op.ClientID)
	}
}

func TestOperationRepoDeleteNotFound(t *testing.T) {
	repo := NewOperationRepo()

	err := repo.Delete(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
