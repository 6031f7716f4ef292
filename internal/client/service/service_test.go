package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/devgate/internal/client/domain"
	"github.com/smallbiznis/devgate/internal/client/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newClientService(t *testing.T) (domain.Service, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&domain.Client{}))

	node, _ := snowflake.NewNode(1)
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, node
}

func TestClientCRUD(t *testing.T) {
	svc, node := newClientService(t)
	ctx := context.Background()
	userID := node.Generate()

	created, err := svc.Create(ctx, userID, domain.CreateClientRequest{
		Name:    "Acme",
		Contact: "billing@acme.test",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Acme", created.Name)
	assert.NotNil(t, created.Contact)

	found, err := svc.GetByID(ctx, userID, created.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	updated, err := svc.Update(ctx, userID, created.ID.String(), domain.UpdateClientRequest{
		Name: "Acme Corp",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)
	// A blank contact clears the stored one.
	assert.Nil(t, updated.Contact)

	assert.NoError(t, svc.Delete(ctx, userID, created.ID.String()))

	_, err = svc.GetByID(ctx, userID, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_Validation(t *testing.T) {
	svc, node := newClientService(t)
	ctx := context.Background()
	userID := node.Generate()

	_, err := svc.Create(ctx, userID, domain.CreateClientRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.GetByID(ctx, userID, "not-an-id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.Create(ctx, 0, domain.CreateClientRequest{Name: "Acme"})
	assert.ErrorIs(t, err, domain.ErrInvalidUser)
}

func TestClient_OwnershipIsolation(t *testing.T) {
	svc, node := newClientService(t)
	ctx := context.Background()
	owner := node.Generate()
	stranger := node.Generate()

	created, err := svc.Create(ctx, owner, domain.CreateClientRequest{Name: "Acme"})
	assert.NoError(t, err)

	_, err = svc.GetByID(ctx, stranger, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(ctx, stranger, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mine, err := svc.List(ctx, owner)
	assert.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := svc.List(ctx, stranger)
	assert.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestClient_ListOrderedByName(t *testing.T) {
	svc, node := newClientService(t)
	ctx := context.Background()
	userID := node.Generate()

	for _, name := range []string{"Zenith", "Acme", "Midway"} {
		_, err := svc.Create(ctx, userID, domain.CreateClientRequest{Name: name})
		assert.NoError(t, err)
	}

	clients, err := svc.List(ctx, userID)
	assert.NoError(t, err)
	assert.Len(t, clients, 3)
	assert.Equal(t, "Acme", clients[0].Name)
	assert.Equal(t, "Midway", clients[1].Name)
	assert.Equal(t, "Zenith", clients[2].Name)
}
