package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	clientdomain "github.com/smallbiznis/devgate/internal/client/domain"
	clientrepository "github.com/smallbiznis/devgate/internal/client/repository"
	clientservice "github.com/smallbiznis/devgate/internal/client/service"
	"github.com/smallbiznis/devgate/internal/project/domain"
	"github.com/smallbiznis/devgate/internal/project/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type projectEnv struct {
	svc     domain.Service
	clients clientdomain.Service
	node    *snowflake.Node
}

func newProjectEnv(t *testing.T) *projectEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&clientdomain.Client{}, &domain.Project{}))

	node, _ := snowflake.NewNode(1)
	logger := zap.NewNop()

	clientSvc := clientservice.New(clientservice.Params{
		DB:    db,
		Log:   logger,
		GenID: node,
		Repo:  clientrepository.Provide(),
	})
	svc := New(Params{
		DB:         db,
		Log:        logger,
		GenID:      node,
		Repo:       repository.Provide(),
		ClientRepo: clientrepository.Provide(),
	})

	return &projectEnv{svc: svc, clients: clientSvc, node: node}
}

func (e *projectEnv) seedClient(t *testing.T, userID snowflake.ID) clientdomain.Client {
	t.Helper()
	client, err := e.clients.Create(context.Background(), userID, clientdomain.CreateClientRequest{Name: "Acme"})
	assert.NoError(t, err)
	return client
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestProjectCreate(t *testing.T) {
	env := newProjectEnv(t)
	ctx := context.Background()
	userID := env.node.Generate()
	client := env.seedClient(t, userID)

	project, err := env.svc.Create(ctx, userID, domain.CreateProjectRequest{
		ClientID:    client.ID.String(),
		Title:       "Website redesign",
		Description: "Marketing site",
		Rate:        floatPtr(120),
		DueDate:     strPtr("2026-10-01"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "Website redesign", project.Title)
	assert.Equal(t, "Acme", project.ClientName)
	assert.NotNil(t, project.Rate)
	assert.Equal(t, 120.0, *project.Rate)
	assert.NotNil(t, project.DueDate)
	assert.False(t, project.Completed)
}

func TestProjectCreate_Validation(t *testing.T) {
	env := newProjectEnv(t)
	ctx := context.Background()
	userID := env.node.Generate()
	client := env.seedClient(t, userID)

	_, err := env.svc.Create(ctx, userID, domain.CreateProjectRequest{
		ClientID: client.ID.String(),
		Title:    " ",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)

	_, err = env.svc.Create(ctx, userID, domain.CreateProjectRequest{
		ClientID: client.ID.String(),
		Title:    "Website",
		Rate:     floatPtr(-5),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRate)

	_, err = env.svc.Create(ctx, userID, domain.CreateProjectRequest{
		ClientID: client.ID.String(),
		Title:    "Website",
		DueDate:  strPtr("10/01/2026"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDueDate)

	// A client owned by someone else is invisible, not forbidden.
	_, err = env.svc.Create(ctx, env.node.Generate(), domain.CreateProjectRequest{
		ClientID: client.ID.String(),
		Title:    "Website",
	})
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestProjectCompleteAndReactivate(t *testing.T) {
	env := newProjectEnv(t)
	ctx := context.Background()
	userID := env.node.Generate()
	client := env.seedClient(t, userID)

	project, err := env.svc.Create(ctx, userID, domain.CreateProjectRequest{
		ClientID: client.ID.String(),
		Title:    "Website",
	})
	assert.NoError(t, err)

	done, err := env.svc.Complete(ctx, userID, project.ID.String())
	assert.NoError(t, err)
	assert.True(t, done.Completed)
	assert.NotNil(t, done.CompletedAt)

	active, err := env.svc.Reactivate(ctx, userID, project.ID.String())
	assert.NoError(t, err)
	assert.False(t, active.Completed)
	assert.Nil(t, active.CompletedAt)
}

func TestProjectList_ActiveFirst(t *testing.T) {
	env := newProjectEnv(t)
	ctx := context.Background()
	userID := env.node.Generate()
	client := env.seedClient(t, userID)

	first, err := env.svc.Create(ctx, userID, domain.CreateProjectRequest{
		ClientID: client.ID.String(),
		Title:    "Done project",
		DueDate:  strPtr("2026-09-01"),
	})
	assert.NoError(t, err)
	_, err = env.svc.Complete(ctx, userID, first.ID.String())
	assert.NoError(t, err)

	second, err := env.svc.Create(ctx, userID, domain.CreateProjectRequest{
		ClientID: client.ID.String(),
		Title:    "Active project",
		DueDate:  strPtr("2026-12-01"),
	})
	assert.NoError(t, err)

	projects, err := env.svc.List(ctx, userID)
	assert.NoError(t, err)
	assert.Len(t, projects, 2)
	assert.Equal(t, second.ID, projects[0].ID)
	assert.Equal(t, first.ID, projects[1].ID)
}

func TestProjectDelete_Ownership(t *testing.T) {
	env := newProjectEnv(t)
	ctx := context.Background()
	userID := env.node.Generate()
	client := env.seedClient(t, userID)

	project, err := env.svc.Create(ctx, userID, domain.CreateProjectRequest{
		ClientID: client.ID.String(),
		Title:    "Website",
	})
	assert.NoError(t, err)

	err = env.svc.Delete(ctx, env.node.Generate(), project.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, env.svc.Delete(ctx, userID, project.ID.String()))
	_, err = env.svc.GetByID(ctx, userID, project.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
