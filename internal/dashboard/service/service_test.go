package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	clientdomain "github.com/smallbiznis/devgate/internal/client/domain"
	"github.com/smallbiznis/devgate/internal/dashboard/domain"
	"github.com/smallbiznis/devgate/internal/dashboard/repository"
	invoicedomain "github.com/smallbiznis/devgate/internal/invoice/domain"
	"github.com/smallbiznis/devgate/internal/migration"
	projectdomain "github.com/smallbiznis/devgate/internal/project/domain"
	timeentrydomain "github.com/smallbiznis/devgate/internal/timeentry/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type dashEnv struct {
	db   *gorm.DB
	svc  domain.Service
	node *snowflake.Node
}

func newDashEnv(t *testing.T) *dashEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, migration.AutoMigrate(db))

	node, _ := snowflake.NewNode(1)
	svc := New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
	return &dashEnv{db: db, svc: svc, node: node}
}

func (e *dashEnv) seedProject(t *testing.T, userID snowflake.ID, rate float64) projectdomain.Project {
	t.Helper()
	client := clientdomain.Client{ID: e.node.Generate(), UserID: userID, Name: "Acme"}
	assert.NoError(t, e.db.Create(&client).Error)
	project := projectdomain.Project{
		ID:       e.node.Generate(),
		ClientID: client.ID,
		Title:    "Website",
		Rate:     &rate,
	}
	assert.NoError(t, e.db.Create(&project).Error)
	return project
}

func TestOverview(t *testing.T) {
	env := newDashEnv(t)
	ctx := context.Background()
	userID := env.node.Generate()
	project := env.seedProject(t, userID, 100)
	now := time.Now().UTC()

	// 3 unbilled hours at 100/h, 1 billed hour that must not count.
	assert.NoError(t, env.db.Create(&timeentrydomain.TimeEntry{
		ID: env.node.Generate(), ProjectID: project.ID, Date: now, Hours: 3,
	}).Error)
	assert.NoError(t, env.db.Create(&timeentrydomain.TimeEntry{
		ID: env.node.Generate(), ProjectID: project.ID, Date: now, Hours: 1, Billed: true,
	}).Error)

	assert.NoError(t, env.db.Create(&invoicedomain.Invoice{
		ID: env.node.Generate(), UserID: userID, Date: now,
		Status: invoicedomain.StatusPending, Amount: 106.25,
	}).Error)
	assert.NoError(t, env.db.Create(&invoicedomain.Invoice{
		ID: env.node.Generate(), UserID: userID, Date: now,
		Status: invoicedomain.StatusPaid, Amount: 500,
	}).Error)
	// Paid months ago; outside the revenue window.
	assert.NoError(t, env.db.Create(&invoicedomain.Invoice{
		ID: env.node.Generate(), UserID: userID, Date: now.AddDate(0, -3, 0),
		Status: invoicedomain.StatusPaid, Amount: 999,
	}).Error)

	overview, err := env.svc.Overview(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, 3.0, overview.UnbilledHours)
	assert.Equal(t, 300.0, overview.UnbilledAmount)
	assert.Equal(t, int64(1), overview.OutstandingInvoices)
	assert.Equal(t, 106.25, overview.OutstandingAmount)
	assert.Equal(t, 500.0, overview.RevenueThisMonth)
}

func TestMetrics(t *testing.T) {
	env := newDashEnv(t)
	ctx := context.Background()
	userID := env.node.Generate()
	project := env.seedProject(t, userID, 100)
	now := time.Now().UTC()

	assert.NoError(t, env.db.Create(&timeentrydomain.TimeEntry{
		ID: env.node.Generate(), ProjectID: project.ID, Date: now, Hours: 4,
	}).Error)
	// Logged well before this week.
	assert.NoError(t, env.db.Create(&timeentrydomain.TimeEntry{
		ID: env.node.Generate(), ProjectID: project.ID, Date: now.AddDate(0, 0, -30), Hours: 8,
	}).Error)

	due := now.AddDate(0, 0, 3)
	assert.NoError(t, env.db.Create(&projectdomain.Project{
		ID: env.node.Generate(), ClientID: project.ClientID, Title: "Deadline soon", DueDate: &due,
	}).Error)
	past := now.AddDate(0, 0, -10)
	assert.NoError(t, env.db.Create(&projectdomain.Project{
		ID: env.node.Generate(), ClientID: project.ClientID, Title: "Already overdue", DueDate: &past,
	}).Error)
	far := now.AddDate(0, 0, 30)
	assert.NoError(t, env.db.Create(&projectdomain.Project{
		ID: env.node.Generate(), ClientID: project.ClientID, Title: "Far out", DueDate: &far,
	}).Error)

	assert.NoError(t, env.db.Create(&invoicedomain.Invoice{
		ID: env.node.Generate(), UserID: userID, Date: now,
		Status: invoicedomain.StatusPending, Amount: 50,
	}).Error)

	metrics, err := env.svc.Metrics(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, 4.0, metrics.HoursThisWeek)
	assert.Equal(t, int64(1), metrics.PendingInvoices)
	assert.Len(t, metrics.UpcomingDeadlines, 1)
	assert.Equal(t, "Deadline soon", metrics.UpcomingDeadlines[0].Title)
}

func TestOverview_ScopedToUser(t *testing.T) {
	env := newDashEnv(t)
	ctx := context.Background()
	userID := env.node.Generate()
	other := env.node.Generate()

	assert.NoError(t, env.db.Create(&invoicedomain.Invoice{
		ID: env.node.Generate(), UserID: other, Date: time.Now().UTC(),
		Status: invoicedomain.StatusPending, Amount: 100,
	}).Error)

	overview, err := env.svc.Overview(ctx, userID)
	assert.NoError(t, err)
	assert.Zero(t, overview.OutstandingInvoices)
	assert.Zero(t, overview.OutstandingAmount)
}
