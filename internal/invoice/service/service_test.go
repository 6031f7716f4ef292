package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	authdomain "github.com/smallbiznis/devgate/internal/auth/domain"
	catalogdomain "github.com/smallbiznis/devgate/internal/catalog/domain"
	catalogservice "github.com/smallbiznis/devgate/internal/catalog/service"
	clientdomain "github.com/smallbiznis/devgate/internal/client/domain"
	clientrepository "github.com/smallbiznis/devgate/internal/client/repository"
	"github.com/smallbiznis/devgate/internal/invoice/domain"
	"github.com/smallbiznis/devgate/internal/invoice/render"
	"github.com/smallbiznis/devgate/internal/invoice/repository"
	"github.com/smallbiznis/devgate/internal/migration"
	projectdomain "github.com/smallbiznis/devgate/internal/project/domain"
	projectrepository "github.com/smallbiznis/devgate/internal/project/repository"
	"github.com/smallbiznis/devgate/internal/providers/email"
	timeentrydomain "github.com/smallbiznis/devgate/internal/timeentry/domain"
	timeentryrepository "github.com/smallbiznis/devgate/internal/timeentry/repository"
	timeentryservice "github.com/smallbiznis/devgate/internal/timeentry/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mockEmailProvider struct {
	mock.Mock
}

func (m *mockEmailProvider) Send(ctx context.Context, msg email.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type testEnv struct {
	db      *gorm.DB
	node    *snowflake.Node
	svc     domain.Service
	email   *mockEmailProvider
	entries timeentrydomain.Service
	catalog catalogdomain.Catalog
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, migration.AutoMigrate(db))

	node, _ := snowflake.NewNode(1)
	logger := zap.NewNop()

	entrySvc := timeentryservice.New(timeentryservice.Params{
		DB:          db,
		Log:         logger,
		GenID:       node,
		Repo:        timeentryrepository.Provide(),
		ProjectRepo: projectrepository.Provide(),
	})
	catalogSvc := catalogservice.New(catalogservice.Params{
		DB:    db,
		Log:   logger,
		GenID: node,
	})

	emailProvider := &mockEmailProvider{}
	svc := New(Params{
		DB:          db,
		Log:         logger,
		GenID:       node,
		Repo:        repository.Provide(),
		ClientRepo:  clientrepository.Provide(),
		TimeEntries: entrySvc,
		Catalog:     catalogSvc,
		Renderer:    render.New(),
		Email:       emailProvider,
	})

	return &testEnv{
		db:      db,
		node:    node,
		svc:     svc,
		email:   emailProvider,
		entries: entrySvc,
		catalog: catalogSvc,
	}
}

func (e *testEnv) seedUser(t *testing.T) snowflake.ID {
	t.Helper()
	user := authdomain.User{
		ID:           e.node.Generate(),
		Email:        fmt.Sprintf("%s@example.com", e.node.Generate()),
		PasswordHash: "x",
	}
	assert.NoError(t, e.db.Create(&user).Error)
	return user.ID
}

func (e *testEnv) seedClient(t *testing.T, userID snowflake.ID, contact string) clientdomain.Client {
	t.Helper()
	client := clientdomain.Client{
		ID:     e.node.Generate(),
		UserID: userID,
		Name:   "Acme",
	}
	if contact != "" {
		client.Contact = &contact
	}
	assert.NoError(t, e.db.Create(&client).Error)
	return client
}

func (e *testEnv) seedProject(t *testing.T, clientID snowflake.ID, rate float64) projectdomain.Project {
	t.Helper()
	project := projectdomain.Project{
		ID:       e.node.Generate(),
		ClientID: clientID,
		Title:    "Website",
		Rate:     &rate,
	}
	assert.NoError(t, e.db.Create(&project).Error)
	return project
}

func (e *testEnv) seedEntry(t *testing.T, projectID snowflake.ID, hours float64) timeentrydomain.TimeEntry {
	t.Helper()
	entry := timeentrydomain.TimeEntry{
		ID:        e.node.Generate(),
		ProjectID: projectID,
		Date:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Hours:     hours,
	}
	assert.NoError(t, e.db.Create(&entry).Error)
	return entry
}

func (e *testEnv) seedService(t *testing.T, userID snowflake.ID, fee float64) catalogdomain.Service {
	t.Helper()
	service := catalogdomain.Service{
		ID:     e.node.Generate(),
		UserID: userID,
		Name:   "Logo design",
		Fee:    fee,
	}
	assert.NoError(t, e.db.Create(&service).Error)
	return service
}

func TestCreate_ComputesTotalsAndFlipsBilled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.seedUser(t)
	client := env.seedClient(t, userID, "billing@acme.test")
	project := env.seedProject(t, client.ID, 100)
	first := env.seedEntry(t, project.ID, 3)
	second := env.seedEntry(t, project.ID, 1.5)
	service := env.seedService(t, userID, 250)

	invoice, err := env.svc.Create(ctx, userID, domain.CreateInvoiceRequest{
		EntryIDs:   []string{first.ID.String(), second.ID.String()},
		ServiceIDs: []string{service.ID.String()},
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPending, invoice.Status)
	// (3 + 1.5) * 100 + 250 = 700, plus 6.25% tax
	assert.Equal(t, 743.75, invoice.Amount)
	assert.NotNil(t, invoice.ClientID)
	assert.Equal(t, client.ID, *invoice.ClientID)

	var billedCount int64
	env.db.Model(&timeentrydomain.TimeEntry{}).
		Where("billed = ?", true).Count(&billedCount)
	assert.Equal(t, int64(2), billedCount)

	var entryLinks, serviceLinks int64
	env.db.Model(&domain.InvoiceEntry{}).Where("invoice_id = ?", invoice.ID).Count(&entryLinks)
	env.db.Model(&domain.InvoiceService{}).Where("invoice_id = ?", invoice.ID).Count(&serviceLinks)
	assert.Equal(t, int64(2), entryLinks)
	assert.Equal(t, int64(1), serviceLinks)
}

func TestCreate_EmptySelectionIsLegal(t *testing.T) {
	env := newTestEnv(t)
	userID := env.seedUser(t)

	invoice, err := env.svc.Create(context.Background(), userID, domain.CreateInvoiceRequest{})
	assert.NoError(t, err)
	assert.Zero(t, invoice.Amount)
	assert.Nil(t, invoice.ClientID)
	assert.Equal(t, domain.StatusPending, invoice.Status)
}

func TestCreate_RejectsForeignEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t)
	stranger := env.seedUser(t)
	client := env.seedClient(t, owner, "")
	project := env.seedProject(t, client.ID, 100)
	entry := env.seedEntry(t, project.ID, 2)

	_, err := env.svc.Create(ctx, stranger, domain.CreateInvoiceRequest{
		EntryIDs: []string{entry.ID.String()},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
}

func TestCreate_RejectsMixedClients(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.seedUser(t)
	clientA := env.seedClient(t, userID, "")
	clientB := env.seedClient(t, userID, "")
	entryA := env.seedEntry(t, env.seedProject(t, clientA.ID, 100).ID, 1)
	entryB := env.seedEntry(t, env.seedProject(t, clientB.ID, 100).ID, 1)

	_, err := env.svc.Create(ctx, userID, domain.CreateInvoiceRequest{
		EntryIDs: []string{entryA.ID.String(), entryB.ID.String()},
	})
	assert.ErrorIs(t, err, domain.ErrMixedClients)
}

func TestCreate_RejectsAlreadyBilledEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.seedUser(t)
	client := env.seedClient(t, userID, "")
	project := env.seedProject(t, client.ID, 100)
	entry := env.seedEntry(t, project.ID, 2)

	_, err := env.svc.Create(ctx, userID, domain.CreateInvoiceRequest{
		EntryIDs: []string{entry.ID.String()},
	})
	assert.NoError(t, err)

	_, err = env.svc.Create(ctx, userID, domain.CreateInvoiceRequest{
		EntryIDs: []string{entry.ID.String()},
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyBilled)
}

func TestCreate_RollsBackOnLinkFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.seedUser(t)
	client := env.seedClient(t, userID, "")
	project := env.seedProject(t, client.ID, 100)
	entry := env.seedEntry(t, project.ID, 2)

	// Occupy the entry's unique link slot so the link insert inside the
	// transaction fails after the invoice row was written.
	conflict := domain.InvoiceEntry{
		InvoiceID:   env.node.Generate(),
		TimeEntryID: entry.ID,
	}
	assert.NoError(t, env.db.Create(&conflict).Error)

	_, err := env.svc.Create(ctx, userID, domain.CreateInvoiceRequest{
		EntryIDs: []string{entry.ID.String()},
	})
	assert.Error(t, err)

	var invoiceCount int64
	env.db.Model(&domain.Invoice{}).Count(&invoiceCount)
	assert.Zero(t, invoiceCount)

	var refreshed timeentrydomain.TimeEntry
	assert.NoError(t, env.db.First(&refreshed, "id = ?", entry.ID).Error)
	assert.False(t, refreshed.Billed)
}

func TestGet_ResolvesLinesAndTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.seedUser(t)
	client := env.seedClient(t, userID, "")
	project := env.seedProject(t, client.ID, 150)
	entry := env.seedEntry(t, project.ID, 2)
	service := env.seedService(t, userID, 80)

	invoice, err := env.svc.Create(ctx, userID, domain.CreateInvoiceRequest{
		EntryIDs:   []string{entry.ID.String()},
		ServiceIDs: []string{service.ID.String()},
	})
	assert.NoError(t, err)

	detail, err := env.svc.Get(ctx, userID, invoice.ID.String())
	assert.NoError(t, err)
	assert.Len(t, detail.Entries, 1)
	assert.Len(t, detail.Services, 1)
	assert.Equal(t, "Acme", detail.Entries[0].ClientName)
	assert.Equal(t, invoice.Amount, detail.Totals.Total)
	assert.NotNil(t, detail.ClientName)
	assert.Equal(t, "Acme", *detail.ClientName)

	_, err = env.svc.Get(ctx, userID, env.node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoicedLinesCannotBeRemoved(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.seedUser(t)
	client := env.seedClient(t, userID, "billing@acme.test")
	project := env.seedProject(t, client.ID, 100)
	entry := env.seedEntry(t, project.ID, 2)
	service := env.seedService(t, userID, 250)

	invoice, err := env.svc.Create(ctx, userID, domain.CreateInvoiceRequest{
		EntryIDs:   []string{entry.ID.String()},
		ServiceIDs: []string{service.ID.String()},
	})
	assert.NoError(t, err)

	err = env.entries.Delete(ctx, userID, entry.ID.String())
	assert.ErrorIs(t, err, timeentrydomain.ErrEntryBilled)

	err = env.catalog.Delete(ctx, userID, service.ID.String())
	assert.ErrorIs(t, err, catalogdomain.ErrInvoiced)

	// The recomputed totals still match the persisted amount.
	detail, err := env.svc.Get(ctx, userID, invoice.ID.String())
	assert.NoError(t, err)
	assert.Len(t, detail.Entries, 1)
	assert.Len(t, detail.Services, 1)
	assert.Equal(t, invoice.Amount, detail.Totals.Total)

	// A service on no invoice still deletes freely.
	spare := env.seedService(t, userID, 40)
	assert.NoError(t, env.catalog.Delete(ctx, userID, spare.ID.String()))
}

func TestMarkPaid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.seedUser(t)
	invoice, err := env.svc.Create(ctx, userID, domain.CreateInvoiceRequest{})
	assert.NoError(t, err)

	paid, err := env.svc.MarkPaid(ctx, userID, invoice.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, paid.Status)

	// Marking again is a no-op, not an error.
	paid, err = env.svc.MarkPaid(ctx, userID, invoice.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, paid.Status)

	_, err = env.svc.MarkPaid(ctx, env.seedUser(t), invoice.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListBillable_ExcludesBilledEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.seedUser(t)
	client := env.seedClient(t, userID, "")
	project := env.seedProject(t, client.ID, 100)
	billedEntry := env.seedEntry(t, project.ID, 1)
	openEntry := env.seedEntry(t, project.ID, 2)
	env.seedService(t, userID, 50)

	_, err := env.svc.Create(ctx, userID, domain.CreateInvoiceRequest{
		EntryIDs: []string{billedEntry.ID.String()},
	})
	assert.NoError(t, err)

	billable, err := env.svc.ListBillable(ctx, userID, "")
	assert.NoError(t, err)
	assert.Len(t, billable.Entries, 1)
	assert.Equal(t, openEntry.ID, billable.Entries[0].ID)
	// Services carry no billed flag; they stay selectable forever.
	assert.Len(t, billable.Services, 1)

	// An unknown client narrows to nothing rather than failing.
	billable, err = env.svc.ListBillable(ctx, userID, "999999")
	assert.NoError(t, err)
	assert.Empty(t, billable.Entries)
}

func TestRender_ProducesPDF(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.seedUser(t)
	client := env.seedClient(t, userID, "")
	project := env.seedProject(t, client.ID, 100)
	entry := env.seedEntry(t, project.ID, 2)

	invoice, err := env.svc.Create(ctx, userID, domain.CreateInvoiceRequest{
		EntryIDs: []string{entry.ID.String()},
	})
	assert.NoError(t, err)

	first, err := env.svc.Render(ctx, userID, invoice.ID.String())
	assert.NoError(t, err)
	assert.True(t, len(first) > 500)
	assert.Equal(t, "%PDF", string(first[:4]))

	// Same aggregate, same document body.
	second, err := env.svc.Render(ctx, userID, invoice.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, len(first), len(second))
}

func TestSend_DeliversAttachment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.seedUser(t)
	client := env.seedClient(t, userID, "billing@acme.test")
	project := env.seedProject(t, client.ID, 100)
	entry := env.seedEntry(t, project.ID, 2)

	invoice, err := env.svc.Create(ctx, userID, domain.CreateInvoiceRequest{
		EntryIDs: []string{entry.ID.String()},
	})
	assert.NoError(t, err)

	env.email.On("Send", mock.Anything, mock.MatchedBy(func(msg email.Message) bool {
		return len(msg.To) == 1 &&
			msg.To[0] == "billing@acme.test" &&
			msg.Subject == fmt.Sprintf("Invoice #%s", invoice.ID.String()) &&
			msg.AttachmentName == fmt.Sprintf("invoice-%s.pdf", invoice.ID.String()) &&
			len(msg.Attachment) > 0
	})).Return(nil).Once()

	assert.NoError(t, env.svc.Send(ctx, userID, invoice.ID.String()))
	env.email.AssertExpectations(t)
}

func TestSend_NoContact(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.seedUser(t)
	client := env.seedClient(t, userID, "")
	project := env.seedProject(t, client.ID, 100)
	entry := env.seedEntry(t, project.ID, 2)

	invoice, err := env.svc.Create(ctx, userID, domain.CreateInvoiceRequest{
		EntryIDs: []string{entry.ID.String()},
	})
	assert.NoError(t, err)

	err = env.svc.Send(ctx, userID, invoice.ID.String())
	assert.ErrorIs(t, err, domain.ErrNoContact)
	env.email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSend_TransportFailureLeavesInvoiceIntact(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.seedUser(t)
	client := env.seedClient(t, userID, "billing@acme.test")
	project := env.seedProject(t, client.ID, 100)
	entry := env.seedEntry(t, project.ID, 2)

	invoice, err := env.svc.Create(ctx, userID, domain.CreateInvoiceRequest{
		EntryIDs: []string{entry.ID.String()},
	})
	assert.NoError(t, err)

	env.email.On("Send", mock.Anything, mock.Anything).
		Return(fmt.Errorf("connection refused")).Once()

	err = env.svc.Send(ctx, userID, invoice.ID.String())
	assert.ErrorIs(t, err, domain.ErrSendFailed)

	detail, err := env.svc.Get(ctx, userID, invoice.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPending, detail.Status)
}

func TestList_ScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.seedUser(t)
	other := env.seedUser(t)

	_, err := env.svc.Create(ctx, userID, domain.CreateInvoiceRequest{})
	assert.NoError(t, err)

	mine, err := env.svc.List(ctx, userID)
	assert.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := env.svc.List(ctx, other)
	assert.NoError(t, err)
	assert.Empty(t, theirs)
}
