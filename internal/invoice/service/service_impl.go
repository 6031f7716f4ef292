package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/devgate/internal/catalog/domain"
	clientrepository "github.com/smallbiznis/devgate/internal/client/repository"
	"github.com/smallbiznis/devgate/internal/invoice/domain"
	"github.com/smallbiznis/devgate/internal/invoice/render"
	"github.com/smallbiznis/devgate/internal/invoice/repository"
	"github.com/smallbiznis/devgate/internal/providers/email"
	timeentrydomain "github.com/smallbiznis/devgate/internal/timeentry/domain"
	"github.com/smallbiznis/devgate/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        repository.Repository
	ClientRepo  clientrepository.Repository
	TimeEntries timeentrydomain.Service
	Catalog     catalogdomain.Catalog
	Renderer    render.Renderer
	Email       email.Provider
	Metrics     *telemetry.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        repository.Repository
	clientRepo  clientrepository.Repository
	timeEntries timeentrydomain.Service
	catalog     catalogdomain.Catalog
	renderer    render.Renderer
	email       email.Provider
	metrics     *telemetry.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("invoice.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		clientRepo:  p.ClientRepo,
		timeEntries: p.TimeEntries,
		catalog:     p.Catalog,
		renderer:    p.Renderer,
		email:       p.Email,
		metrics:     p.Metrics,
	}
}

func (s *Service) ListBillable(ctx context.Context, userID snowflake.ID, clientID string) (domain.Billable, error) {
	if userID == 0 {
		return domain.Billable{}, domain.ErrInvalidUser
	}

	entries, err := s.timeEntries.ListUnbilled(ctx, userID, clientID)
	if err != nil {
		return domain.Billable{}, err
	}
	services, err := s.catalog.List(ctx, userID)
	if err != nil {
		return domain.Billable{}, err
	}

	return domain.Billable{Entries: entries, Services: services}, nil
}

func (s *Service) List(ctx context.Context, userID snowflake.ID) ([]domain.ListItem, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}

	rows, err := s.repo.List(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ListItem, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		items = append(items, *row)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, userID snowflake.ID, id string) (domain.Detail, error) {
	if userID == 0 {
		return domain.Detail{}, domain.ErrInvalidUser
	}

	invoiceID, err := parseID(id)
	if err != nil {
		return domain.Detail{}, err
	}
	return s.detail(ctx, userID, invoiceID)
}

// Create persists a new pending invoice from the selected items. The
// invoice row, its line links, and the billed-flag flips on the
// selected time entries commit as one transaction; any failure rolls
// the whole invoice back.
func (s *Service) Create(ctx context.Context, userID snowflake.ID, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	if userID == 0 {
		return domain.Invoice{}, domain.ErrInvalidUser
	}

	entryIDs, err := parseIDs(req.EntryIDs)
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidSelection
	}
	serviceIDs, err := parseIDs(req.ServiceIDs)
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidSelection
	}

	entries, err := s.repo.FindEntriesByIDs(ctx, s.db, userID, entryIDs)
	if err != nil {
		return domain.Invoice{}, err
	}
	if len(entries) != len(entryIDs) {
		return domain.Invoice{}, domain.ErrInvalidSelection
	}

	var clientID *snowflake.ID
	for _, entry := range entries {
		if entry.Billed {
			return domain.Invoice{}, domain.ErrAlreadyBilled
		}
		if clientID == nil {
			id := entry.ClientID
			clientID = &id
		} else if *clientID != entry.ClientID {
			return domain.Invoice{}, domain.ErrMixedClients
		}
	}

	services, err := s.repo.FindServicesByIDs(ctx, s.db, userID, serviceIDs)
	if err != nil {
		return domain.Invoice{}, err
	}
	if len(services) != len(serviceIDs) {
		return domain.Invoice{}, domain.ErrInvalidSelection
	}

	entryLines := make([]domain.EntryLine, 0, len(entries))
	for _, entry := range entries {
		entryLines = append(entryLines, domain.EntryLine{
			ID:           entry.ID,
			ClientName:   entry.ClientName,
			ProjectTitle: entry.ProjectTitle,
			Date:         entry.Date,
			Hours:        entry.Hours,
			Rate:         entry.Rate,
		})
	}
	serviceLines := make([]domain.ServiceLine, 0, len(services))
	for _, service := range services {
		serviceLines = append(serviceLines, domain.ServiceLine{
			ID:          service.ID,
			Name:        service.Name,
			Description: service.Description,
			Fee:         service.Fee,
		})
	}

	totals := domain.CalculateTotals(entryLines, serviceLines).Rounded()
	now := time.Now().UTC()
	invoice := domain.Invoice{
		ID:       s.genID.Generate(),
		UserID:   userID,
		ClientID: clientID,
		Date:     now,
		Status:   domain.StatusPending,
		Amount:   totals.Total,
		Metadata: datatypes.JSONMap{
			"time_subtotal":    totals.TimeSubtotal,
			"service_subtotal": totals.ServiceSubtotal,
			"subtotal":         totals.Subtotal,
			"tax":              totals.Tax,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	entryLinks := make([]domain.InvoiceEntry, 0, len(entryIDs))
	for _, id := range entryIDs {
		entryLinks = append(entryLinks, domain.InvoiceEntry{InvoiceID: invoice.ID, TimeEntryID: id})
	}
	serviceLinks := make([]domain.InvoiceService, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		serviceLinks = append(serviceLinks, domain.InvoiceService{InvoiceID: invoice.ID, ServiceID: id})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &invoice); err != nil {
			return err
		}
		if err := s.repo.InsertEntryLinks(ctx, tx, entryLinks); err != nil {
			return err
		}
		if err := s.repo.InsertServiceLinks(ctx, tx, serviceLinks); err != nil {
			return err
		}
		return s.repo.MarkEntriesBilled(ctx, tx, entryIDs)
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.metrics.InvoiceCreated(string(invoice.Status), invoice.Amount)
	s.log.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.Int("entries", len(entryLinks)),
		zap.Int("services", len(serviceLinks)),
		zap.Float64("amount", invoice.Amount),
	)
	return invoice, nil
}

func (s *Service) MarkPaid(ctx context.Context, userID snowflake.ID, id string) (domain.Invoice, error) {
	if userID == 0 {
		return domain.Invoice{}, domain.ErrInvalidUser
	}

	invoiceID, err := parseID(id)
	if err != nil {
		return domain.Invoice{}, err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, userID, invoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	if invoice.Status == domain.StatusPaid {
		return *invoice, nil
	}

	if err := s.repo.UpdateStatus(ctx, s.db, invoiceID, domain.StatusPaid); err != nil {
		return domain.Invoice{}, err
	}
	invoice.Status = domain.StatusPaid
	return *invoice, nil
}

func (s *Service) Render(ctx context.Context, userID snowflake.ID, id string) ([]byte, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}

	invoiceID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	detail, err := s.detail(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(ctx, detail)
}

// Send renders the invoice and mails it to the client contact. The
// invoice keeps its prior state on transport failure; the caller can
// retry the send without recreating anything.
func (s *Service) Send(ctx context.Context, userID snowflake.ID, id string) error {
	if userID == 0 {
		return domain.ErrInvalidUser
	}

	invoiceID, err := parseID(id)
	if err != nil {
		return err
	}

	detail, err := s.detail(ctx, userID, invoiceID)
	if err != nil {
		return err
	}

	contact, clientName, err := s.resolveContact(ctx, userID, detail)
	if err != nil {
		return err
	}

	document, err := s.renderer.Render(ctx, detail)
	if err != nil {
		return err
	}

	msg := email.Message{
		To:      []string{contact},
		Subject: fmt.Sprintf("Invoice #%s", detail.ID.String()),
		Body: fmt.Sprintf("Hello %s,\n\nPlease find attached your invoice #%s.\n\nThanks!",
			clientName, detail.ID.String()),
		AttachmentName: fmt.Sprintf("invoice-%s.pdf", detail.ID.String()),
		Attachment:     document,
	}

	if err := s.email.Send(ctx, msg); err != nil {
		s.metrics.InvoiceEmail("failed")
		s.log.Error("invoice send failed",
			zap.String("invoice_id", detail.ID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", domain.ErrSendFailed, err)
	}

	s.metrics.InvoiceEmail("sent")
	s.log.Info("invoice sent",
		zap.String("invoice_id", detail.ID.String()),
		zap.String("to", contact),
	)
	return nil
}

func (s *Service) detail(ctx context.Context, userID, invoiceID snowflake.ID) (domain.Detail, error) {
	invoice, err := s.repo.FindByID(ctx, s.db, userID, invoiceID)
	if err != nil {
		return domain.Detail{}, err
	}
	if invoice == nil {
		return domain.Detail{}, domain.ErrNotFound
	}

	entries, err := s.repo.EntryLines(ctx, s.db, invoiceID)
	if err != nil {
		return domain.Detail{}, err
	}
	services, err := s.repo.ServiceLines(ctx, s.db, invoiceID)
	if err != nil {
		return domain.Detail{}, err
	}

	detail := domain.Detail{
		Invoice:  *invoice,
		Entries:  entries,
		Services: services,
		Totals:   domain.CalculateTotals(entries, services).Rounded(),
	}

	if invoice.ClientID != nil {
		client, err := s.clientRepo.FindByID(ctx, s.db, userID, *invoice.ClientID)
		if err != nil {
			return domain.Detail{}, err
		}
		if client != nil {
			detail.ClientName = &client.Name
		}
	}
	return detail, nil
}

func (s *Service) resolveContact(ctx context.Context, userID snowflake.ID, detail domain.Detail) (string, string, error) {
	if detail.ClientID == nil {
		return "", "", domain.ErrNoContact
	}

	client, err := s.clientRepo.FindByID(ctx, s.db, userID, *detail.ClientID)
	if err != nil {
		return "", "", err
	}
	if client == nil || client.Contact == nil || strings.TrimSpace(*client.Contact) == "" {
		return "", "", domain.ErrNoContact
	}
	return *client.Contact, client.Name, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func parseIDs(values []string) ([]snowflake.ID, error) {
	ids := make([]snowflake.ID, 0, len(values))
	seen := make(map[snowflake.ID]struct{}, len(values))
	for _, value := range values {
		id, err := snowflake.ParseString(strings.TrimSpace(value))
		if err != nil || id == 0 {
			return nil, domain.ErrInvalidID
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
