package application

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	portfolio "github.com/wyfcoding/creditportfolio/internal/portfolio/domain"
)

type stubClientRepo struct {
	clients []*portfolio.Client
}

func (r *stubClientRepo) Save(context.Context, *portfolio.Client) error { return nil }
func (r *stubClientRepo) GetByID(context.Context, string) (*portfolio.Client, error) {
	return nil, portfolio.ErrClientNotFound
}
func (r *stubClientRepo) ListAll(context.Context) ([]*portfolio.Client, error) {
	return r.clients, nil
}
func (r *stubClientRepo) ListByAdvisor(context.Context, string) ([]*portfolio.Client, error) {
	return nil, nil
}
func (r *stubClientRepo) ListBillable(_ context.Context, cutDay int) ([]*portfolio.Client, error) {
	var out []*portfolio.Client
	for _, c := range r.clients {
		if c.CreditStatus == portfolio.CreditStatusActivo && c.CutDay == cutDay &&
			(c.BillingCycle == portfolio.BillingCycleMensual || c.BillingCycle == portfolio.BillingCycleQuincenal) {
			out = append(out, c)
		}
	}
	return out, nil
}
func (r *stubClientRepo) Delete(context.Context, string) error { return nil }

type stubInvoiceRepo struct {
	saved []*portfolio.Invoice
}

func (r *stubInvoiceRepo) Save(_ context.Context, inv *portfolio.Invoice) error {
	cp := *inv
	r.saved = append(r.saved, &cp)
	return nil
}
func (r *stubInvoiceRepo) GetByID(context.Context, string) (*portfolio.Invoice, error) {
	return nil, portfolio.ErrInvoiceNotFound
}
func (r *stubInvoiceRepo) ListAll(context.Context) ([]*portfolio.Invoice, error) {
	return r.saved, nil
}
func (r *stubInvoiceRepo) ListByClient(context.Context, string) ([]*portfolio.Invoice, error) {
	return nil, nil
}
func (r *stubInvoiceRepo) ExistsForPeriod(_ context.Context, clientID, period string) (bool, error) {
	for _, inv := range r.saved {
		if inv.ClientID == clientID && inv.Type == portfolio.InvoiceTypeRecurrente && inv.BillingPeriod == period {
			return true, nil
		}
	}
	return false, nil
}
func (r *stubInvoiceRepo) Delete(context.Context, string) error { return nil }

type stubPublisher struct {
	events []portfolio.DomainEvent
}

func (p *stubPublisher) Publish(e portfolio.DomainEvent) error {
	p.events = append(p.events, e)
	return nil
}

func newGenerator(clients ...*portfolio.Client) (*GeneratorService, *stubInvoiceRepo, *stubPublisher) {
	invoiceRepo := &stubInvoiceRepo{}
	publisher := &stubPublisher{}
	svc := NewGeneratorService(
		&stubClientRepo{clients: clients},
		invoiceRepo,
		publisher,
		GeneratorConfig{AmountPct: decimal.NewFromFloat(0.1), GraceDays: 3},
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return svc, invoiceRepo, publisher
}

func activeClient(id string, cutDay, payDay int) *portfolio.Client {
	return &portfolio.Client{
		ID:           id,
		Name:         "Cliente " + id,
		CreditLine:   decimal.NewFromInt(20000),
		CreditStatus: portfolio.CreditStatusActivo,
		BillingCycle: portfolio.BillingCycleMensual,
		CutDay:       cutDay,
		PayDay:       payDay,
	}
}

func TestGeneratorService_Run(t *testing.T) {
	today := time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC)
	svc, invoiceRepo, publisher := newGenerator(
		activeClient("aaaa-1", 15, 28),
		activeClient("bbbb-2", 20, 28),
	)

	generated, err := svc.Run(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, 1, generated)

	require.Len(t, invoiceRepo.saved, 1)
	inv := invoiceRepo.saved[0]
	assert.Equal(t, "aaaa-1", inv.ClientID)
	assert.Equal(t, "REC-AAAA-2026-03", inv.Number)
	assert.True(t, inv.Amount.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, 3, inv.GraceDays)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, "billing.invoices.generated", publisher.events[0].EventName())
}

func TestGeneratorService_Run_IdempotentPerPeriod(t *testing.T) {
	today := time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC)
	svc, invoiceRepo, _ := newGenerator(activeClient("aaaa-1", 15, 28))

	first, err := svc.Run(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := svc.Run(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, 0, second)
	assert.Len(t, invoiceRepo.saved, 1)
}

func TestGeneratorService_Run_NoBillableClients(t *testing.T) {
	today := time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC)
	buro := activeClient("cccc-3", 15, 28)
	buro.CreditStatus = portfolio.CreditStatusBuro
	svc, invoiceRepo, _ := newGenerator(buro)

	generated, err := svc.Run(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, 0, generated)
	assert.Empty(t, invoiceRepo.saved)
}
