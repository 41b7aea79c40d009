package application

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/creditportfolio/internal/portfolio/domain"
)

func seedOverdueClient(t *testing.T, cmd *CommandService, store *fakeStore, name string, daysLate int) string {
	t.Helper()
	clientID := mustCreateClient(t, cmd, CreateClientCommand{Name: name, CreditLine: decimal.NewFromInt(10000)})
	invID := mustCreateInvoice(t, cmd, clientID, 1000, time.Now().AddDate(0, 0, -daysLate))
	store.invoices[invID].Status = domain.InvoiceStatusVencida
	return clientID
}

func TestQueryService_GetClientKPI(t *testing.T) {
	cmd, query, store, _, _ := newTestServices()
	clientID := seedOverdueClient(t, cmd, store, "Moroso", 12)

	kpi, err := query.GetClientKPI(context.Background(), clientID)
	require.NoError(t, err)

	assert.Equal(t, 12, kpi.AverageDaysPastDue)
	assert.Equal(t, domain.RiskTierPesimo, kpi.RiskTier)
	assert.True(t, kpi.OverdueAmount.Equal(decimal.NewFromInt(1000)))
}

func TestQueryService_GetClientKPI_NotFound(t *testing.T) {
	_, query, _, _, _ := newTestServices()

	_, err := query.GetClientKPI(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestQueryService_GetAlerts_PublishesEvents(t *testing.T) {
	cmd, query, store, publisher, _ := newTestServices()
	seedOverdueClient(t, cmd, store, "Moroso", 15)

	alerts, err := query.GetAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, 15, alerts[0].DPD)

	var alertEvents int
	for _, e := range publisher.published() {
		if e.EventName() == "portfolio.alerts" {
			alertEvents++
		}
	}
	assert.Equal(t, 1, alertEvents)
}

func TestQueryService_GetAlerts_CachedSecondRead(t *testing.T) {
	cmd, query, store, publisher, _ := newTestServices()
	seedOverdueClient(t, cmd, store, "Moroso", 15)

	_, err := query.GetAlerts(context.Background())
	require.NoError(t, err)
	before := len(publisher.published())

	again, err := query.GetAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, again, 1)
	// 命中缓存时不重复发布
	assert.Equal(t, before, len(publisher.published()))
}

func TestQueryService_GetExecutiveSummary(t *testing.T) {
	cmd, query, store, _, _ := newTestServices()
	seedOverdueClient(t, cmd, store, "Moroso", 8)
	mustCreateClient(t, cmd, CreateClientCommand{Name: "Sano", CreditLine: decimal.NewFromInt(5000)})

	s, err := query.GetExecutiveSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, s.TotalClients)
	assert.True(t, s.TotalOverdue.Equal(decimal.NewFromInt(1000)))
	require.Len(t, s.TopDebtors, 1)
	assert.Equal(t, "Moroso", s.TopDebtors[0].ClientName)
}

func TestQueryService_GetPromiseCompliance_Scoped(t *testing.T) {
	cmd, query, _, _, _ := newTestServices()
	c1 := mustCreateClient(t, cmd, CreateClientCommand{Name: "a", CreditLine: decimal.NewFromInt(100)})
	c2 := mustCreateClient(t, cmd, CreateClientCommand{Name: "b", CreditLine: decimal.NewFromInt(100)})

	p1, err := cmd.CreatePromise(context.Background(), CreatePromiseCommand{ClientID: c1, Amount: decimal.NewFromInt(10), PromiseDate: time.Now()})
	require.NoError(t, err)
	require.NoError(t, cmd.ResolvePromise(context.Background(), p1, domain.PromiseStatusCumplida))
	_, err = cmd.CreatePromise(context.Background(), CreatePromiseCommand{ClientID: c2, Amount: decimal.NewFromInt(10), PromiseDate: time.Now()})
	require.NoError(t, err)

	global, err := query.GetPromiseCompliance(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, global.Total)
	assert.Equal(t, float64(100), global.ComplianceRate)

	scoped, err := query.GetPromiseCompliance(context.Background(), c2)
	require.NoError(t, err)
	assert.Equal(t, 1, scoped.Total)
	assert.Equal(t, 1, scoped.Pendientes)
	assert.Equal(t, float64(0), scoped.ComplianceRate)
}

func TestQueryService_GetClientTimeline(t *testing.T) {
	cmd, query, _, _, _ := newTestServices()
	clientID := mustCreateClient(t, cmd, CreateClientCommand{Name: "x", CreditLine: decimal.NewFromInt(100)})
	mustCreateInvoice(t, cmd, clientID, 100, time.Now().AddDate(0, 1, 0))
	_, err := cmd.AddNote(context.Background(), AddNoteCommand{ClientID: clientID, Type: "llamada", Content: "llamada realizada", CreatedBy: "ana"})
	require.NoError(t, err)

	tl, err := query.GetClientTimeline(context.Background(), clientID)
	require.NoError(t, err)
	assert.Len(t, tl.Notes, 1)
	assert.Equal(t, "llamada", tl.Notes[0].Type)
	assert.Len(t, tl.Invoices, 1)
	assert.Empty(t, tl.Promises)
}

func TestQueryService_ExportClientKPIs(t *testing.T) {
	cmd, query, store, _, _ := newTestServices()
	seedOverdueClient(t, cmd, store, "Moroso", 12)

	var buf bytes.Buffer
	require.NoError(t, query.ExportClientKPIs(context.Background(), &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\xEF\xBB\xBF"), "csv must start with UTF-8 BOM")
	assert.Contains(t, out, "Cliente,Asesor,Riesgo")
	assert.Contains(t, out, "Moroso")
}

func TestQueryService_ExportWrittenOffPortfolio_FiltersBuro(t *testing.T) {
	cmd, query, store, _, _ := newTestServices()
	seedOverdueClient(t, cmd, store, "Activo SA", 3)
	buroID := seedOverdueClient(t, cmd, store, "Castigado SA", 90)
	store.clients[buroID].CreditStatus = domain.CreditStatusBuro

	var buf bytes.Buffer
	require.NoError(t, query.ExportWrittenOffPortfolio(context.Background(), &buf))

	out := buf.String()
	assert.Contains(t, out, "Castigado SA")
	assert.NotContains(t, out, "Activo SA")
}
