package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExecutiveSummary(t *testing.T) {
	advisors := []Advisor{{ID: "a1", Name: "Ana"}}
	good := assignedClient("c1", "a1", 10000)
	late := assignedClient("c2", "a1", 10000)
	buro := assignedClient("c3", "a1", 10000)
	buro.CreditStatus = CreditStatusBuro
	clients := []Client{good, late, buro}

	invs := []Invoice{
		testInvoice("i1", "c1", 1000, testToday.AddDate(0, 1, 0), InvoiceStatusPendiente),
		testInvoice("i2", "c2", 2000, testToday.AddDate(0, 0, -11), InvoiceStatusVencida),
		testInvoice("i3", "c3", 4000, testToday.AddDate(0, 0, -50), InvoiceStatusVencida),
	}
	promises := promisesWith(1, 1, 0)

	s := BuildExecutiveSummary(clients, advisors, invs, promises, KPIOptions{Today: testToday})

	assert.True(t, s.TotalPortfolio.Equal(decimal.NewFromInt(7000)))
	// 货币口径包含核销客户
	assert.True(t, s.TotalOverdue.Equal(decimal.NewFromInt(6000)))
	// 行为口径只含 c1(0) 与 c2(11)，均值 5.5 → 6
	assert.Equal(t, 6, s.AverageDPD)
	assert.Equal(t, 3, s.TotalClients)
	assert.Equal(t, float64(50), s.PromiseCompliance.ComplianceRate)

	// buro 不进入告警
	require.Len(t, s.Alerts, 1)
	assert.Equal(t, "c2", s.Alerts[0].ClientID)

	// 欠款排行含 buro，按金额降序
	require.Len(t, s.TopDebtors, 2)
	assert.Equal(t, "c3", s.TopDebtors[0].ClientID)
	assert.Equal(t, "c2", s.TopDebtors[1].ClientID)
}

func TestBuildExecutiveSummary_OrphanChildCounted(t *testing.T) {
	orphan := testClient("c1", 5000)
	orphan.ParentClientID = strptr("desaparecido")

	invs := []Invoice{
		testInvoice("i1", "c1", 1000, testToday.AddDate(0, 0, -3), InvoiceStatusVencida),
	}

	s := BuildExecutiveSummary([]Client{orphan}, nil, invs, nil, KPIOptions{Today: testToday})

	// 父级缺失的子客户按顶层处理，其账单不得丢失
	assert.True(t, s.TotalPortfolio.Equal(decimal.NewFromInt(1000)))
	assert.True(t, s.TotalOverdue.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 3, s.AverageDPD)
}

func TestBuildExecutiveSummary_TopDebtorLimit(t *testing.T) {
	var clients []Client
	var invs []Invoice
	for i := 0; i < 20; i++ {
		id := string(rune('a' + i))
		clients = append(clients, testClient(id, 10000))
		invs = append(invs, testInvoice("i"+id, id, int64(100+i), testToday.AddDate(0, 0, -2), InvoiceStatusVencida))
	}

	s := BuildExecutiveSummary(clients, nil, invs, nil, KPIOptions{Today: testToday})

	require.Len(t, s.TopDebtors, 15)
	assert.True(t, s.TopDebtors[0].OverdueAmount.GreaterThanOrEqual(s.TopDebtors[14].OverdueAmount))
}
