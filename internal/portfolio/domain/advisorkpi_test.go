package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func assignedClient(id, advisorID string, limit int64) Client {
	c := testClient(id, limit)
	c.AdvisorID = &advisorID
	return c
}

func TestCalcAdvisorKPI_MonetaryAndRate(t *testing.T) {
	advisor := Advisor{ID: "a1", Name: "Ana"}
	c1 := assignedClient("c1", "a1", 10000)
	c2 := assignedClient("c2", "a1", 10000)
	other := assignedClient("c3", "a2", 10000)
	clients := []Client{c1, c2, other}

	invs := []Invoice{
		testInvoice("i1", "c1", 1000, testToday.AddDate(0, 0, -4), InvoiceStatusVencida),
		testInvoice("i2", "c2", 3000, testToday.AddDate(0, 1, 0), InvoiceStatusPendiente),
		testInvoice("i3", "c3", 9999, testToday.AddDate(0, 0, -4), InvoiceStatusVencida),
	}

	kpi := CalcAdvisorKPI(advisor, clients, invs, KPIOptions{Today: testToday})

	assert.True(t, kpi.TotalPortfolio.Equal(decimal.NewFromInt(4000)))
	assert.True(t, kpi.OverdueAmount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, float64(25), kpi.OverdueRate)
	assert.Equal(t, 2, kpi.TotalClients)
}

func TestCalcAdvisorKPI_EmptyPortfolio(t *testing.T) {
	advisor := Advisor{ID: "a1", Name: "Ana"}
	kpi := CalcAdvisorKPI(advisor, nil, nil, KPIOptions{Today: testToday})

	assert.True(t, kpi.TotalPortfolio.IsZero())
	assert.Equal(t, float64(0), kpi.OverdueRate)
	assert.Equal(t, 0, kpi.AverageDPD)
	assert.Equal(t, 0, kpi.ClientsAtRisk)
}

func TestCalcAdvisorKPI_BuroExcludedFromBehavior(t *testing.T) {
	advisor := Advisor{ID: "a1", Name: "Ana"}
	good := assignedClient("c1", "a1", 10000)
	buro := assignedClient("c2", "a1", 10000)
	buro.CreditStatus = CreditStatusBuro
	clients := []Client{good, buro}

	invs := []Invoice{
		// 核销客户严重逾期，仅计入货币口径
		testInvoice("i1", "c2", 5000, testToday.AddDate(0, 0, -60), InvoiceStatusVencida),
		testInvoice("i2", "c1", 1000, testToday.AddDate(0, 1, 0), InvoiceStatusPendiente),
	}

	kpi := CalcAdvisorKPI(advisor, clients, invs, KPIOptions{Today: testToday})

	assert.True(t, kpi.OverdueAmount.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, 0, kpi.AverageDPD)
	assert.Equal(t, 0, kpi.ClientsAtRisk)
	assert.Equal(t, 2, kpi.TotalClients)
}

func TestCalcAdvisorKPI_GroupChildrenNotDoubleCounted(t *testing.T) {
	advisor := Advisor{ID: "a1", Name: "Ana"}
	parent := assignedClient("g1", "a1", 1000)
	parent.IsGroup = true
	child := assignedClient("c1", "a1", 500)
	child.ParentClientID = strptr("g1")
	clients := []Client{parent, child}

	invs := []Invoice{
		testInvoice("i1", "c1", 800, testToday.AddDate(0, 0, -12), InvoiceStatusVencida),
	}

	kpi := CalcAdvisorKPI(advisor, clients, invs, KPIOptions{Today: testToday})

	// 子客户 DPD 12 经母体合并计一次，不再独立进入行为均值
	assert.Equal(t, 12, kpi.AverageDPD)
	assert.Equal(t, 1, kpi.ClientsAtRisk)
	assert.Equal(t, 2, kpi.TotalClients)
}
