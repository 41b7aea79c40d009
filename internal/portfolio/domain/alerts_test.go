package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAlerts_SortedByDPDDesc(t *testing.T) {
	advisors := []Advisor{{ID: "a1", Name: "Ana"}}
	clients := []Client{
		assignedClient("c1", "a1", 10000),
		assignedClient("c2", "a1", 10000),
		assignedClient("c3", "a1", 10000),
	}
	invs := []Invoice{
		testInvoice("i1", "c1", 100, testToday.AddDate(0, 0, -12), InvoiceStatusVencida),
		testInvoice("i2", "c2", 100, testToday.AddDate(0, 0, -20), InvoiceStatusVencida),
		testInvoice("i3", "c3", 100, testToday.AddDate(0, 0, -15), InvoiceStatusVencida),
	}

	alerts := GenerateAlerts(clients, advisors, invs, KPIOptions{Today: testToday})

	require.Len(t, alerts, 3)
	assert.Equal(t, []int{20, 15, 12}, []int{alerts[0].DPD, alerts[1].DPD, alerts[2].DPD})
	assert.Equal(t, "c2", alerts[0].ClientID)
	assert.Equal(t, "Ana", alerts[0].AdvisorName)
	assert.Contains(t, alerts[0].Message, "DPD: 20 días")
}

func TestGenerateAlerts_LowRiskSkipped(t *testing.T) {
	clients := []Client{testClient("c1", 10000)}
	invs := []Invoice{
		testInvoice("i1", "c1", 100, testToday.AddDate(0, 0, -1), InvoiceStatusVencida),
	}
	alerts := GenerateAlerts(clients, nil, invs, KPIOptions{Today: testToday})
	assert.Empty(t, alerts)
}

func TestGenerateAlerts_BuroExcluded(t *testing.T) {
	buro := testClient("c1", 10000)
	buro.CreditStatus = CreditStatusBuro
	invs := []Invoice{
		testInvoice("i1", "c1", 100, testToday.AddDate(0, 0, -90), InvoiceStatusVencida),
	}
	alerts := GenerateAlerts([]Client{buro}, nil, invs, KPIOptions{Today: testToday})
	assert.Empty(t, alerts)
}

func TestGenerateAlerts_UnassignedAdvisorSentinel(t *testing.T) {
	clients := []Client{testClient("c1", 10000)}
	invs := []Invoice{
		testInvoice("i1", "c1", 100, testToday.AddDate(0, 0, -30), InvoiceStatusVencida),
	}
	alerts := GenerateAlerts(clients, nil, invs, KPIOptions{Today: testToday})

	require.Len(t, alerts, 1)
	assert.Equal(t, AdvisorUnassigned, alerts[0].AdvisorName)
	assert.Equal(t, RiskTierPesimo, alerts[0].RiskTier)
}

func TestGenerateAlerts_GroupAware(t *testing.T) {
	parent := testClient("g1", 1000)
	parent.IsGroup = true
	child := testClient("c1", 500)
	child.ParentClientID = strptr("g1")
	invs := []Invoice{
		testInvoice("i1", "c1", 100, testToday.AddDate(0, 0, -8), InvoiceStatusVencida),
	}

	alerts := GenerateAlerts([]Client{parent, child}, nil, invs, KPIOptions{Today: testToday})

	// 母体按合并口径告警，子客户按自身发票也会触发，两者各有记录
	require.Len(t, alerts, 2)
	assert.Equal(t, 8, alerts[0].DPD)
	assert.Equal(t, 8, alerts[1].DPD)
}
