package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// AdvisorKPI 顾问维度的组合指标
type AdvisorKPI struct {
	AdvisorID      string          `json:"advisor_id"`
	AdvisorName    string          `json:"advisor_name"`
	TotalPortfolio decimal.Decimal `json:"total_portfolio"`
	OverdueAmount  decimal.Decimal `json:"overdue_amount"`
	OverdueRate    float64         `json:"overdue_rate"`
	AverageDPD     int             `json:"average_dpd"`
	ClientsAtRisk  int             `json:"clients_at_risk"`
	TotalClients   int             `json:"total_clients"`
}

// CalcAdvisorKPI 汇总某顾问名下全部客户的组合指标。
// 货币口径(组合总额/逾期金额)覆盖全部名下客户含 buro 与子客户；
// 行为口径(平均 DPD/风险客户数)仅统计非 buro 的顶层客户，集团母体按合并口径计一次，
// 子客户不再独立进入行为统计。
func CalcAdvisorKPI(advisor Advisor, clients []Client, invoices []Invoice, opts KPIOptions) AdvisorKPI {
	today := opts.Today
	if today.IsZero() {
		today = time.Now()
	}
	todayDay := truncateDay(today)

	kpi := AdvisorKPI{AdvisorID: advisor.ID, AdvisorName: advisor.Name}

	assigned := make(map[string]bool)
	var assignedClients []Client
	for _, c := range clients {
		if c.AdvisorID != nil && *c.AdvisorID == advisor.ID {
			assigned[c.ID] = true
			assignedClients = append(assignedClients, c)
		}
	}
	kpi.TotalClients = len(assignedClients)

	paidByInvoice := make(map[string]decimal.Decimal)
	for _, p := range opts.Payments {
		paidByInvoice[p.InvoiceID] = paidByInvoice[p.InvoiceID].Add(p.Amount)
	}

	for _, inv := range invoices {
		if !assigned[inv.ClientID] {
			continue
		}
		kpi.TotalPortfolio = kpi.TotalPortfolio.Add(inv.Amount)

		overdue := inv.Status == InvoiceStatusVencida ||
			((inv.Status == InvoiceStatusParcial || inv.Status == InvoiceStatusPendiente) &&
				truncateDay(inv.DueDate).Before(todayDay))
		if overdue {
			outstanding := inv.Amount.Sub(paidByInvoice[inv.ID])
			if outstanding.IsNegative() {
				outstanding = decimal.Zero
			}
			kpi.OverdueAmount = kpi.OverdueAmount.Add(outstanding)
		}
	}

	if kpi.TotalPortfolio.IsPositive() {
		rate, _ := kpi.OverdueAmount.Div(kpi.TotalPortfolio).Mul(decimal.NewFromInt(100)).Float64()
		kpi.OverdueRate = rate
	}

	var dpdSum, dpdCount int
	for _, c := range TopLevelClients(assignedClients) {
		if c.IsWrittenOff() {
			continue
		}
		ck := CalcEffectiveKPI(c, clients, invoices, opts)
		dpdSum += ck.AverageDaysPastDue
		dpdCount++
		if ck.RiskTier.IsHigh() {
			kpi.ClientsAtRisk++
		}
	}
	if dpdCount > 0 {
		kpi.AverageDPD = int(math.Round(float64(dpdSum) / float64(dpdCount)))
	}
	return kpi
}
