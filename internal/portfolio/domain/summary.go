package domain

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// DebtorSummary 逾期客户摘要，用于管理层视图的欠款排行
type DebtorSummary struct {
	ClientID      string          `json:"client_id"`
	ClientName    string          `json:"client_name"`
	OverdueAmount decimal.Decimal `json:"overdue_amount"`
	DPD           int             `json:"dpd"`
	RiskTier      RiskTier        `json:"risk_tier"`
}

// ExecutiveSummary 组合整体汇总视图
type ExecutiveSummary struct {
	TotalPortfolio    decimal.Decimal   `json:"total_portfolio"`
	TotalOverdue      decimal.Decimal   `json:"total_overdue"`
	AverageDPD        int               `json:"average_dpd"`
	TotalClients      int               `json:"total_clients"`
	Alerts            []Alert           `json:"alerts"`
	PromiseCompliance PromiseCompliance `json:"promise_compliance"`
	TopDebtors        []DebtorSummary   `json:"top_debtors"`
}

// 欠款排行最多展示条数
const topDebtorLimit = 15

// BuildExecutiveSummary 组合层面汇总：货币口径覆盖全部发票，
// 行为口径(平均 DPD)仅统计非 buro 顶层客户的合并指标
func BuildExecutiveSummary(clients []Client, advisors []Advisor, invoices []Invoice, promises []PaymentPromise, opts KPIOptions) ExecutiveSummary {
	s := ExecutiveSummary{
		TotalClients:      len(clients),
		Alerts:            GenerateAlerts(clients, advisors, invoices, opts),
		PromiseCompliance: CalcPromiseCompliance(promises),
	}

	var dpdSum, dpdCount int
	for _, c := range TopLevelClients(clients) {
		kpi := CalcEffectiveKPI(c, clients, invoices, opts)
		s.TotalPortfolio = s.TotalPortfolio.Add(kpi.TotalInvoiced)
		s.TotalOverdue = s.TotalOverdue.Add(kpi.OverdueAmount)
		if !c.IsWrittenOff() {
			dpdSum += kpi.AverageDaysPastDue
			dpdCount++
		}
		if kpi.OverdueAmount.IsPositive() {
			s.TopDebtors = append(s.TopDebtors, DebtorSummary{
				ClientID:      c.ID,
				ClientName:    c.Name,
				OverdueAmount: kpi.OverdueAmount,
				DPD:           kpi.AverageDaysPastDue,
				RiskTier:      kpi.RiskTier,
			})
		}
	}
	if dpdCount > 0 {
		s.AverageDPD = int(math.Round(float64(dpdSum) / float64(dpdCount)))
	}

	sort.SliceStable(s.TopDebtors, func(i, j int) bool {
		return s.TopDebtors[i].OverdueAmount.GreaterThan(s.TopDebtors[j].OverdueAmount)
	})
	if len(s.TopDebtors) > topDebtorLimit {
		s.TopDebtors = s.TopDebtors[:topDebtorLimit]
	}
	return s
}
