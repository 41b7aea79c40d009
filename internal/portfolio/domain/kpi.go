package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ClientKPI 单客户(或集团合并口径)的组合指标
type ClientKPI struct {
	ClientID              string          `json:"client_id"`
	ClientName            string          `json:"client_name"`
	TotalInvoiced         decimal.Decimal `json:"total_invoiced"`
	OverdueAmount         decimal.Decimal `json:"overdue_amount"`
	OutstandingBalance    decimal.Decimal `json:"outstanding_balance"`
	OnTimePaymentRate     float64         `json:"on_time_payment_rate"`
	AverageDaysPastDue    int             `json:"average_days_past_due"`
	LateFrequency         float64         `json:"late_frequency"`
	RiskTier              RiskTier        `json:"risk_tier"`
	CreditLineUtilization float64         `json:"credit_line_utilization"`
	InvoiceCount          int             `json:"invoice_count"`
	IsConsolidated        bool            `json:"is_consolidated"`
}

// KPIOptions 指标计算的可选输入
type KPIOptions struct {
	// ClientIDs 非空时按该 id 集合过滤发票，用于集团合并口径
	ClientIDs []string
	// Payments 支付明细，用于部分支付后的余额精确计算
	Payments []Payment
	// Today 计算基准日，零值时取当前日期
	Today time.Time
	// CreditLimitOverride 覆盖客户自身额度，集团合并时传入额度合计
	CreditLimitOverride *decimal.Decimal
}

// CalcClientKPI 计算单客户组合指标，纯函数，不修改任何输入
func CalcClientKPI(client Client, invoices []Invoice, opts KPIOptions) ClientKPI {
	today := truncateDay(opts.Today)
	if opts.Today.IsZero() {
		today = truncateDay(time.Now())
	}

	idSet := map[string]bool{client.ID: true}
	for _, id := range opts.ClientIDs {
		idSet[id] = true
	}

	paidByInvoice := make(map[string]decimal.Decimal)
	for _, p := range opts.Payments {
		paidByInvoice[p.InvoiceID] = paidByInvoice[p.InvoiceID].Add(p.Amount)
	}

	limit := client.CreditLine
	if opts.CreditLimitOverride != nil {
		limit = *opts.CreditLimitOverride
	}

	kpi := ClientKPI{
		ClientID:   client.ID,
		ClientName: client.Name,
	}

	var (
		lateDays   int
		lateCount  int
		paidCount  int
		onTime     int
		totalCount int
	)

	for _, inv := range invoices {
		if !idSet[inv.ClientID] {
			continue
		}
		totalCount++
		kpi.TotalInvoiced = kpi.TotalInvoiced.Add(inv.Amount)

		outstanding := inv.Amount.Sub(paidByInvoice[inv.ID])
		if outstanding.IsNegative() {
			outstanding = decimal.Zero
		}

		if !inv.IsSettled() {
			kpi.OutstandingBalance = kpi.OutstandingBalance.Add(outstanding)
		}

		switch inv.Status {
		case InvoiceStatusPagada:
			if inv.PaidDate != nil {
				paidCount++
				d := daysBetween(inv.DueDate, *inv.PaidDate)
				if d <= 0 {
					onTime++
				} else {
					lateCount++
					lateDays += d
				}
			}
		case InvoiceStatusVencida:
			kpi.OverdueAmount = kpi.OverdueAmount.Add(outstanding)
			lateCount++
			lateDays += daysBetween(inv.DueDate, today)
		case InvoiceStatusParcial, InvoiceStatusPendiente:
			// 到期日等于今天尚不算逾期，严格小于才计入
			if truncateDay(inv.DueDate).Before(today) {
				kpi.OverdueAmount = kpi.OverdueAmount.Add(outstanding)
				lateCount++
				lateDays += daysBetween(inv.DueDate, today)
			}
		}
	}

	kpi.InvoiceCount = totalCount
	kpi.OnTimePaymentRate = 100
	if paidCount > 0 {
		kpi.OnTimePaymentRate = float64(onTime) / float64(paidCount) * 100
	}
	if lateCount > 0 {
		kpi.AverageDaysPastDue = int(math.Round(float64(lateDays) / float64(lateCount)))
	}
	if totalCount > 0 {
		kpi.LateFrequency = float64(lateCount) / float64(totalCount) * 100
	}
	kpi.RiskTier = ClassifyRisk(kpi.AverageDaysPastDue)
	if limit.IsPositive() {
		util, _ := kpi.OutstandingBalance.Div(limit).Mul(decimal.NewFromInt(100)).Float64()
		kpi.CreditLineUtilization = util
	}
	return kpi
}

// truncateDay 截断到 UTC 日期边界
func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween from 到 to 的整日数，to 早于 from 时为负
func daysBetween(from, to time.Time) int {
	return int(truncateDay(to).Sub(truncateDay(from)).Hours() / 24)
}
