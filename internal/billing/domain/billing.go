// Package domain 循环开票领域逻辑
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	portfolio "github.com/wyfcoding/creditportfolio/internal/portfolio/domain"
)

// ShouldBill 今天是否为该客户的开票日
func ShouldBill(client portfolio.Client, today time.Time) bool {
	if client.CreditStatus != portfolio.CreditStatusActivo {
		return false
	}
	if client.BillingCycle != portfolio.BillingCycleMensual && client.BillingCycle != portfolio.BillingCycleQuincenal {
		return false
	}
	return today.Day() == client.CutDay
}

// PeriodKey 开票周期标识 YYYY-MM
func PeriodKey(today time.Time) string {
	return today.Format("2006-01")
}

// DueDate 根据客户付款日计算到期日，本月付款日已过则顺延到下月
func DueDate(client portfolio.Client, today time.Time) time.Time {
	due := time.Date(today.Year(), today.Month(), client.PayDay, 0, 0, 0, 0, today.Location())
	if !due.After(today) {
		due = due.AddDate(0, 1, 0)
	}
	return due
}

// InvoiceNumber 循环发票编号 REC-<客户id前缀>-<YYYY-MM>
func InvoiceNumber(clientID string, today time.Time) string {
	prefix := clientID
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	return fmt.Sprintf("REC-%s-%s", strings.ToUpper(prefix), PeriodKey(today))
}

// BuildRecurringInvoice 构造待插入的循环发票，金额为额度的 amountPct 比例
func BuildRecurringInvoice(id string, client portfolio.Client, today time.Time, amountPct decimal.Decimal, graceDays int) portfolio.Invoice {
	return portfolio.Invoice{
		ID:            id,
		ClientID:      client.ID,
		Number:        InvoiceNumber(client.ID, today),
		Amount:        client.CreditLine.Mul(amountPct),
		IssueDate:     today,
		DueDate:       DueDate(client, today),
		Status:        portfolio.InvoiceStatusPendiente,
		Type:          portfolio.InvoiceTypeRecurrente,
		BillingPeriod: PeriodKey(today),
		GraceDays:     graceDays,
		CreatedAt:     time.Now(),
	}
}
