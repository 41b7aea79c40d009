package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus 发票状态
type InvoiceStatus string

const (
	// InvoiceStatusPendiente 未到期 / 待支付
	InvoiceStatusPendiente InvoiceStatus = "pendiente"
	// InvoiceStatusVencida 已逾期
	InvoiceStatusVencida InvoiceStatus = "vencida"
	// InvoiceStatusPagada 已全额支付
	InvoiceStatusPagada InvoiceStatus = "pagada"
	// InvoiceStatusParcial 已部分支付
	InvoiceStatusParcial InvoiceStatus = "parcial"
)

// InvoiceType 发票类型
type InvoiceType string

const (
	InvoiceTypeManual InvoiceType = "manual"
	// InvoiceTypeRecurrente 由循环开票任务生成
	InvoiceTypeRecurrente InvoiceType = "recurrente"
)

// Invoice 发票
type Invoice struct {
	ID            string          `json:"id"`
	ClientID      string          `json:"client_id"`
	Number        string          `json:"number"`
	Amount        decimal.Decimal `json:"amount"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       time.Time       `json:"due_date"`
	PaidDate      *time.Time      `json:"paid_date"`
	Status        InvoiceStatus   `json:"status"`
	Type          InvoiceType     `json:"type"`
	BillingPeriod string          `json:"billing_period"`
	GraceDays     int             `json:"grace_days"`
	DPD           int             `json:"dpd"`
	CreatedAt     time.Time       `json:"created_at"`
}

// IsSettled 是否已结清
func (i Invoice) IsSettled() bool {
	return i.Status == InvoiceStatusPagada
}

// Payment 针对某张发票的支付记录，一张发票可以有多笔部分支付
type Payment struct {
	ID         string          `json:"id"`
	InvoiceID  string          `json:"invoice_id"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAt     time.Time       `json:"paid_at"`
	Method     string          `json:"method"`
	Reference  string          `json:"reference"`
	RecordedBy string          `json:"recorded_by"`
	CreatedAt  time.Time       `json:"created_at"`
}
