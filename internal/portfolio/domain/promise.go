package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PromiseStatus 还款承诺状态
type PromiseStatus string

const (
	// PromiseStatusPendiente 承诺仍在等待履约
	PromiseStatusPendiente PromiseStatus = "pendiente"
	// PromiseStatusCumplida 承诺已按期履约
	PromiseStatusCumplida PromiseStatus = "cumplida"
	// PromiseStatusIncumplida 承诺已违约
	PromiseStatusIncumplida PromiseStatus = "incumplida"
)

// PaymentPromise 还款承诺，由催收人员与客户约定
type PaymentPromise struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"client_id"`
	InvoiceID   *string         `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	PromiseDate time.Time       `json:"promise_date"`
	Status      PromiseStatus   `json:"status"`
	Notes       string          `json:"notes"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	ResolvedAt  *time.Time      `json:"resolved_at"`
}

// IsResolved 是否已进入终态
func (p PaymentPromise) IsResolved() bool {
	return p.Status == PromiseStatusCumplida || p.Status == PromiseStatusIncumplida
}

// Resolve 将承诺置为终态，终态不可再变更
func (p *PaymentPromise) Resolve(status PromiseStatus, at time.Time) error {
	if status != PromiseStatusCumplida && status != PromiseStatusIncumplida {
		return ErrInvalidPromiseStatus
	}
	if p.IsResolved() {
		return ErrPromiseAlreadyResolved
	}
	p.Status = status
	p.ResolvedAt = &at
	return nil
}
