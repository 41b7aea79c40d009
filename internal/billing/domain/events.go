// Package domain 循环开票领域事件
package domain

import "time"

// InvoiceGeneratedEvent 循环发票生成事件
type InvoiceGeneratedEvent struct {
	InvoiceID string    `json:"invoice_id"`
	ClientID  string    `json:"client_id"`
	Number    string    `json:"number"`
	Amount    string    `json:"amount"`
	Period    string    `json:"period"`
	DueDate   time.Time `json:"due_date"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *InvoiceGeneratedEvent) EventName() string     { return "billing.invoices.generated" }
func (e *InvoiceGeneratedEvent) OccurredAt() time.Time { return e.Timestamp }
