// Package domain 信贷组合服务领域事件
package domain

import "time"

type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

// EventPublisher 领域事件发布接口，由消息基础设施实现
type EventPublisher interface {
	Publish(event DomainEvent) error
}

// HighRiskAlertEvent 高风险客户告警事件
type HighRiskAlertEvent struct {
	ClientID    string    `json:"client_id"`
	ClientName  string    `json:"client_name"`
	AdvisorName string    `json:"advisor_name"`
	RiskTier    RiskTier  `json:"risk_tier"`
	DPD         int       `json:"dpd"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e *HighRiskAlertEvent) EventName() string     { return "portfolio.alerts" }
func (e *HighRiskAlertEvent) OccurredAt() time.Time { return e.Timestamp }

// PaymentRegisteredEvent 支付登记事件
type PaymentRegisteredEvent struct {
	PaymentID string    `json:"payment_id"`
	InvoiceID string    `json:"invoice_id"`
	ClientID  string    `json:"client_id"`
	Amount    string    `json:"amount"`
	Settled   bool      `json:"settled"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *PaymentRegisteredEvent) EventName() string     { return "portfolio.payments_registered" }
func (e *PaymentRegisteredEvent) OccurredAt() time.Time { return e.Timestamp }
