package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	billing "github.com/wyfcoding/creditportfolio/internal/billing/domain"
	"github.com/wyfcoding/creditportfolio/internal/portfolio/domain"
)

func TestKafkaEventPublisher_TopicFor(t *testing.T) {
	now := time.Now()
	alert := &domain.HighRiskAlertEvent{ClientID: "c1", Timestamp: now}
	invoice := &billing.InvoiceGeneratedEvent{InvoiceID: "i1", Timestamp: now}
	payment := &domain.PaymentRegisteredEvent{InvoiceID: "i1", Timestamp: now}

	t.Run("configured topics win", func(t *testing.T) {
		p := NewKafkaEventPublisher(nil, Topics{Alerts: "alertas.cartera", Invoices: "facturas.recurrentes"})
		assert.Equal(t, "alertas.cartera", p.topicFor(alert))
		assert.Equal(t, "facturas.recurrentes", p.topicFor(invoice))
	})

	t.Run("empty config falls back to event name", func(t *testing.T) {
		p := NewKafkaEventPublisher(nil, Topics{})
		assert.Equal(t, "portfolio.alerts", p.topicFor(alert))
		assert.Equal(t, "billing.invoices.generated", p.topicFor(invoice))
		assert.Equal(t, "portfolio.payments_registered", p.topicFor(payment))
	})
}

func TestPartitionKey(t *testing.T) {
	assert.Equal(t, "c1", partitionKey(&domain.HighRiskAlertEvent{ClientID: "c1"}))
	assert.Equal(t, "i1", partitionKey(&domain.PaymentRegisteredEvent{InvoiceID: "i1"}))
	assert.Equal(t, "", partitionKey(&billing.InvoiceGeneratedEvent{InvoiceID: "i1"}))
}
