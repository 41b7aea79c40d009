// Package messaging 领域事件的 Kafka 发布实现
package messaging

import (
	"context"
	"time"

	"github.com/wyfcoding/creditportfolio/internal/portfolio/domain"
	"github.com/wyfcoding/creditportfolio/pkg/mq"
)

// Topics 事件类别到 Kafka topic 的映射，零值字段回退为事件名
type Topics struct {
	// 高风险告警事件 topic
	Alerts string
	// 循环开票事件 topic
	Invoices string
}

// KafkaEventPublisher 将领域事件发布到配置的 topic，按实体 id 分区
type KafkaEventPublisher struct {
	producer *mq.KafkaProducer
	topics   Topics
	timeout  time.Duration
}

// NewKafkaEventPublisher 创建事件发布器
func NewKafkaEventPublisher(producer *mq.KafkaProducer, topics Topics) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		topics:   topics,
		timeout:  5 * time.Second,
	}
}

// Publish 发布领域事件
func (p *KafkaEventPublisher) Publish(event domain.DomainEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	return p.producer.SendMessage(ctx, p.topicFor(event), partitionKey(event), event)
}

func (p *KafkaEventPublisher) topicFor(event domain.DomainEvent) string {
	switch event.EventName() {
	case "portfolio.alerts":
		if p.topics.Alerts != "" {
			return p.topics.Alerts
		}
	case "billing.invoices.generated":
		if p.topics.Invoices != "" {
			return p.topics.Invoices
		}
	}
	return event.EventName()
}

func partitionKey(event domain.DomainEvent) string {
	switch e := event.(type) {
	case *domain.HighRiskAlertEvent:
		return e.ClientID
	case *domain.PaymentRegisteredEvent:
		return e.InvoiceID
	default:
		return ""
	}
}
