// Package application 循环开票应用层
package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billing "github.com/wyfcoding/creditportfolio/internal/billing/domain"
	portfolio "github.com/wyfcoding/creditportfolio/internal/portfolio/domain"
	"github.com/wyfcoding/creditportfolio/pkg/metrics"
)

// GeneratorConfig 开票参数
type GeneratorConfig struct {
	// AmountPct 默认开票金额占额度比例
	AmountPct decimal.Decimal
	// GraceDays 宽限期天数
	GraceDays int
}

// GeneratorService 循环发票生成服务，按周期幂等执行
type GeneratorService struct {
	clientRepo     portfolio.ClientRepository
	invoiceRepo    portfolio.InvoiceRepository
	eventPublisher portfolio.EventPublisher
	config         GeneratorConfig
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

// NewGeneratorService 创建开票服务
func NewGeneratorService(
	clientRepo portfolio.ClientRepository,
	invoiceRepo portfolio.InvoiceRepository,
	eventPublisher portfolio.EventPublisher,
	config GeneratorConfig,
	m *metrics.Metrics,
	logger *slog.Logger,
) *GeneratorService {
	return &GeneratorService{
		clientRepo:     clientRepo,
		invoiceRepo:    invoiceRepo,
		eventPublisher: eventPublisher,
		config:         config,
		metrics:        m,
		logger:         logger,
	}
}

// Run 执行一轮开票：遍历今天到达切账日的活跃周期客户，
// 当期尚无循环发票时生成一张。重复执行同一天是安全的。
func (s *GeneratorService) Run(ctx context.Context, today time.Time) (int, error) {
	clients, err := s.clientRepo.ListBillable(ctx, today.Day())
	if err != nil {
		return 0, err
	}

	period := billing.PeriodKey(today)
	generated := 0
	for _, client := range clients {
		if !billing.ShouldBill(*client, today) {
			continue
		}
		exists, err := s.invoiceRepo.ExistsForPeriod(ctx, client.ID, period)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to check existing invoice", "client_id", client.ID, "period", period, "error", err)
			continue
		}
		if exists {
			continue
		}

		invoice := billing.BuildRecurringInvoice(uuid.NewString(), *client, today, s.config.AmountPct, s.config.GraceDays)
		if err := s.invoiceRepo.Save(ctx, &invoice); err != nil {
			s.logger.ErrorContext(ctx, "failed to save recurring invoice", "client_id", client.ID, "number", invoice.Number, "error", err)
			continue
		}
		generated++

		if s.metrics != nil {
			s.metrics.InvoicesGeneratedTotal.Inc()
		}
		if s.eventPublisher != nil {
			event := &billing.InvoiceGeneratedEvent{
				InvoiceID: invoice.ID,
				ClientID:  invoice.ClientID,
				Number:    invoice.Number,
				Amount:    invoice.Amount.String(),
				Period:    invoice.BillingPeriod,
				DueDate:   invoice.DueDate,
				Timestamp: time.Now(),
			}
			if err := s.eventPublisher.Publish(event); err != nil {
				s.logger.WarnContext(ctx, "failed to publish invoice event", "invoice_id", invoice.ID, "error", err)
			}
		}
		s.logger.InfoContext(ctx, "recurring invoice generated",
			"client_id", client.ID,
			"number", invoice.Number,
			"amount", invoice.Amount.String(),
			"due_date", invoice.DueDate.Format("2006-01-02"),
		)
	}
	return generated, nil
}
