// Package application 信贷组合查询服务
package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/wyfcoding/creditportfolio/internal/portfolio/domain"
	"github.com/wyfcoding/creditportfolio/pkg/metrics"
)

// QueryService 信贷组合查询服务，KPI 计算的读侧入口
type QueryService struct {
	advisorRepo    domain.AdvisorRepository
	clientRepo     domain.ClientRepository
	invoiceRepo    domain.InvoiceRepository
	paymentRepo    domain.PaymentRepository
	promiseRepo    domain.PromiseRepository
	noteRepo       domain.NoteRepository
	eventPublisher domain.EventPublisher
	cache          Cache
	summaryTTL     time.Duration
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

// NewQueryService 创建查询服务
func NewQueryService(
	advisorRepo domain.AdvisorRepository,
	clientRepo domain.ClientRepository,
	invoiceRepo domain.InvoiceRepository,
	paymentRepo domain.PaymentRepository,
	promiseRepo domain.PromiseRepository,
	noteRepo domain.NoteRepository,
	eventPublisher domain.EventPublisher,
	cache Cache,
	summaryTTL time.Duration,
	m *metrics.Metrics,
	logger *slog.Logger,
) *QueryService {
	return &QueryService{
		advisorRepo:    advisorRepo,
		clientRepo:     clientRepo,
		invoiceRepo:    invoiceRepo,
		paymentRepo:    paymentRepo,
		promiseRepo:    promiseRepo,
		noteRepo:       noteRepo,
		eventPublisher: eventPublisher,
		cache:          cache,
		summaryTTL:     summaryTTL,
		metrics:        m,
		logger:         logger,
	}
}

// portfolioSnapshot KPI 计算所需的在内存全量数据
type portfolioSnapshot struct {
	Clients  []domain.Client
	Advisors []domain.Advisor
	Invoices []domain.Invoice
	Payments []domain.Payment
}

func (s *QueryService) loadSnapshot(ctx context.Context) (*portfolioSnapshot, error) {
	clients, err := s.clientRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	advisors, err := s.advisorRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	snap := &portfolioSnapshot{
		Clients:  make([]domain.Client, 0, len(clients)),
		Advisors: make([]domain.Advisor, 0, len(advisors)),
		Invoices: make([]domain.Invoice, 0, len(invoices)),
		Payments: make([]domain.Payment, 0, len(payments)),
	}
	for _, c := range clients {
		snap.Clients = append(snap.Clients, *c)
	}
	for _, a := range advisors {
		snap.Advisors = append(snap.Advisors, *a)
	}
	for _, i := range invoices {
		snap.Invoices = append(snap.Invoices, *i)
	}
	for _, p := range payments {
		snap.Payments = append(snap.Payments, *p)
	}
	return snap, nil
}

func (s *QueryService) countKPIQuery() {
	if s.metrics != nil {
		s.metrics.KPIQueriesTotal.Inc()
	}
}

// GetClientKPI 单客户指标，集团母体按合并口径返回
func (s *QueryService) GetClientKPI(ctx context.Context, clientID string) (*domain.ClientKPI, error) {
	s.countKPIQuery()
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	kpi := domain.CalcEffectiveKPI(*client, snap.Clients, snap.Invoices, domain.KPIOptions{Payments: snap.Payments})
	return &kpi, nil
}

// ListClientKPIs 全部客户指标
func (s *QueryService) ListClientKPIs(ctx context.Context) ([]domain.ClientKPI, error) {
	s.countKPIQuery()
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	opts := domain.KPIOptions{Payments: snap.Payments, Today: time.Now()}
	out := make([]domain.ClientKPI, 0, len(snap.Clients))
	for _, c := range snap.Clients {
		out = append(out, domain.CalcEffectiveKPI(c, snap.Clients, snap.Invoices, opts))
	}
	return out, nil
}

// GetAdvisorKPI 单顾问指标
func (s *QueryService) GetAdvisorKPI(ctx context.Context, advisorID string) (*domain.AdvisorKPI, error) {
	s.countKPIQuery()
	advisor, err := s.advisorRepo.GetByID(ctx, advisorID)
	if err != nil {
		return nil, err
	}
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	kpi := domain.CalcAdvisorKPI(*advisor, snap.Clients, snap.Invoices, domain.KPIOptions{Payments: snap.Payments})
	return &kpi, nil
}

// ListAdvisorKPIs 全部顾问指标
func (s *QueryService) ListAdvisorKPIs(ctx context.Context) ([]domain.AdvisorKPI, error) {
	s.countKPIQuery()
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	opts := domain.KPIOptions{Payments: snap.Payments, Today: time.Now()}
	out := make([]domain.AdvisorKPI, 0, len(snap.Advisors))
	for _, a := range snap.Advisors {
		out = append(out, domain.CalcAdvisorKPI(a, snap.Clients, snap.Invoices, opts))
	}
	return out, nil
}

// GetAlerts 高风险客户告警列表，带短 TTL 缓存；
// 缓存未命中时重新计算并逐条发布告警事件
func (s *QueryService) GetAlerts(ctx context.Context) ([]domain.Alert, error) {
	if s.cache != nil {
		var cached []domain.Alert
		hit, err := s.cache.GetJSON(ctx, AlertsCacheKey, &cached)
		if err == nil && hit {
			return cached, nil
		}
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	alerts := domain.GenerateAlerts(snap.Clients, snap.Advisors, snap.Invoices, domain.KPIOptions{Payments: snap.Payments})

	if s.metrics != nil {
		s.metrics.AlertsActive.Set(float64(len(alerts)))
	}
	if s.eventPublisher != nil {
		now := time.Now()
		for _, a := range alerts {
			event := &domain.HighRiskAlertEvent{
				ClientID:    a.ClientID,
				ClientName:  a.ClientName,
				AdvisorName: a.AdvisorName,
				RiskTier:    a.RiskTier,
				DPD:         a.DPD,
				Message:     a.Message,
				Timestamp:   now,
			}
			if err := s.eventPublisher.Publish(event); err != nil {
				s.logger.WarnContext(ctx, "failed to publish alert event", "client_id", a.ClientID, "error", err)
			}
		}
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, AlertsCacheKey, alerts, s.summaryTTL); err != nil {
			s.logger.WarnContext(ctx, "failed to cache alerts", "error", err)
		}
	}
	return alerts, nil
}

// GetExecutiveSummary 管理层汇总视图，Redis 读穿缓存
func (s *QueryService) GetExecutiveSummary(ctx context.Context) (*domain.ExecutiveSummary, error) {
	if s.cache != nil {
		var cached domain.ExecutiveSummary
		hit, err := s.cache.GetJSON(ctx, SummaryCacheKey, &cached)
		if err == nil && hit {
			if s.metrics != nil {
				s.metrics.SummaryCacheHits.Inc()
			}
			return &cached, nil
		}
		if s.metrics != nil {
			s.metrics.SummaryCacheMisses.Inc()
		}
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	promises, err := s.promiseRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ps := make([]domain.PaymentPromise, 0, len(promises))
	for _, p := range promises {
		ps = append(ps, *p)
	}

	summary := domain.BuildExecutiveSummary(snap.Clients, snap.Advisors, snap.Invoices, ps, domain.KPIOptions{Payments: snap.Payments})

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, SummaryCacheKey, summary, s.summaryTTL); err != nil {
			s.logger.WarnContext(ctx, "failed to cache summary", "error", err)
		}
	}
	return &summary, nil
}

// GetPromiseCompliance 承诺履约统计，clientID 为空时为全局口径
func (s *QueryService) GetPromiseCompliance(ctx context.Context, clientID string) (*domain.PromiseCompliance, error) {
	var (
		promises []*domain.PaymentPromise
		err      error
	)
	if clientID == "" {
		promises, err = s.promiseRepo.ListAll(ctx)
	} else {
		promises, err = s.promiseRepo.ListByClient(ctx, clientID)
	}
	if err != nil {
		return nil, err
	}
	ps := make([]domain.PaymentPromise, 0, len(promises))
	for _, p := range promises {
		ps = append(ps, *p)
	}
	pc := domain.CalcPromiseCompliance(ps)
	return &pc, nil
}

// ClientTimeline 客户跟进时间线
type ClientTimeline struct {
	Client   *domain.Client           `json:"client"`
	Notes    []*domain.ClientNote     `json:"notes"`
	Promises []*domain.PaymentPromise `json:"promises"`
	Invoices []*domain.Invoice        `json:"invoices"`
}

// GetClientTimeline 客户详情视图：备注、承诺与发票
func (s *QueryService) GetClientTimeline(ctx context.Context, clientID string) (*ClientTimeline, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	notes, err := s.noteRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	promises, err := s.promiseRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &ClientTimeline{
		Client:   client,
		Notes:    notes,
		Promises: promises,
		Invoices: invoices,
	}, nil
}

// ListAdvisors 顾问列表
func (s *QueryService) ListAdvisors(ctx context.Context) ([]*domain.Advisor, error) {
	return s.advisorRepo.ListAll(ctx)
}

// ListClients 客户列表
func (s *QueryService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	return s.clientRepo.ListAll(ctx)
}

// ListInvoices 发票列表，按开票日期降序
func (s *QueryService) ListInvoices(ctx context.Context) ([]*domain.Invoice, error) {
	return s.invoiceRepo.ListAll(ctx)
}
