// Package application 信贷组合服务应用层
package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/creditportfolio/internal/portfolio/domain"
)

// Cache 汇总视图缓存接口，由 Redis 基础设施实现
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// 缓存 key，写路径统一失效
const (
	SummaryCacheKey = "portfolio:summary"
	AlertsCacheKey  = "portfolio:alerts"
)

// CommandService 信贷组合命令服务
type CommandService struct {
	advisorRepo    domain.AdvisorRepository
	clientRepo     domain.ClientRepository
	invoiceRepo    domain.InvoiceRepository
	paymentRepo    domain.PaymentRepository
	promiseRepo    domain.PromiseRepository
	noteRepo       domain.NoteRepository
	eventPublisher domain.EventPublisher
	cache          Cache
	logger         *slog.Logger
}

// NewCommandService 创建命令服务
func NewCommandService(
	advisorRepo domain.AdvisorRepository,
	clientRepo domain.ClientRepository,
	invoiceRepo domain.InvoiceRepository,
	paymentRepo domain.PaymentRepository,
	promiseRepo domain.PromiseRepository,
	noteRepo domain.NoteRepository,
	eventPublisher domain.EventPublisher,
	cache Cache,
	logger *slog.Logger,
) *CommandService {
	return &CommandService{
		advisorRepo:    advisorRepo,
		clientRepo:     clientRepo,
		invoiceRepo:    invoiceRepo,
		paymentRepo:    paymentRepo,
		promiseRepo:    promiseRepo,
		noteRepo:       noteRepo,
		eventPublisher: eventPublisher,
		cache:          cache,
		logger:         logger,
	}
}

// invalidateSummaries 写路径后失效汇总缓存
func (s *CommandService) invalidateSummaries(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, SummaryCacheKey, AlertsCacheKey); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate summary cache", "error", err)
	}
}

// CreateAdvisorCommand 创建顾问命令
type CreateAdvisorCommand struct {
	Name  string
	Email string
}

// CreateAdvisor 创建顾问
func (s *CommandService) CreateAdvisor(ctx context.Context, cmd CreateAdvisorCommand) (string, error) {
	advisor := &domain.Advisor{
		ID:        uuid.NewString(),
		Name:      cmd.Name,
		Email:     cmd.Email,
		CreatedAt: time.Now(),
	}
	if err := s.advisorRepo.Save(ctx, advisor); err != nil {
		return "", err
	}
	return advisor.ID, nil
}

// DeleteAdvisor 删除顾问
func (s *CommandService) DeleteAdvisor(ctx context.Context, id string) error {
	return s.advisorRepo.Delete(ctx, id)
}

// CreateClientCommand 创建客户命令
type CreateClientCommand struct {
	Name               string
	AdvisorID          *string
	CreditLine         decimal.Decimal
	CreditStatus       domain.CreditStatus
	Type               domain.ClientType
	IsGroup            bool
	ParentClientID     *string
	BillingCycle       domain.BillingCycle
	CutDay             int
	PayDay             int
	AlertThresholdDays int
}

// CreateClient 创建客户
func (s *CommandService) CreateClient(ctx context.Context, cmd CreateClientCommand) (string, error) {
	if cmd.CreditLine.IsNegative() {
		return "", domain.ErrInvalidAmount
	}
	status := cmd.CreditStatus
	if status == "" {
		status = domain.CreditStatusActivo
	}
	client := &domain.Client{
		ID:                 uuid.NewString(),
		Name:               cmd.Name,
		AdvisorID:          cmd.AdvisorID,
		CreditLine:         cmd.CreditLine,
		CreditStatus:       status,
		Type:               cmd.Type,
		IsGroup:            cmd.IsGroup,
		ParentClientID:     cmd.ParentClientID,
		BillingCycle:       cmd.BillingCycle,
		CutDay:             cmd.CutDay,
		PayDay:             cmd.PayDay,
		AlertThresholdDays: cmd.AlertThresholdDays,
		RegisteredAt:       time.Now(),
		CreatedAt:          time.Now(),
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return "", err
	}
	s.invalidateSummaries(ctx)
	return client.ID, nil
}

// UpdateClientCommand 更新客户命令
type UpdateClientCommand struct {
	ID                 string
	Name               *string
	AdvisorID          *string
	CreditLine         *decimal.Decimal
	CreditStatus       *domain.CreditStatus
	AlertThresholdDays *int
}

// UpdateClient 更新客户，仅覆盖命令中给出的字段
func (s *CommandService) UpdateClient(ctx context.Context, cmd UpdateClientCommand) error {
	client, err := s.clientRepo.GetByID(ctx, cmd.ID)
	if err != nil {
		return err
	}
	if cmd.Name != nil {
		client.Name = *cmd.Name
	}
	if cmd.AdvisorID != nil {
		client.AdvisorID = cmd.AdvisorID
	}
	if cmd.CreditLine != nil {
		if cmd.CreditLine.IsNegative() {
			return domain.ErrInvalidAmount
		}
		client.CreditLine = *cmd.CreditLine
	}
	if cmd.CreditStatus != nil {
		switch *cmd.CreditStatus {
		case domain.CreditStatusActivo, domain.CreditStatusRiesgo, domain.CreditStatusBuro:
			client.CreditStatus = *cmd.CreditStatus
		default:
			return domain.ErrInvalidCreditStatus
		}
	}
	if cmd.AlertThresholdDays != nil {
		client.AlertThresholdDays = *cmd.AlertThresholdDays
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return err
	}
	s.invalidateSummaries(ctx)
	return nil
}

// DeleteClient 删除客户
func (s *CommandService) DeleteClient(ctx context.Context, id string) error {
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateSummaries(ctx)
	return nil
}

// CreateInvoiceCommand 创建发票命令
type CreateInvoiceCommand struct {
	ClientID  string
	Number    string
	Amount    decimal.Decimal
	IssueDate time.Time
	DueDate   time.Time
	GraceDays int
}

// CreateInvoice 手工创建发票
func (s *CommandService) CreateInvoice(ctx context.Context, cmd CreateInvoiceCommand) (string, error) {
	if !cmd.Amount.IsPositive() {
		return "", domain.ErrInvalidAmount
	}
	if _, err := s.clientRepo.GetByID(ctx, cmd.ClientID); err != nil {
		return "", err
	}
	invoice := &domain.Invoice{
		ID:        uuid.NewString(),
		ClientID:  cmd.ClientID,
		Number:    cmd.Number,
		Amount:    cmd.Amount,
		IssueDate: cmd.IssueDate,
		DueDate:   cmd.DueDate,
		Status:    domain.InvoiceStatusPendiente,
		Type:      domain.InvoiceTypeManual,
		GraceDays: cmd.GraceDays,
		CreatedAt: time.Now(),
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return "", err
	}
	s.invalidateSummaries(ctx)
	return invoice.ID, nil
}

// DeleteInvoice 删除发票
func (s *CommandService) DeleteInvoice(ctx context.Context, id string) error {
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateSummaries(ctx)
	return nil
}

// RegisterPaymentCommand 登记支付命令
type RegisterPaymentCommand struct {
	InvoiceID  string
	Amount     decimal.Decimal
	PaidAt     time.Time
	Method     string
	Reference  string
	RecordedBy string
}

// RegisterPayment 登记支付并推进发票状态：
// 累计支付覆盖全额时置为 pagada 并记录结清日期，否则置为 parcial
func (s *CommandService) RegisterPayment(ctx context.Context, cmd RegisterPaymentCommand) (string, error) {
	if !cmd.Amount.IsPositive() {
		return "", domain.ErrInvalidAmount
	}
	invoice, err := s.invoiceRepo.GetByID(ctx, cmd.InvoiceID)
	if err != nil {
		return "", err
	}

	existing, err := s.paymentRepo.ListByInvoice(ctx, cmd.InvoiceID)
	if err != nil {
		return "", err
	}
	paid := decimal.Zero
	for _, p := range existing {
		paid = paid.Add(p.Amount)
	}
	if paid.Add(cmd.Amount).GreaterThan(invoice.Amount) {
		return "", domain.ErrPaymentExceedsBalance
	}

	paidAt := cmd.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	payment := &domain.Payment{
		ID:         uuid.NewString(),
		InvoiceID:  cmd.InvoiceID,
		Amount:     cmd.Amount,
		PaidAt:     paidAt,
		Method:     cmd.Method,
		Reference:  cmd.Reference,
		RecordedBy: cmd.RecordedBy,
		CreatedAt:  time.Now(),
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return "", err
	}

	if paid.Add(cmd.Amount).Equal(invoice.Amount) {
		invoice.Status = domain.InvoiceStatusPagada
		invoice.PaidDate = &paidAt
	} else {
		invoice.Status = domain.InvoiceStatusParcial
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return "", err
	}
	s.invalidateSummaries(ctx)

	if s.eventPublisher != nil {
		event := &domain.PaymentRegisteredEvent{
			PaymentID: payment.ID,
			InvoiceID: invoice.ID,
			ClientID:  invoice.ClientID,
			Amount:    cmd.Amount.String(),
			Settled:   invoice.IsSettled(),
			Timestamp: time.Now(),
		}
		if err := s.eventPublisher.Publish(event); err != nil {
			s.logger.WarnContext(ctx, "failed to publish payment event", "payment_id", payment.ID, "error", err)
		}
	}
	return payment.ID, nil
}

// CreatePromiseCommand 创建还款承诺命令
type CreatePromiseCommand struct {
	ClientID    string
	InvoiceID   *string
	Amount      decimal.Decimal
	PromiseDate time.Time
	Notes       string
	CreatedBy   string
}

// CreatePromise 创建还款承诺
func (s *CommandService) CreatePromise(ctx context.Context, cmd CreatePromiseCommand) (string, error) {
	if !cmd.Amount.IsPositive() {
		return "", domain.ErrInvalidAmount
	}
	if _, err := s.clientRepo.GetByID(ctx, cmd.ClientID); err != nil {
		return "", err
	}
	promise := &domain.PaymentPromise{
		ID:          uuid.NewString(),
		ClientID:    cmd.ClientID,
		InvoiceID:   cmd.InvoiceID,
		Amount:      cmd.Amount,
		PromiseDate: cmd.PromiseDate,
		Status:      domain.PromiseStatusPendiente,
		Notes:       cmd.Notes,
		CreatedBy:   cmd.CreatedBy,
		CreatedAt:   time.Now(),
	}
	if err := s.promiseRepo.Save(ctx, promise); err != nil {
		return "", err
	}
	return promise.ID, nil
}

// ResolvePromise 将承诺置为终态
func (s *CommandService) ResolvePromise(ctx context.Context, id string, status domain.PromiseStatus) error {
	promise, err := s.promiseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := promise.Resolve(status, time.Now()); err != nil {
		return err
	}
	return s.promiseRepo.Save(ctx, promise)
}

// AddNoteCommand 添加客户备注命令
type AddNoteCommand struct {
	ClientID  string
	Type      string
	Content   string
	CreatedBy string
}

// AddNote 添加客户跟进备注
func (s *CommandService) AddNote(ctx context.Context, cmd AddNoteCommand) (string, error) {
	if _, err := s.clientRepo.GetByID(ctx, cmd.ClientID); err != nil {
		return "", err
	}
	note := &domain.ClientNote{
		ID:        uuid.NewString(),
		ClientID:  cmd.ClientID,
		Type:      cmd.Type,
		Content:   cmd.Content,
		CreatedBy: cmd.CreatedBy,
		CreatedAt: time.Now(),
	}
	if err := s.noteRepo.Save(ctx, note); err != nil {
		return "", err
	}
	return note.ID, nil
}
