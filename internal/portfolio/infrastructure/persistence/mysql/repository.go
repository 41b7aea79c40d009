// Package mysql 信贷组合服务 MySQL 仓储实现
package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wyfcoding/creditportfolio/internal/portfolio/domain"
)

type AdvisorModel struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey"`
	Name      string    `gorm:"column:name;type:varchar(128);not null"`
	Email     string    `gorm:"column:email;type:varchar(128)"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (AdvisorModel) TableName() string { return "advisors" }

type ClientModel struct {
	ID                 string          `gorm:"column:id;type:varchar(36);primaryKey"`
	Name               string          `gorm:"column:name;type:varchar(256);not null"`
	AdvisorID          *string         `gorm:"column:advisor_id;type:varchar(36);index"`
	CreditLine         decimal.Decimal `gorm:"column:credit_line;type:decimal(20,2);not null"`
	CreditStatus       string          `gorm:"column:credit_status;type:varchar(16);not null;index"`
	Type               string          `gorm:"column:client_type;type:varchar(32)"`
	IsGroup            bool            `gorm:"column:is_group;not null"`
	ParentClientID     *string         `gorm:"column:parent_client_id;type:varchar(36);index"`
	BillingCycle       string          `gorm:"column:billing_cycle;type:varchar(16)"`
	CutDay             int             `gorm:"column:cut_day"`
	PayDay             int             `gorm:"column:pay_day"`
	AlertThresholdDays int             `gorm:"column:alert_threshold_days"`
	RegisteredAt       time.Time       `gorm:"column:registered_at"`
	CreatedAt          time.Time       `gorm:"column:created_at"`
}

func (ClientModel) TableName() string { return "clients" }

type InvoiceModel struct {
	ID            string          `gorm:"column:id;type:varchar(36);primaryKey"`
	ClientID      string          `gorm:"column:client_id;type:varchar(36);not null;index"`
	Number        string          `gorm:"column:number;type:varchar(64);uniqueIndex"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null"`
	IssueDate     time.Time       `gorm:"column:issue_date;index"`
	DueDate       time.Time       `gorm:"column:due_date;index"`
	PaidDate      *time.Time      `gorm:"column:paid_date"`
	Status        string          `gorm:"column:status;type:varchar(16);not null;index"`
	Type          string          `gorm:"column:invoice_type;type:varchar(16);not null"`
	BillingPeriod string          `gorm:"column:billing_period;type:varchar(7);index"`
	GraceDays     int             `gorm:"column:grace_days"`
	DPD           int             `gorm:"column:dpd"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
}

func (InvoiceModel) TableName() string { return "invoices" }

type PaymentModel struct {
	ID         string          `gorm:"column:id;type:varchar(36);primaryKey"`
	InvoiceID  string          `gorm:"column:invoice_id;type:varchar(36);not null;index"`
	Amount     decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null"`
	PaidAt     time.Time       `gorm:"column:paid_at"`
	Method     string          `gorm:"column:method;type:varchar(32)"`
	Reference  string          `gorm:"column:reference;type:varchar(128)"`
	RecordedBy string          `gorm:"column:recorded_by;type:varchar(64)"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
}

func (PaymentModel) TableName() string { return "payments" }

type PromiseModel struct {
	ID          string          `gorm:"column:id;type:varchar(36);primaryKey"`
	ClientID    string          `gorm:"column:client_id;type:varchar(36);not null;index"`
	InvoiceID   *string         `gorm:"column:invoice_id;type:varchar(36)"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null"`
	PromiseDate time.Time       `gorm:"column:promise_date;index"`
	Status      string          `gorm:"column:status;type:varchar(16);not null;index"`
	Notes       string          `gorm:"column:notes;type:text"`
	CreatedBy   string          `gorm:"column:created_by;type:varchar(64)"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	ResolvedAt  *time.Time      `gorm:"column:resolved_at"`
}

func (PromiseModel) TableName() string { return "payment_promises" }

type NoteModel struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey"`
	ClientID  string    `gorm:"column:client_id;type:varchar(36);not null;index"`
	NoteType  string    `gorm:"column:note_type;type:varchar(32)"`
	Content   string    `gorm:"column:content;type:text"`
	CreatedBy string    `gorm:"column:created_by;type:varchar(64)"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (NoteModel) TableName() string { return "client_notes" }

// Migrate 建表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&AdvisorModel{},
		&ClientModel{},
		&InvoiceModel{},
		&PaymentModel{},
		&PromiseModel{},
		&NoteModel{},
	)
}

type AdvisorRepo struct {
	db *gorm.DB
}

func NewAdvisorRepo(db *gorm.DB) domain.AdvisorRepository {
	return &AdvisorRepo{db: db}
}

func (r *AdvisorRepo) Save(ctx context.Context, a *domain.Advisor) error {
	model := AdvisorModel{ID: a.ID, Name: a.Name, Email: a.Email, CreatedAt: a.CreatedAt}
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *AdvisorRepo) GetByID(ctx context.Context, id string) (*domain.Advisor, error) {
	var model AdvisorModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdvisorNotFound
		}
		return nil, err
	}
	return advisorToDomain(&model), nil
}

func (r *AdvisorRepo) ListAll(ctx context.Context) ([]*domain.Advisor, error) {
	var models []AdvisorModel
	if err := r.db.WithContext(ctx).Order("name").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Advisor, 0, len(models))
	for i := range models {
		out = append(out, advisorToDomain(&models[i]))
	}
	return out, nil
}

func (r *AdvisorRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&AdvisorModel{}).Error
}

func advisorToDomain(m *AdvisorModel) *domain.Advisor {
	return &domain.Advisor{ID: m.ID, Name: m.Name, Email: m.Email, CreatedAt: m.CreatedAt}
}

type ClientRepo struct {
	db *gorm.DB
}

func NewClientRepo(db *gorm.DB) domain.ClientRepository {
	return &ClientRepo{db: db}
}

func (r *ClientRepo) Save(ctx context.Context, c *domain.Client) error {
	model := ClientModel{
		ID:                 c.ID,
		Name:               c.Name,
		AdvisorID:          c.AdvisorID,
		CreditLine:         c.CreditLine,
		CreditStatus:       string(c.CreditStatus),
		Type:               string(c.Type),
		IsGroup:            c.IsGroup,
		ParentClientID:     c.ParentClientID,
		BillingCycle:       string(c.BillingCycle),
		CutDay:             c.CutDay,
		PayDay:             c.PayDay,
		AlertThresholdDays: c.AlertThresholdDays,
		RegisteredAt:       c.RegisteredAt,
		CreatedAt:          c.CreatedAt,
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	var model ClientModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return clientToDomain(&model), nil
}

func (r *ClientRepo) ListAll(ctx context.Context) ([]*domain.Client, error) {
	var models []ClientModel
	if err := r.db.WithContext(ctx).Order("name").Find(&models).Error; err != nil {
		return nil, err
	}
	return clientsToDomain(models), nil
}

func (r *ClientRepo) ListByAdvisor(ctx context.Context, advisorID string) ([]*domain.Client, error) {
	var models []ClientModel
	if err := r.db.WithContext(ctx).Where("advisor_id = ?", advisorID).Order("name").Find(&models).Error; err != nil {
		return nil, err
	}
	return clientsToDomain(models), nil
}

func (r *ClientRepo) ListBillable(ctx context.Context, cutDay int) ([]*domain.Client, error) {
	var models []ClientModel
	err := r.db.WithContext(ctx).
		Where("credit_status = ?", string(domain.CreditStatusActivo)).
		Where("cut_day = ?", cutDay).
		Where("billing_cycle IN ?", []string{string(domain.BillingCycleMensual), string(domain.BillingCycleQuincenal)}).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return clientsToDomain(models), nil
}

func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&ClientModel{}).Error
}

func clientsToDomain(models []ClientModel) []*domain.Client {
	out := make([]*domain.Client, 0, len(models))
	for i := range models {
		out = append(out, clientToDomain(&models[i]))
	}
	return out
}

func clientToDomain(m *ClientModel) *domain.Client {
	return &domain.Client{
		ID:                 m.ID,
		Name:               m.Name,
		AdvisorID:          m.AdvisorID,
		CreditLine:         m.CreditLine,
		CreditStatus:       domain.CreditStatus(m.CreditStatus),
		Type:               domain.ClientType(m.Type),
		IsGroup:            m.IsGroup,
		ParentClientID:     m.ParentClientID,
		BillingCycle:       domain.BillingCycle(m.BillingCycle),
		CutDay:             m.CutDay,
		PayDay:             m.PayDay,
		AlertThresholdDays: m.AlertThresholdDays,
		RegisteredAt:       m.RegisteredAt,
		CreatedAt:          m.CreatedAt,
	}
}

type InvoiceRepo struct {
	db *gorm.DB
}

func NewInvoiceRepo(db *gorm.DB) domain.InvoiceRepository {
	return &InvoiceRepo{db: db}
}

func (r *InvoiceRepo) Save(ctx context.Context, inv *domain.Invoice) error {
	model := InvoiceModel{
		ID:            inv.ID,
		ClientID:      inv.ClientID,
		Number:        inv.Number,
		Amount:        inv.Amount,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		PaidDate:      inv.PaidDate,
		Status:        string(inv.Status),
		Type:          string(inv.Type),
		BillingPeriod: inv.BillingPeriod,
		GraceDays:     inv.GraceDays,
		DPD:           inv.DPD,
		CreatedAt:     inv.CreatedAt,
	}
	err := r.db.WithContext(ctx).Save(&model).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateInvoiceNumber
	}
	return err
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	var model InvoiceModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return invoiceToDomain(&model), nil
}

func (r *InvoiceRepo) ListAll(ctx context.Context) ([]*domain.Invoice, error) {
	var models []InvoiceModel
	if err := r.db.WithContext(ctx).Order("issue_date DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return invoicesToDomain(models), nil
}

func (r *InvoiceRepo) ListByClient(ctx context.Context, clientID string) ([]*domain.Invoice, error) {
	var models []InvoiceModel
	if err := r.db.WithContext(ctx).Where("client_id = ?", clientID).Order("issue_date DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return invoicesToDomain(models), nil
}

func (r *InvoiceRepo) ExistsForPeriod(ctx context.Context, clientID, period string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&InvoiceModel{}).
		Where("client_id = ?", clientID).
		Where("invoice_type = ?", string(domain.InvoiceTypeRecurrente)).
		Where("billing_period = ?", period).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&InvoiceModel{}).Error
}

func invoicesToDomain(models []InvoiceModel) []*domain.Invoice {
	out := make([]*domain.Invoice, 0, len(models))
	for i := range models {
		out = append(out, invoiceToDomain(&models[i]))
	}
	return out
}

func invoiceToDomain(m *InvoiceModel) *domain.Invoice {
	return &domain.Invoice{
		ID:            m.ID,
		ClientID:      m.ClientID,
		Number:        m.Number,
		Amount:        m.Amount,
		IssueDate:     m.IssueDate,
		DueDate:       m.DueDate,
		PaidDate:      m.PaidDate,
		Status:        domain.InvoiceStatus(m.Status),
		Type:          domain.InvoiceType(m.Type),
		BillingPeriod: m.BillingPeriod,
		GraceDays:     m.GraceDays,
		DPD:           m.DPD,
		CreatedAt:     m.CreatedAt,
	}
}

type PaymentRepo struct {
	db *gorm.DB
}

func NewPaymentRepo(db *gorm.DB) domain.PaymentRepository {
	return &PaymentRepo{db: db}
}

func (r *PaymentRepo) Save(ctx context.Context, p *domain.Payment) error {
	model := PaymentModel{
		ID:         p.ID,
		InvoiceID:  p.InvoiceID,
		Amount:     p.Amount,
		PaidAt:     p.PaidAt,
		Method:     p.Method,
		Reference:  p.Reference,
		RecordedBy: p.RecordedBy,
		CreatedAt:  p.CreatedAt,
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *PaymentRepo) ListAll(ctx context.Context) ([]*domain.Payment, error) {
	var models []PaymentModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}
	return paymentsToDomain(models), nil
}

func (r *PaymentRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*domain.Payment, error) {
	var models []PaymentModel
	if err := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).Order("paid_at").Find(&models).Error; err != nil {
		return nil, err
	}
	return paymentsToDomain(models), nil
}

func paymentsToDomain(models []PaymentModel) []*domain.Payment {
	out := make([]*domain.Payment, 0, len(models))
	for i := range models {
		m := &models[i]
		out = append(out, &domain.Payment{
			ID:         m.ID,
			InvoiceID:  m.InvoiceID,
			Amount:     m.Amount,
			PaidAt:     m.PaidAt,
			Method:     m.Method,
			Reference:  m.Reference,
			RecordedBy: m.RecordedBy,
			CreatedAt:  m.CreatedAt,
		})
	}
	return out
}

type PromiseRepo struct {
	db *gorm.DB
}

func NewPromiseRepo(db *gorm.DB) domain.PromiseRepository {
	return &PromiseRepo{db: db}
}

func (r *PromiseRepo) Save(ctx context.Context, p *domain.PaymentPromise) error {
	model := PromiseModel{
		ID:          p.ID,
		ClientID:    p.ClientID,
		InvoiceID:   p.InvoiceID,
		Amount:      p.Amount,
		PromiseDate: p.PromiseDate,
		Status:      string(p.Status),
		Notes:       p.Notes,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		ResolvedAt:  p.ResolvedAt,
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *PromiseRepo) GetByID(ctx context.Context, id string) (*domain.PaymentPromise, error) {
	var model PromiseModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPromiseNotFound
		}
		return nil, err
	}
	return promiseToDomain(&model), nil
}

func (r *PromiseRepo) ListAll(ctx context.Context) ([]*domain.PaymentPromise, error) {
	var models []PromiseModel
	if err := r.db.WithContext(ctx).Order("promise_date DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return promisesToDomain(models), nil
}

func (r *PromiseRepo) ListByClient(ctx context.Context, clientID string) ([]*domain.PaymentPromise, error) {
	var models []PromiseModel
	if err := r.db.WithContext(ctx).Where("client_id = ?", clientID).Order("promise_date DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return promisesToDomain(models), nil
}

func promisesToDomain(models []PromiseModel) []*domain.PaymentPromise {
	out := make([]*domain.PaymentPromise, 0, len(models))
	for i := range models {
		out = append(out, promiseToDomain(&models[i]))
	}
	return out
}

func promiseToDomain(m *PromiseModel) *domain.PaymentPromise {
	return &domain.PaymentPromise{
		ID:          m.ID,
		ClientID:    m.ClientID,
		InvoiceID:   m.InvoiceID,
		Amount:      m.Amount,
		PromiseDate: m.PromiseDate,
		Status:      domain.PromiseStatus(m.Status),
		Notes:       m.Notes,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
		ResolvedAt:  m.ResolvedAt,
	}
}

type NoteRepo struct {
	db *gorm.DB
}

func NewNoteRepo(db *gorm.DB) domain.NoteRepository {
	return &NoteRepo{db: db}
}

func (r *NoteRepo) Save(ctx context.Context, n *domain.ClientNote) error {
	model := NoteModel{
		ID:        n.ID,
		ClientID:  n.ClientID,
		NoteType:  n.Type,
		Content:   n.Content,
		CreatedBy: n.CreatedBy,
		CreatedAt: n.CreatedAt,
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *NoteRepo) ListByClient(ctx context.Context, clientID string) ([]*domain.ClientNote, error) {
	var models []NoteModel
	if err := r.db.WithContext(ctx).Where("client_id = ?", clientID).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.ClientNote, 0, len(models))
	for i := range models {
		m := &models[i]
		out = append(out, &domain.ClientNote{
			ID:        m.ID,
			ClientID:  m.ClientID,
			Type:      m.NoteType,
			Content:   m.Content,
			CreatedBy: m.CreatedBy,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}
