// Package domain 信贷组合服务仓储接口
package domain

import "context"

type AdvisorRepository interface {
	Save(ctx context.Context, advisor *Advisor) error
	GetByID(ctx context.Context, id string) (*Advisor, error)
	ListAll(ctx context.Context) ([]*Advisor, error)
	Delete(ctx context.Context, id string) error
}

type ClientRepository interface {
	Save(ctx context.Context, client *Client) error
	GetByID(ctx context.Context, id string) (*Client, error)
	ListAll(ctx context.Context) ([]*Client, error)
	ListByAdvisor(ctx context.Context, advisorID string) ([]*Client, error)
	ListBillable(ctx context.Context, cutDay int) ([]*Client, error)
	Delete(ctx context.Context, id string) error
}

type InvoiceRepository interface {
	Save(ctx context.Context, invoice *Invoice) error
	GetByID(ctx context.Context, id string) (*Invoice, error)
	ListAll(ctx context.Context) ([]*Invoice, error) // 按开票日期降序
	ListByClient(ctx context.Context, clientID string) ([]*Invoice, error)
	ExistsForPeriod(ctx context.Context, clientID, period string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type PaymentRepository interface {
	Save(ctx context.Context, payment *Payment) error
	ListAll(ctx context.Context) ([]*Payment, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]*Payment, error)
}

type PromiseRepository interface {
	Save(ctx context.Context, promise *PaymentPromise) error
	GetByID(ctx context.Context, id string) (*PaymentPromise, error)
	ListAll(ctx context.Context) ([]*PaymentPromise, error)
	ListByClient(ctx context.Context, clientID string) ([]*PaymentPromise, error)
}

type NoteRepository interface {
	Save(ctx context.Context, note *ClientNote) error
	ListByClient(ctx context.Context, clientID string) ([]*ClientNote, error)
}
