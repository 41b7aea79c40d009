package application

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/wyfcoding/creditportfolio/internal/portfolio/domain"
)

type fakeStore struct {
	mu       sync.Mutex
	advisors map[string]*domain.Advisor
	clients  map[string]*domain.Client
	invoices map[string]*domain.Invoice
	payments map[string]*domain.Payment
	promises map[string]*domain.PaymentPromise
	notes    map[string]*domain.ClientNote
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		advisors: make(map[string]*domain.Advisor),
		clients:  make(map[string]*domain.Client),
		invoices: make(map[string]*domain.Invoice),
		payments: make(map[string]*domain.Payment),
		promises: make(map[string]*domain.PaymentPromise),
		notes:    make(map[string]*domain.ClientNote),
	}
}

type fakeAdvisorRepo struct{ store *fakeStore }

func (r *fakeAdvisorRepo) Save(_ context.Context, a *domain.Advisor) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *a
	r.store.advisors[a.ID] = &cp
	return nil
}

func (r *fakeAdvisorRepo) GetByID(_ context.Context, id string) (*domain.Advisor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.advisors[id]
	if !ok {
		return nil, domain.ErrAdvisorNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAdvisorRepo) ListAll(_ context.Context) ([]*domain.Advisor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*domain.Advisor, 0, len(r.store.advisors))
	for _, a := range r.store.advisors {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAdvisorRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.advisors, id)
	return nil
}

type fakeClientRepo struct{ store *fakeStore }

func (r *fakeClientRepo) Save(_ context.Context, c *domain.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *c
	r.store.clients[c.ID] = &cp
	return nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, id string) (*domain.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClientRepo) ListAll(_ context.Context) ([]*domain.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*domain.Client, 0, len(r.store.clients))
	for _, c := range r.store.clients {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeClientRepo) ListByAdvisor(_ context.Context, advisorID string) ([]*domain.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*domain.Client
	for _, c := range r.store.clients {
		if c.AdvisorID != nil && *c.AdvisorID == advisorID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeClientRepo) ListBillable(_ context.Context, cutDay int) ([]*domain.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*domain.Client
	for _, c := range r.store.clients {
		if c.CreditStatus != domain.CreditStatusActivo || c.CutDay != cutDay {
			continue
		}
		if c.BillingCycle != domain.BillingCycleMensual && c.BillingCycle != domain.BillingCycleQuincenal {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeClientRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.clients, id)
	return nil
}

type fakeInvoiceRepo struct{ store *fakeStore }

func (r *fakeInvoiceRepo) Save(_ context.Context, inv *domain.Invoice) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *inv
	r.store.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id string) (*domain.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	inv, ok := r.store.invoices[id]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) ListAll(_ context.Context) ([]*domain.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*domain.Invoice, 0, len(r.store.invoices))
	for _, inv := range r.store.invoices {
		cp := *inv
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssueDate.After(out[j].IssueDate) })
	return out, nil
}

func (r *fakeInvoiceRepo) ListByClient(_ context.Context, clientID string) ([]*domain.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*domain.Invoice
	for _, inv := range r.store.invoices {
		if inv.ClientID == clientID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ExistsForPeriod(_ context.Context, clientID, period string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, inv := range r.store.invoices {
		if inv.ClientID == clientID && inv.Type == domain.InvoiceTypeRecurrente && inv.BillingPeriod == period {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.invoices, id)
	return nil
}

type fakePaymentRepo struct{ store *fakeStore }

func (r *fakePaymentRepo) Save(_ context.Context, p *domain.Payment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *p
	r.store.payments[p.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) ListAll(_ context.Context) ([]*domain.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*domain.Payment, 0, len(r.store.payments))
	for _, p := range r.store.payments {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePaymentRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*domain.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*domain.Payment
	for _, p := range r.store.payments {
		if p.InvoiceID == invoiceID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakePromiseRepo struct{ store *fakeStore }

func (r *fakePromiseRepo) Save(_ context.Context, p *domain.PaymentPromise) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *p
	r.store.promises[p.ID] = &cp
	return nil
}

func (r *fakePromiseRepo) GetByID(_ context.Context, id string) (*domain.PaymentPromise, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.promises[id]
	if !ok {
		return nil, domain.ErrPromiseNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePromiseRepo) ListAll(_ context.Context) ([]*domain.PaymentPromise, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*domain.PaymentPromise, 0, len(r.store.promises))
	for _, p := range r.store.promises {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePromiseRepo) ListByClient(_ context.Context, clientID string) ([]*domain.PaymentPromise, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*domain.PaymentPromise
	for _, p := range r.store.promises {
		if p.ClientID == clientID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeNoteRepo struct{ store *fakeStore }

func (r *fakeNoteRepo) Save(_ context.Context, n *domain.ClientNote) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *n
	r.store.notes[n.ID] = &cp
	return nil
}

func (r *fakeNoteRepo) ListByClient(_ context.Context, clientID string) ([]*domain.ClientNote, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*domain.ClientNote
	for _, n := range r.store.notes {
		if n.ClientID == clientID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.DomainEvent
}

func (p *fakePublisher) Publish(e domain.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) published() []domain.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.DomainEvent(nil), p.events...)
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.deletes++
	return nil
}
