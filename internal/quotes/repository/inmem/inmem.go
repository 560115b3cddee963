// Package inmem holds an in-memory quotes Repository with the ordering and
// transaction semantics of the Postgres one.
package inmem

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"chanitec_backend/internal/quotes/repository"
	"chanitec_backend/platform/apperr"
)

// ErrInjected is returned by the operation named in FailOn.
var ErrInjected = errors.New("connection reset by peer")

type snapshot struct {
	quotes   []repository.Quote
	supplies []repository.SupplyItem
	labor    []repository.LaborItem
}

func (m *snapshot) clone() *snapshot {
	return &snapshot{
		quotes:   append([]repository.Quote(nil), m.quotes...),
		supplies: append([]repository.SupplyItem(nil), m.supplies...),
		labor:    append([]repository.LaborItem(nil), m.labor...),
	}
}

// store is the in-memory Store. failOn names a method that returns ErrInjected.
// Inside a transaction every write sees the same timestamp, like now() does.
type store struct {
	mu     *sync.Mutex
	state  *snapshot
	failOn string
	clock  *time.Time
	txTime *time.Time
	seq    *int64
}

// Repo is an in-memory Repository for tests. It stages every
// transaction on a copy and swaps it in on commit.
type Repo struct {
	*store
}

// New returns an empty Repo.
func New() *Repo {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	var seq int64
	return &Repo{store: &store{mu: &sync.Mutex{}, state: &snapshot{}, clock: &now, seq: &seq}}
}

// WithTx runs fn on a staged copy that is swapped in when fn succeeds.
func (r *Repo) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	r.mu.Lock()
	staged := r.state.clone()
	started := r.tick()
	r.mu.Unlock()

	tx := &store{mu: &sync.Mutex{}, state: staged, failOn: r.failOn, clock: r.clock, txTime: &started, seq: r.seq}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	r.mu.Lock()
	r.state = staged
	r.mu.Unlock()
	return nil
}

// FailOn makes the named Store method return ErrInjected.
func (r *Repo) FailOn(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failOn = op
}

// Counts reports the committed row count per table.
func (r *Repo) Counts() (quotes, supplies, labor int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.state.quotes), len(r.state.supplies), len(r.state.labor)
}

func (m *store) fail(op string) error {
	if m.failOn == op {
		return ErrInjected
	}
	return nil
}

func (m *store) tick() time.Time {
	if m.txTime != nil {
		return *m.txTime
	}
	*m.clock = m.clock.Add(time.Second)
	return *m.clock
}

func (m *store) nextSeq() int64 {
	*m.seq++
	return *m.seq
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (m *store) FindDuplicate(_ context.Context, q repository.Quote) (string, error) {
	if err := m.fail("FindDuplicate"); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.state.quotes {
		if e.ClientName == q.ClientName && e.SiteName == q.SiteName && e.Object == q.Object && e.Date == q.Date &&
			e.SupplyDescription == q.SupplyDescription && e.LaborDescription == q.LaborDescription &&
			e.SupplyExchangeRate == q.SupplyExchangeRate && e.SupplyMarginRate == q.SupplyMarginRate &&
			e.LaborExchangeRate == q.LaborExchangeRate && e.LaborMarginRate == q.LaborMarginRate &&
			e.TotalSuppliesHT == q.TotalSuppliesHT && e.TotalLaborHT == q.TotalLaborHT && e.TotalHT == q.TotalHT &&
			e.TVA == q.TVA && e.TotalTTC == q.TotalTTC && sameRef(e.ParentID, q.ParentID) {
			return e.ID, nil
		}
	}
	return "", nil
}

func (m *store) InsertQuote(_ context.Context, q repository.Quote) error {
	if err := m.fail("InsertQuote"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.state.quotes {
		if e.ID == q.ID {
			return errors.New("duplicate key value violates unique constraint \"quotes_pkey\"")
		}
	}
	q.CreatedAt = m.tick()
	q.UpdatedAt = q.CreatedAt
	m.state.quotes = append(m.state.quotes, q)
	return nil
}

func (m *store) InsertSupplyItem(_ context.Context, item repository.SupplyItem) error {
	if err := m.fail("InsertSupplyItem"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	item.Seq = m.nextSeq()
	item.CreatedAt = m.tick()
	item.UpdatedAt = item.CreatedAt
	m.state.supplies = append(m.state.supplies, item)
	return nil
}

func (m *store) InsertLaborItem(_ context.Context, item repository.LaborItem) error {
	if err := m.fail("InsertLaborItem"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	item.Seq = m.nextSeq()
	item.CreatedAt = m.tick()
	item.UpdatedAt = item.CreatedAt
	m.state.labor = append(m.state.labor, item)
	return nil
}

func (m *store) GetByID(_ context.Context, id string) (repository.Quote, error) {
	if err := m.fail("GetByID"); err != nil {
		return repository.Quote{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.state.quotes {
		if q.ID == id {
			return q, nil
		}
	}
	return repository.Quote{}, apperr.NotFound("Quote not found")
}

func (m *store) Exists(ctx context.Context, id string) (bool, error) {
	_, err := m.GetByID(ctx, id)
	if apperr.Is(err, apperr.KindNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *store) List(_ context.Context) ([]repository.Quote, error) {
	if err := m.fail("List"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]repository.Quote(nil), m.state.quotes...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *store) UpdateHeader(_ context.Context, q repository.Quote) error {
	if err := m.fail("UpdateHeader"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.state.quotes {
		if e.ID != q.ID {
			continue
		}
		if q.Remise == "" {
			q.Remise = e.Remise
		}
		if q.ParentID == nil {
			q.ParentID = e.ParentID
		}
		if q.SplitID == nil {
			q.SplitID = e.SplitID
		}
		q.Confirmed, q.NumberChanitec, q.ReminderDate = e.Confirmed, e.NumberChanitec, e.ReminderDate
		q.CreatedAt = e.CreatedAt
		q.UpdatedAt = m.tick()
		m.state.quotes[i] = q
		return nil
	}
	return apperr.NotFound("Quote not found")
}

func (m *store) mutateQuote(id string, fn func(q *repository.Quote)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.state.quotes {
		if m.state.quotes[i].ID == id {
			fn(&m.state.quotes[i])
			return nil
		}
	}
	return apperr.NotFound("Quote not found")
}

func (m *store) SetReminderDate(_ context.Context, id, date string) error {
	return m.mutateQuote(id, func(q *repository.Quote) { q.ReminderDate = &date })
}

func (m *store) Confirm(_ context.Context, id string, confirmed bool, numberChanitec string) error {
	if err := m.fail("Confirm"); err != nil {
		return err
	}
	return m.mutateQuote(id, func(q *repository.Quote) {
		q.Confirmed = confirmed
		q.NumberChanitec = &numberChanitec
	})
}

func (m *store) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, q := range m.state.quotes {
		if q.ID == id {
			m.state.quotes = append(m.state.quotes[:i], m.state.quotes[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Quote not found")
}

func (m *store) ListSupplyItems(_ context.Context, quoteID string) ([]repository.SupplyItem, error) {
	if err := m.fail("ListSupplyItems"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]repository.SupplyItem, 0)
	for _, item := range m.state.supplies {
		if item.QuoteID == quoteID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (m *store) GetSupplyItem(_ context.Context, id string) (repository.SupplyItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.state.supplies {
		if item.ID == id {
			return item, nil
		}
	}
	return repository.SupplyItem{}, apperr.NotFound("Supply item not found")
}

func (m *store) UpdateSupplyItem(_ context.Context, item repository.SupplyItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.state.supplies {
		if e.ID == item.ID {
			item.QuoteID, item.CreatedAt = e.QuoteID, e.CreatedAt
			item.UpdatedAt = m.tick()
			m.state.supplies[i] = item
			return nil
		}
	}
	return apperr.NotFound("Supply item not found")
}

func (m *store) DeleteSupplyItem(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.state.supplies {
		if e.ID == id {
			m.state.supplies = append(m.state.supplies[:i], m.state.supplies[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Supply item not found")
}

func (m *store) ListLaborItems(_ context.Context, quoteID string) ([]repository.LaborItem, error) {
	if err := m.fail("ListLaborItems"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]repository.LaborItem, 0)
	for _, item := range m.state.labor {
		if item.QuoteID == quoteID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (m *store) GetLaborItem(_ context.Context, id string) (repository.LaborItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.state.labor {
		if item.ID == id {
			return item, nil
		}
	}
	return repository.LaborItem{}, apperr.NotFound("Labor item not found")
}

func (m *store) UpdateLaborItem(_ context.Context, item repository.LaborItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.state.labor {
		if e.ID == item.ID {
			item.QuoteID, item.CreatedAt = e.QuoteID, e.CreatedAt
			item.UpdatedAt = m.tick()
			m.state.labor[i] = item
			return nil
		}
	}
	return apperr.NotFound("Labor item not found")
}

func (m *store) DeleteLaborItem(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.state.labor {
		if e.ID == id {
			m.state.labor = append(m.state.labor[:i], m.state.labor[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Labor item not found")
}

var _ repository.Repository = (*Repo)(nil)

