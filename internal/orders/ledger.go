package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-party-rentals.git/internal/kv"
)

// Ledger is the ordered list of every order ever placed. Orders are
// appended at checkout and only their status changes later; nothing is
// deleted. The store snapshot is replaced on every mutation and the
// in-memory list only moves once that write succeeded.
type Ledger struct {
	mu     sync.Mutex
	store  kv.Store
	log    *zap.Logger
	orders []Order
	now    func() time.Time
	newID  func() string
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option { return func(l *Ledger) { l.now = now } }

func WithIDs(newID func() string) Option { return func(l *Ledger) { l.newID = newID } }

// Open loads the order snapshot from store. An unreadable snapshot is
// logged and treated as empty; backend errors are returned.
func Open(ctx context.Context, store kv.Store, log *zap.Logger, opts ...Option) (*Ledger, error) {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Ledger{
		store: store,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(l)
	}
	if err := l.Reload(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload replaces the in-memory list with the stored snapshot. Writers in
// other processes (rentalctl, a second API) are picked up here; every
// mutation also reloads before it writes.
func (l *Ledger) Reload(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refresh(ctx)
}

// refresh dipanggil dengan mu terkunci. An unreadable snapshot is logged
// and treated as empty.
func (l *Ledger) refresh(ctx context.Context) error {
	var orders []Order
	if _, err := kv.GetJSON(ctx, l.store, kv.KeyOrders, &orders); err != nil {
		if !errors.Is(err, kv.ErrCorruptSnapshot) {
			return fmt.Errorf("load orders: %w", err)
		}
		l.log.Warn("order snapshot unreadable, starting empty", zap.Error(err))
		orders = nil
	}
	l.orders = orders
	return nil
}

// List returns orders in insertion order; an empty status returns all.
func (l *Ledger) List(status Status) []Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Order, 0, len(l.orders))
	for _, o := range l.orders {
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

func (l *Ledger) Get(id string) (Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.index(id); i >= 0 {
		return l.orders[i], nil
	}
	return Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
}

// SetStatus moves one order along the status table and persists the
// ledger. It returns the order before and after the change.
func (l *Ledger) SetStatus(ctx context.Context, id string, to Status) (before, after Order, err error) {
	if !to.Valid() {
		return Order{}, Order{}, fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.refresh(ctx); err != nil {
		return Order{}, Order{}, err
	}

	i := l.index(id)
	if i < 0 {
		return Order{}, Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	before = l.orders[i]
	if err := Transition(before.Status, to); err != nil {
		return before, before, err
	}
	next := append([]Order(nil), l.orders...)
	next[i].Status = to
	if err := l.commit(ctx, next); err != nil {
		return before, before, err
	}
	l.log.Info("order status changed",
		zap.String("order_id", id),
		zap.String("from", string(before.Status)),
		zap.String("to", string(to)))
	return before, next[i], nil
}

// appendBatch adds orders after the ones currently stored.
func (l *Ledger) appendBatch(ctx context.Context, batch []Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.refresh(ctx); err != nil {
		return err
	}
	next := make([]Order, 0, len(l.orders)+len(batch))
	next = append(next, l.orders...)
	next = append(next, batch...)
	return l.commit(ctx, next)
}

func (l *Ledger) index(id string) int {
	for i, o := range l.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// commit dipanggil dengan mu terkunci.
func (l *Ledger) commit(ctx context.Context, next []Order) error {
	if err := kv.PutJSON(ctx, l.store, kv.KeyOrders, next); err != nil {
		return fmt.Errorf("save orders: %w", err)
	}
	l.orders = next
	return nil
}
