// Package cart is the per-client cart ledger: product selections with a
// rental date range, waiting for checkout.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-party-rentals.git/internal/catalog"
	"github.com/ariefcatur/go-party-rentals.git/internal/kv"
	"github.com/ariefcatur/go-party-rentals.git/internal/pricing"
)

// Line holds a copy of the product taken when it was added, so later
// catalog edits do not change what is in the cart.
type Line struct {
	Product   catalog.Product `json:"product"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	StartDate pricing.Date    `json:"start_date"`
	EndDate   pricing.Date    `json:"end_date"`
	Quantity  int             `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return pricing.Price(l.Product.DailyPrice, l.StartDate, l.EndDate, l.Quantity)
}

func (l Line) validate() error {
	if !l.StartDate.Before(l.EndDate) {
		return ErrInvalidDateRange
	}
	if l.Quantity < 1 {
		return ErrInvalidQuantity
	}
	return nil
}

// Patch carries the fields Update may change. Nil means keep.
type Patch struct {
	StartDate *pricing.Date `json:"start_date,omitempty"`
	EndDate   *pricing.Date `json:"end_date,omitempty"`
	Quantity  *int          `json:"quantity,omitempty"`
}

// Merge is the duplicate-product policy for Add: quantities are summed and
// everything else (dates, size, color, product snapshot) comes from the
// line already in the cart.
func Merge(existing, incoming Line) Line {
	existing.Quantity += incoming.Quantity
	return existing
}

// Ledger keeps lines in insertion order. Each mutation writes the whole
// snapshot to the store before it becomes visible; a failed write leaves
// the ledger as it was.
type Ledger struct {
	mu    sync.Mutex
	store kv.Store
	log   *zap.Logger
	lines []Line
}

// Open loads the cart snapshot. A snapshot that cannot be decoded is
// logged and replaced by an empty cart.
func Open(ctx context.Context, store kv.Store, log *zap.Logger) (*Ledger, error) {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Ledger{store: store, log: log}
	var lines []Line
	if _, err := kv.GetJSON(ctx, store, kv.KeyCart, &lines); err != nil {
		if !errors.Is(err, kv.ErrCorruptSnapshot) {
			return nil, fmt.Errorf("load cart: %w", err)
		}
		log.Warn("cart snapshot unreadable, starting empty", zap.Error(err))
		lines = nil
	}
	l.lines = lines
	return l, nil
}

func (l *Ledger) Lines() []Line {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Line(nil), l.lines...)
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}

func (l *Ledger) Add(ctx context.Context, line Line) error {
	if err := line.validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	next := append([]Line(nil), l.lines...)
	if i := l.index(line.Product.ID); i >= 0 {
		next[i] = Merge(next[i], line)
	} else {
		next = append(next, line)
	}
	return l.commit(ctx, next)
}

// Remove is a no-op for a product that is not in the cart.
func (l *Ledger) Remove(ctx context.Context, productID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(productID)
	if i < 0 {
		return nil
	}
	next := make([]Line, 0, len(l.lines)-1)
	next = append(next, l.lines[:i]...)
	next = append(next, l.lines[i+1:]...)
	return l.commit(ctx, next)
}

// Update merges p into the line for productID; no-op when absent. The
// resulting line must still have start < end and quantity >= 1.
func (l *Ledger) Update(ctx context.Context, productID string, p Patch) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(productID)
	if i < 0 {
		return nil
	}
	line := l.lines[i]
	if p.StartDate != nil {
		line.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		line.EndDate = *p.EndDate
	}
	if p.Quantity != nil {
		line.Quantity = *p.Quantity
	}
	if err := line.validate(); err != nil {
		return err
	}
	next := append([]Line(nil), l.lines...)
	next[i] = line
	return l.commit(ctx, next)
}

func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.commit(ctx, []Line{})
}

// TotalQuantity feeds the cart badge.
func (l *Ledger) TotalQuantity() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ln := range l.lines {
		n += ln.Quantity
	}
	return n
}

// Total is the checkout summary amount.
func (l *Ledger) Total() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	sum := decimal.Zero
	for _, ln := range l.lines {
		sum = sum.Add(ln.Subtotal())
	}
	return sum
}

func (l *Ledger) index(productID string) int {
	for i, ln := range l.lines {
		if ln.Product.ID == productID {
			return i
		}
	}
	return -1
}

// commit dipanggil dengan mu terkunci.
func (l *Ledger) commit(ctx context.Context, next []Line) error {
	if err := kv.PutJSON(ctx, l.store, kv.KeyCart, next); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	l.lines = next
	return nil
}
