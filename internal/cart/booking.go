package cart

import (
	"fmt"

	"github.com/ariefcatur/go-party-rentals.git/internal/catalog"
	"github.com/ariefcatur/go-party-rentals.git/internal/pricing"
)

// BookingRequest is what the product detail form submits.
type BookingRequest struct {
	Size      string       `json:"size"`
	Color     string       `json:"color"`
	StartDate pricing.Date `json:"start_date"`
	EndDate   pricing.Date `json:"end_date"`
	Quantity  int          `json:"quantity"`
}

// NewLine validates a booking against the product as it is now and
// returns the line to add. Stock is checked here only; the ledger does not
// reserve anything.
func NewLine(p catalog.Product, req BookingRequest) (Line, error) {
	if p.Stock == 0 {
		return Line{}, ErrOutOfStock
	}
	if req.Size == "" || req.Color == "" || req.StartDate.IsZero() || req.EndDate.IsZero() {
		return Line{}, ErrIncompleteSelection
	}
	if !req.StartDate.Before(req.EndDate) {
		return Line{}, ErrInvalidDateRange
	}
	if !p.HasSize(req.Size) || !p.HasColor(req.Color) {
		return Line{}, fmt.Errorf("%w: size=%s color=%s", ErrUnknownOption, req.Size, req.Color)
	}
	if req.Quantity < 1 {
		return Line{}, ErrInvalidQuantity
	}
	if req.Quantity > p.Stock {
		return Line{}, fmt.Errorf("%w: requested %d, available %d", ErrExceedsStock, req.Quantity, p.Stock)
	}
	return Line{
		Product:   p,
		Size:      req.Size,
		Color:     req.Color,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Quantity:  req.Quantity,
	}, nil
}
