package orders

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ariefcatur/go-party-rentals.git/internal/cart"
	"github.com/ariefcatur/go-party-rentals.git/internal/pricing"
)

type CheckoutRequest struct {
	Customer        Customer       `json:"customer"`
	PaymentMethod   PaymentMethod  `json:"payment_method"`
	DeliveryMethod  DeliveryMethod `json:"delivery_method"`
	DeliveryAddress string         `json:"delivery_address,omitempty"`
}

// Validate checks the checkout form against a cart of n lines. The first
// failing rule wins.
func (r CheckoutRequest) Validate(n int) error {
	if n == 0 {
		return ErrEmptyCart
	}
	c := r.Customer
	if blank(c.Name) || blank(c.Email) || blank(c.Phone) {
		return ErrMissingCustomerInfo
	}
	if r.DeliveryMethod == DeliveryDelivery && blank(r.DeliveryAddress) {
		return ErrMissingAddress
	}
	if !r.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	if !r.DeliveryMethod.Valid() {
		return ErrInvalidDeliveryMethod
	}
	return nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// Checkout turns every cart line into a pending order, appends the batch
// to the ledger and then empties the cart. If the orders cannot be saved
// the cart is left alone. If only the cart clear fails, the saved orders
// are returned together with ErrCartNotCleared.
func (l *Ledger) Checkout(ctx context.Context, c *cart.Ledger, req CheckoutRequest) ([]Order, error) {
	lines := c.Lines()
	if err := req.Validate(len(lines)); err != nil {
		return nil, err
	}

	now := l.now()
	address := ""
	if req.DeliveryMethod == DeliveryDelivery {
		address = strings.TrimSpace(req.DeliveryAddress)
	}
	batch := make([]Order, 0, len(lines))
	for _, ln := range lines {
		batch = append(batch, Order{
			ID:              l.newID(),
			ProductID:       ln.Product.ID,
			ProductName:     ln.Product.Name,
			Size:            ln.Size,
			Color:           ln.Color,
			Quantity:        ln.Quantity,
			CustomerName:    strings.TrimSpace(req.Customer.Name),
			CustomerEmail:   strings.TrimSpace(req.Customer.Email),
			CustomerPhone:   strings.TrimSpace(req.Customer.Phone),
			StartDate:       ln.StartDate,
			EndDate:         ln.EndDate,
			TotalPrice:      pricing.Price(ln.Product.DailyPrice, ln.StartDate, ln.EndDate, ln.Quantity),
			PaymentMethod:   req.PaymentMethod,
			DeliveryMethod:  req.DeliveryMethod,
			DeliveryAddress: address,
			Status:          StatusPending,
			CreatedAt:       now,
		})
	}

	if err := l.appendBatch(ctx, batch); err != nil {
		return nil, err
	}
	l.log.Info("checkout completed",
		zap.Int("orders", len(batch)),
		zap.String("customer_email", batch[0].CustomerEmail))

	if err := c.Clear(ctx); err != nil {
		l.log.Warn("cart not cleared after checkout", zap.Error(err))
		return batch, fmt.Errorf("%w: %v", ErrCartNotCleared, err)
	}
	return batch, nil
}
