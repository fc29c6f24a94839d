package orders

import "errors"

// Checkout preconditions, checked in this order.
var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrMissingCustomerInfo   = errors.New("customer name, email and phone are required")
	ErrMissingAddress        = errors.New("delivery address is required for delivery")
	ErrInvalidPaymentMethod  = errors.New("payment method must be card, pix or boleto")
	ErrInvalidDeliveryMethod = errors.New("delivery method must be pickup or delivery")
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrUnknownStatus = errors.New("unknown order status")

	// ErrCartNotCleared accompanies orders that were saved while the cart
	// clear that follows could not be persisted.
	ErrCartNotCleared = errors.New("orders saved but cart could not be cleared")
)
