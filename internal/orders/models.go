package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-party-rentals.git/internal/pricing"
)

type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentPix    PaymentMethod = "pix"
	PaymentBoleto PaymentMethod = "boleto"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCard, PaymentPix, PaymentBoleto:
		return true
	}
	return false
}

type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "pickup"
	DeliveryDelivery DeliveryMethod = "delivery"
)

func (d DeliveryMethod) Valid() bool {
	return d == DeliveryPickup || d == DeliveryDelivery
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Order is a rental created at checkout. Product name, price and customer
// data are copied in and never refreshed; only Status changes afterwards.
type Order struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Size            string          `json:"size,omitempty"`
	Color           string          `json:"color,omitempty"`
	Quantity        int             `json:"quantity"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
	StartDate       pricing.Date    `json:"start_date"`
	EndDate         pricing.Date    `json:"end_date"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	DeliveryMethod  DeliveryMethod  `json:"delivery_method"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}
