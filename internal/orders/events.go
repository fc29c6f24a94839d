package orders

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-party-rentals.git/internal/pricing"
)

const (
	EventOrderCreated       = "RentalOrderCreated"
	EventOrderStatusChanged = "RentalOrderStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "rental-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID        string          `json:"order_id"`
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Quantity       int             `json:"quantity"`
	CustomerEmail  string          `json:"customer_email"`
	StartDate      pricing.Date    `json:"start_date"`
	EndDate        pricing.Date    `json:"end_date"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	DeliveryMethod DeliveryMethod  `json:"delivery_method"`
}

type OrderStatusChangedPayload struct {
	OrderID string `json:"order_id"`
	From    Status `json:"from"`
	To      Status `json:"to"`
}

// NewEnvelope wraps payload in a v1 envelope keyed by orderID.
func NewEnvelope(eventType, producer, traceID, orderID string, payload any) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: orderID,
		Payload:       b,
	}, nil
}

func CreatedPayload(o Order) OrderCreatedPayload {
	return OrderCreatedPayload{
		OrderID:        o.ID,
		ProductID:      o.ProductID,
		ProductName:    o.ProductName,
		Quantity:       o.Quantity,
		CustomerEmail:  o.CustomerEmail,
		StartDate:      o.StartDate,
		EndDate:        o.EndDate,
		TotalPrice:     o.TotalPrice,
		DeliveryMethod: o.DeliveryMethod,
	}
}
