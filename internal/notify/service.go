// Package notify consumes rental order events: it drops redeliveries,
// keeps the last known status per order in redis and logs a line the
// shop staff can follow.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/ariefcatur/go-party-rentals.git/internal/kafka"
	"github.com/ariefcatur/go-party-rentals.git/internal/orders"
	"github.com/ariefcatur/go-party-rentals.git/internal/redisx"
)

type Service struct {
	Redis       *redis.Client
	Log         *zap.Logger
	ServiceName string
}

type statusEntry struct {
	Status    orders.Status `json:"status"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// HandleOrderEvent dipasang sebagai handler consumer untuk kedua topic.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	// header x-event-type cukup untuk skip event lain tanpa decode
	if t := kafkax.HeaderValue(m, kafkax.HeaderEventType); t != "" && !handled(t) {
		return nil
	}
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// pesan rusak tidak akan pernah sukses; commit saja
		s.Log.Warn("dropping undecodable event", zap.Int64("offset", m.Offset), zap.Error(err))
		return nil
	}
	if !handled(env.EventType) {
		return nil
	}

	// dedup via Redis (pakai event_id); SETNX supaya dua worker tidak dobel
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	fresh, err := s.Redis.SetNX(ctx, dkey, "1", redisx.TTLDedup).Result()
	if err != nil {
		return err
	}
	if !fresh {
		return nil
	}

	var handleErr error
	switch env.EventType {
	case orders.EventOrderCreated:
		handleErr = s.onCreated(ctx, env)
	case orders.EventOrderStatusChanged:
		handleErr = s.onStatusChanged(ctx, env)
	}
	if handleErr != nil {
		// lepas dedup supaya redelivery bisa diproses ulang
		_ = s.Redis.Del(ctx, dkey).Err()
	}
	return handleErr
}

func handled(eventType string) bool {
	return eventType == orders.EventOrderCreated || eventType == orders.EventOrderStatusChanged
}

func (s *Service) onCreated(ctx context.Context, env orders.Envelope) error {
	p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}
	if err := s.cacheStatus(ctx, p.OrderID, orders.StatusPending, env.OccurredAt); err != nil {
		return err
	}
	s.Log.Info("new rental order",
		zap.String("order_id", p.OrderID),
		zap.String("product", p.ProductName),
		zap.Int("quantity", p.Quantity),
		zap.String("from", p.StartDate.String()),
		zap.String("to", p.EndDate.String()),
		zap.String("total", p.TotalPrice.StringFixed(2)),
		zap.String("delivery", string(p.DeliveryMethod)),
		zap.String("customer_email", p.CustomerEmail),
		zap.String("trace_id", env.TraceID))
	return nil
}

func (s *Service) onStatusChanged(ctx context.Context, env orders.Envelope) error {
	p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
	if err != nil {
		return err
	}
	prev, seen, err := s.LastStatus(ctx, p.OrderID)
	if err != nil {
		return err
	}
	if seen && prev != p.From {
		s.Log.Warn("status event does not follow cached status",
			zap.String("order_id", p.OrderID),
			zap.String("cached", string(prev)),
			zap.String("from", string(p.From)))
	}
	if err := s.cacheStatus(ctx, p.OrderID, p.To, env.OccurredAt); err != nil {
		return err
	}
	s.Log.Info("rental order status changed",
		zap.String("order_id", p.OrderID),
		zap.String("from", string(p.From)),
		zap.String("to", string(p.To)),
		zap.String("trace_id", env.TraceID))
	return nil
}

func (s *Service) cacheStatus(ctx context.Context, orderID string, st orders.Status, at time.Time) error {
	b, err := json.Marshal(statusEntry{Status: st, UpdatedAt: at})
	if err != nil {
		return err
	}
	return s.Redis.Set(ctx, fmt.Sprintf(redisx.KeyOrderStatus, orderID), b, redisx.TTLStatusCache).Err()
}

// LastStatus reads the cached status for orderID; ok is false when the
// notifier has not seen the order.
func (s *Service) LastStatus(ctx context.Context, orderID string) (st orders.Status, ok bool, err error) {
	raw, err := s.Redis.Get(ctx, fmt.Sprintf(redisx.KeyOrderStatus, orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	var e statusEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return "", false, err
	}
	return e.Status, true, nil
}
