package redisx

import "time"

const (
	// Record kv: rental:kv:{scoped key} -> JSON snapshot (tanpa TTL)
	KeyRecord = "rental:kv:%s"

	// Cache status order: order_status:{order_id} -> {"status": "...", "updated_at": "..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache = 24 * time.Hour
	TTLDedup       = 48 * time.Hour
)
