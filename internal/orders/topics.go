package orders

const (
	TopicOrderCreated = "rental.order.created"
	TopicOrderStatus  = "rental.order.status"
)

// Partition key = order_id, supaya semua event 1 order maintain urutan.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
