package kv

const (
	KeySessionFlag = "session:authenticated"
	KeyCurrentUser = "session:user"
	KeyCart        = "cart:lines"
	KeyOrders      = "orders:ledger"

	// ShopScope menampung order ledger bersama (dibaca admin).
	ShopScope = "shop"
	// ClientScope: session + cart per client -> client:{id}
	ClientScope = "client:%s"
)
