package entity

// OrderStatus is the canonical order lifecycle enum. Snake case only;
// the hyphenated spelling that used to leak in from the storefront is
// normalized at the boundary.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusReadyForPickup OrderStatus = "ready_for_pickup"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
)

// OrderStatuses lists the lifecycle in order. Transitions are forward-only,
// one step at a time.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReadyForPickup,
	StatusOutForDelivery,
	StatusDelivered,
}

// Rank returns the position of s in the lifecycle, or -1 if unknown.
func (s OrderStatus) Rank() int {
	for i, st := range OrderStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the successor status, or "" when s is terminal or unknown.
func (s OrderStatus) Next() OrderStatus {
	r := s.Rank()
	if r < 0 || r >= len(OrderStatuses)-1 {
		return ""
	}
	return OrderStatuses[r+1]
}

func (s OrderStatus) Valid() bool { return s.Rank() >= 0 }

// NormalizeStatus accepts the legacy hyphenated spelling and returns the
// canonical one.
func NormalizeStatus(raw string) OrderStatus {
	if raw == "out-for-delivery" {
		return StatusOutForDelivery
	}
	return OrderStatus(raw)
}
