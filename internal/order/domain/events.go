package domain

import "github.com/google/uuid"

// StatusChanged is the outbox payload appended whenever an order is created
// or transitions. Downstream consumers (kitchen display, analytics) key on
// OrderID.
type StatusChanged struct {
	OrderID    uuid.UUID   `json:"order_id"`
	Type       OrderType   `json:"type"`
	Status     OrderStatus `json:"status"`
	TotalPrice int64       `json:"total_price"`
}

// EventType names the outbox event for a status, e.g. "order.accepted".
func EventType(status OrderStatus) string {
	switch status {
	case StatusWaiting:
		return "order.placed"
	case StatusAccepted:
		return "order.accepted"
	case StatusServed:
		return "order.served"
	case StatusDelivering:
		return "order.delivering"
	case StatusDelivered:
		return "order.delivered"
	case StatusCompleted:
		return "order.completed"
	default:
		return "order.updated"
	}
}
