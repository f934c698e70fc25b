package domain

import (
	"time"

	"github.com/google/uuid"
	catalog "github.com/restauranthq/pos-service/internal/catalog/domain"
	table "github.com/restauranthq/pos-service/internal/table/domain"
	"github.com/restauranthq/pos-service/pkg/apperr"
)

type OrderType string

const (
	TypeDelivery OrderType = "DELIVERY"
	TypeTakeout  OrderType = "TAKEOUT"
	TypeEatIn    OrderType = "EAT_IN"
)

type OrderStatus string

const (
	StatusWaiting    OrderStatus = "WAITING"
	StatusAccepted   OrderStatus = "ACCEPTED"
	StatusServed     OrderStatus = "SERVED"
	StatusDelivering OrderStatus = "DELIVERING"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCompleted  OrderStatus = "COMPLETED"
)

// OrderLineItem snapshots a menu at order-creation time. Price is frozen
// even if the menu's live price later changes; Menu is kept for the
// delivery-total lookup on accept.
type OrderLineItem struct {
	MenuID   uuid.UUID
	Menu     catalog.Menu
	Price    int64
	Quantity int64
}

// Order is the lifecycle aggregate. Status only moves forward along the
// per-type transition table; COMPLETED is terminal.
type Order struct {
	ID              uuid.UUID
	Type            OrderType
	Status          OrderStatus
	OrderDateTime   time.Time
	OrderLineItems  []OrderLineItem
	DeliveryAddress string
	OrderTableID    uuid.UUID
	OrderTable      *table.OrderTable
}

// lifecycle encodes, per order type, which status each target status may be
// reached from. DELIVERING and DELIVERED exist only for DELIVERY; takeout
// and eat-in complete straight from SERVED.
var lifecycle = map[OrderType]map[OrderStatus]OrderStatus{
	TypeDelivery: {
		StatusAccepted:   StatusWaiting,
		StatusServed:     StatusAccepted,
		StatusDelivering: StatusServed,
		StatusDelivered:  StatusDelivering,
		StatusCompleted:  StatusDelivered,
	},
	TypeTakeout: {
		StatusAccepted:  StatusWaiting,
		StatusServed:    StatusAccepted,
		StatusCompleted: StatusServed,
	},
	TypeEatIn: {
		StatusAccepted:  StatusWaiting,
		StatusServed:    StatusAccepted,
		StatusCompleted: StatusServed,
	},
}

func NewOrder(orderType OrderType, items []OrderLineItem, deliveryAddress string, orderTable *table.OrderTable) Order {
	o := Order{
		ID:              uuid.New(),
		Type:            orderType,
		Status:          StatusWaiting,
		OrderDateTime:   time.Now().UTC(),
		OrderLineItems:  items,
		DeliveryAddress: deliveryAddress,
	}
	if orderTable != nil {
		o.OrderTableID = orderTable.ID
		o.OrderTable = orderTable
	}
	return o
}

func (o Order) transitionTo(next OrderStatus) (Order, error) {
	from, ok := lifecycle[o.Type][next]
	if !ok || o.Status != from {
		return Order{}, apperr.IllegalStatef("order %s (%s): cannot move from %s to %s", o.ID, o.Type, o.Status, next)
	}
	o.Status = next
	return o, nil
}

func (o Order) Accept() (Order, error) {
	return o.transitionTo(StatusAccepted)
}

func (o Order) Serve() (Order, error) {
	return o.transitionTo(StatusServed)
}

func (o Order) StartDelivery() (Order, error) {
	return o.transitionTo(StatusDelivering)
}

func (o Order) CompleteDelivery() (Order, error) {
	return o.transitionTo(StatusDelivered)
}

func (o Order) Complete() (Order, error) {
	return o.transitionTo(StatusCompleted)
}

// TotalPrice is Σ line item price × quantity, quoted to the courier on
// accept.
func (o Order) TotalPrice() int64 {
	var total int64
	for _, item := range o.OrderLineItems {
		total += item.Price * item.Quantity
	}
	return total
}
