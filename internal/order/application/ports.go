package application

import (
	"context"

	"github.com/google/uuid"
	catalog "github.com/restauranthq/pos-service/internal/catalog/domain"
	"github.com/restauranthq/pos-service/internal/order/domain"
	table "github.com/restauranthq/pos-service/internal/table/domain"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	Save(ctx context.Context, o domain.Order) (domain.Order, error)
	// ExistsByTableAndStatusNot reports whether any order on the table is in
	// a status other than the given one.
	ExistsByTableAndStatusNot(ctx context.Context, tableID uuid.UUID, status domain.OrderStatus) (bool, error)
}

// MenuReader is the read-only slice of the catalog this context needs.
type MenuReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (catalog.Menu, error)
	// FindAllByIDIn returns distinct menus, at most one per id. Order
	// creation compares the result count against the line-item count, so a
	// request carrying duplicate menu ids resolves short and is rejected.
	FindAllByIDIn(ctx context.Context, ids []uuid.UUID) ([]catalog.Menu, error)
}

type OrderTableRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (table.OrderTable, error)
	Save(ctx context.Context, t table.OrderTable) (table.OrderTable, error)
}

// DeliveryClient hands an accepted delivery order to the courier service.
// Fire-and-forget: failures are the courier integration's to retry.
type DeliveryClient interface {
	RequestDelivery(ctx context.Context, orderID uuid.UUID, totalPrice int64, deliveryAddress string) error
}
