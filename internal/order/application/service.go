package application

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/restauranthq/pos-service/internal/order/domain"
	"github.com/restauranthq/pos-service/pkg/apperr"
)

type CreateOrderRequest struct {
	Type            domain.OrderType
	OrderLineItems  []OrderLineItemRequest
	DeliveryAddress string
	OrderTableID    uuid.UUID
}

type OrderLineItemRequest struct {
	MenuID   uuid.UUID
	Price    int64
	Quantity int64
}

// Service drives the order state machine. Every operation is one atomic
// read-validate-write unit; the repository serializes concurrent writes to
// the same order.
type Service struct {
	log     *slog.Logger
	orders  OrderRepository
	menus   MenuReader
	tables  OrderTableRepository
	courier DeliveryClient
}

func NewService(log *slog.Logger, orders OrderRepository, menus MenuReader, tables OrderTableRepository, courier DeliveryClient) *Service {
	return &Service{
		log:     log,
		orders:  orders,
		menus:   menus,
		tables:  tables,
		courier: courier,
	}
}

func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (domain.Order, error) {
	if req.Type == "" {
		return domain.Order{}, apperr.InvalidArgumentf("order type is required")
	}
	if len(req.OrderLineItems) == 0 {
		return domain.Order{}, apperr.InvalidArgumentf("order must contain at least one line item")
	}

	menuIDs := make([]uuid.UUID, 0, len(req.OrderLineItems))
	for _, item := range req.OrderLineItems {
		menuIDs = append(menuIDs, item.MenuID)
	}
	menus, err := s.menus.FindAllByIDIn(ctx, menuIDs)
	if err != nil {
		return domain.Order{}, err
	}
	if len(menus) != len(req.OrderLineItems) {
		return domain.Order{}, apperr.InvalidArgumentf("order references %d menus, resolved %d", len(req.OrderLineItems), len(menus))
	}

	lineItems := make([]domain.OrderLineItem, 0, len(req.OrderLineItems))
	for _, item := range req.OrderLineItems {
		// EAT_IN tolerates negative quantities (used for in-place corrections);
		// TODO(product): confirm whether eat-in line items should reject
		// negative quantities like the other channels.
		if req.Type != domain.TypeEatIn && item.Quantity < 0 {
			return domain.Order{}, apperr.InvalidArgumentf("line item quantity %d is negative", item.Quantity)
		}
		menu, err := s.menus.FindByID(ctx, item.MenuID)
		if err != nil {
			return domain.Order{}, err
		}
		if !menu.Displayed {
			return domain.Order{}, apperr.IllegalStatef("menu %s is not displayed", menu.ID)
		}
		if menu.Price != item.Price {
			return domain.Order{}, apperr.InvalidArgumentf("line item price %d differs from menu price %d", item.Price, menu.Price)
		}
		lineItems = append(lineItems, domain.OrderLineItem{
			MenuID:   menu.ID,
			Menu:     menu,
			Price:    menu.Price,
			Quantity: item.Quantity,
		})
	}

	var order domain.Order
	switch req.Type {
	case domain.TypeDelivery:
		if req.DeliveryAddress == "" {
			return domain.Order{}, apperr.InvalidArgumentf("delivery address is required")
		}
		order = domain.NewOrder(req.Type, lineItems, req.DeliveryAddress, nil)
	case domain.TypeEatIn:
		orderTable, err := s.tables.FindByID(ctx, req.OrderTableID)
		if err != nil {
			return domain.Order{}, err
		}
		if !orderTable.Occupied {
			return domain.Order{}, apperr.IllegalStatef("order table %s is not occupied", orderTable.ID)
		}
		order = domain.NewOrder(req.Type, lineItems, "", &orderTable)
	default:
		order = domain.NewOrder(req.Type, lineItems, "", nil)
	}

	return s.orders.Save(ctx, order)
}

// Accept moves a waiting order to ACCEPTED. Delivery orders are additionally
// handed to the courier; a dispatch failure is logged but does not block the
// transition.
func (s *Service) Accept(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	accepted, err := order.Accept()
	if err != nil {
		return domain.Order{}, err
	}
	if accepted.Type == domain.TypeDelivery {
		if err := s.courier.RequestDelivery(ctx, accepted.ID, accepted.TotalPrice(), accepted.DeliveryAddress); err != nil {
			s.log.Error("delivery dispatch failed", "order_id", accepted.ID, "err", err)
		}
	}
	return s.orders.Save(ctx, accepted)
}

func (s *Service) Serve(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	served, err := order.Serve()
	if err != nil {
		return domain.Order{}, err
	}
	return s.orders.Save(ctx, served)
}

func (s *Service) StartDelivery(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	delivering, err := order.StartDelivery()
	if err != nil {
		return domain.Order{}, err
	}
	return s.orders.Save(ctx, delivering)
}

func (s *Service) CompleteDelivery(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	delivered, err := order.CompleteDelivery()
	if err != nil {
		return domain.Order{}, err
	}
	return s.orders.Save(ctx, delivered)
}

// Complete finishes an order. For eat-in, the table is cleared as a side
// effect once no sibling order on it remains unfinished.
func (s *Service) Complete(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	completed, err := order.Complete()
	if err != nil {
		return domain.Order{}, err
	}
	saved, err := s.orders.Save(ctx, completed)
	if err != nil {
		return domain.Order{}, err
	}

	if saved.Type == domain.TypeEatIn && saved.OrderTable != nil {
		outstanding, err := s.orders.ExistsByTableAndStatusNot(ctx, saved.OrderTableID, domain.StatusCompleted)
		if err != nil {
			return domain.Order{}, err
		}
		if !outstanding {
			cleared, err := s.tables.Save(ctx, saved.OrderTable.Cleared())
			if err != nil {
				return domain.Order{}, err
			}
			saved.OrderTable = &cleared
		}
	}
	return saved, nil
}

func (s *Service) FindAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders.FindAll(ctx)
}
