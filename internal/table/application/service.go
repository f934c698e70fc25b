package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/restauranthq/pos-service/internal/table/domain"
	"github.com/restauranthq/pos-service/pkg/apperr"
)

type CreateOrderTableRequest struct {
	Name *string
}

type ChangeNumberOfGuestsRequest struct {
	NumberOfGuests int
}

type Service struct {
	tables OrderTableRepository
}

func NewService(tables OrderTableRepository) *Service {
	return &Service{tables: tables}
}

func (s *Service) Create(ctx context.Context, req CreateOrderTableRequest) (domain.OrderTable, error) {
	if req.Name == nil || *req.Name == "" {
		return domain.OrderTable{}, apperr.InvalidArgumentf("order table name is required")
	}
	return s.tables.Save(ctx, domain.NewOrderTable(*req.Name))
}

func (s *Service) Sit(ctx context.Context, tableID uuid.UUID) (domain.OrderTable, error) {
	orderTable, err := s.tables.FindByID(ctx, tableID)
	if err != nil {
		return domain.OrderTable{}, err
	}
	orderTable.Occupied = true
	return s.tables.Save(ctx, orderTable)
}

// Clear vacates a table. Blocked while any order on the table is not yet
// completed; the repository runs the check and the write in one transaction
// so a concurrent order creation cannot slip onto a table being cleared.
func (s *Service) Clear(ctx context.Context, tableID uuid.UUID) (domain.OrderTable, error) {
	return s.tables.Clear(ctx, tableID)
}

func (s *Service) ChangeNumberOfGuests(ctx context.Context, tableID uuid.UUID, req ChangeNumberOfGuestsRequest) (domain.OrderTable, error) {
	if req.NumberOfGuests < 0 {
		return domain.OrderTable{}, apperr.InvalidArgumentf("number of guests %d is negative", req.NumberOfGuests)
	}
	orderTable, err := s.tables.FindByID(ctx, tableID)
	if err != nil {
		return domain.OrderTable{}, err
	}
	if !orderTable.Occupied {
		return domain.OrderTable{}, apperr.IllegalStatef("order table %s is not occupied", tableID)
	}
	orderTable.NumberOfGuests = req.NumberOfGuests
	return s.tables.Save(ctx, orderTable)
}

func (s *Service) FindAll(ctx context.Context) ([]domain.OrderTable, error) {
	return s.tables.FindAll(ctx)
}
