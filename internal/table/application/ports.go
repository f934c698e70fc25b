package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/restauranthq/pos-service/internal/table/domain"
)

type OrderTableRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.OrderTable, error)
	FindAll(ctx context.Context) ([]domain.OrderTable, error)
	Save(ctx context.Context, t domain.OrderTable) (domain.OrderTable, error)
	// Clear vacates the table in one transaction: the unfinished-order check
	// and the occupancy flip happen under a lock on the table row, so a
	// concurrent eat-in order creation cannot slip between them. Fails with
	// an error satisfying apperr.ErrIllegalState while any order on the table
	// is not completed.
	Clear(ctx context.Context, id uuid.UUID) (domain.OrderTable, error)
}
