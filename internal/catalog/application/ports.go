package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/restauranthq/pos-service/internal/catalog/domain"
)

// Repositories return an error satisfying errors.Is(err, apperr.ErrNotFound)
// when an id does not resolve.

type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	// FindAllByIDIn returns distinct products, at most one per id; callers
	// compare the result count to detect duplicate or unknown ids.
	FindAllByIDIn(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error)
	Save(ctx context.Context, p domain.Product) (domain.Product, error)
	// SaveWithMenus persists a product price change together with the menus
	// touched by its cascade in one transaction.
	SaveWithMenus(ctx context.Context, p domain.Product, menus []domain.Menu) (domain.Product, error)
}

type MenuRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Menu, error)
	FindAll(ctx context.Context) ([]domain.Menu, error)
	FindAllByIDIn(ctx context.Context, ids []uuid.UUID) ([]domain.Menu, error)
	FindAllByProductID(ctx context.Context, productID uuid.UUID) ([]domain.Menu, error)
	Save(ctx context.Context, m domain.Menu) (domain.Menu, error)
}

type MenuGroupRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.MenuGroup, error)
	FindAll(ctx context.Context) ([]domain.MenuGroup, error)
	Save(ctx context.Context, g domain.MenuGroup) (domain.MenuGroup, error)
}

// ProfanityChecker screens customer-visible names.
type ProfanityChecker interface {
	ContainsProfanity(ctx context.Context, text string) (bool, error)
}
