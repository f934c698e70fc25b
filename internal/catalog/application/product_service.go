package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/restauranthq/pos-service/internal/catalog/domain"
	"github.com/restauranthq/pos-service/pkg/apperr"
)

type CreateProductRequest struct {
	Name  *string
	Price *int64
}

type ChangeProductPriceRequest struct {
	Price *int64
}

// ProductService owns product creation and the price-change cascade.
type ProductService struct {
	products  ProductRepository
	menus     MenuRepository
	profanity ProfanityChecker
}

func NewProductService(products ProductRepository, menus MenuRepository, profanity ProfanityChecker) *ProductService {
	return &ProductService{
		products:  products,
		menus:     menus,
		profanity: profanity,
	}
}

// Create rejects prices of zero or below. ChangePrice accepts zero; the
// asymmetry is pinned by the original behavior and kept deliberately.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (domain.Product, error) {
	if req.Price == nil || *req.Price <= 0 {
		return domain.Product{}, apperr.InvalidArgumentf("product price must be present and positive")
	}
	if req.Name == nil {
		return domain.Product{}, apperr.InvalidArgumentf("product name is required")
	}
	profane, err := s.profanity.ContainsProfanity(ctx, *req.Name)
	if err != nil {
		return domain.Product{}, err
	}
	if profane {
		return domain.Product{}, apperr.InvalidArgumentf("product name %q contains profanity", *req.Name)
	}
	return s.products.Save(ctx, domain.NewProduct(*req.Name, *req.Price))
}

// ChangePrice applies a new price and cascades into every menu containing
// the product: each affected menu's sum is recomputed with the updated price
// and the menu is hidden when its own price exceeds the new sum. Hiding is
// one-way; a later price increase never re-displays a menu.
func (s *ProductService) ChangePrice(ctx context.Context, productID uuid.UUID, req ChangeProductPriceRequest) (domain.Product, error) {
	if req.Price == nil || *req.Price < 0 {
		return domain.Product{}, apperr.InvalidArgumentf("product price must be present and non-negative")
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	product.Price = *req.Price

	menus, err := s.menus.FindAllByProductID(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	updated := make([]domain.Menu, 0, len(menus))
	for _, menu := range menus {
		menu = menu.WithProductPrice(productID, product.Price)
		if menu.Underpriced() {
			menu.Displayed = false
		}
		updated = append(updated, menu)
	}

	return s.products.SaveWithMenus(ctx, product, updated)
}

func (s *ProductService) FindAll(ctx context.Context) ([]domain.Product, error) {
	return s.products.FindAll(ctx)
}
