package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/restauranthq/pos-service/internal/catalog/domain"
	"github.com/restauranthq/pos-service/pkg/apperr"
)

type CreateMenuRequest struct {
	Name         *string
	Price        *int64
	MenuGroupID  uuid.UUID
	MenuProducts []MenuProductRequest
}

type MenuProductRequest struct {
	ProductID uuid.UUID
	Quantity  int64
}

type ChangeMenuPriceRequest struct {
	Price *int64
}

// MenuService guards the menu pricing invariant: a menu may never charge
// more than the sum of its product prices times quantities.
type MenuService struct {
	menus     MenuRepository
	groups    MenuGroupRepository
	products  ProductRepository
	profanity ProfanityChecker
}

func NewMenuService(menus MenuRepository, groups MenuGroupRepository, products ProductRepository, profanity ProfanityChecker) *MenuService {
	return &MenuService{
		menus:     menus,
		groups:    groups,
		products:  products,
		profanity: profanity,
	}
}

// Create validates and persists a new menu. New menus start hidden; display
// is a separate, guarded operation.
func (s *MenuService) Create(ctx context.Context, req CreateMenuRequest) (domain.Menu, error) {
	if req.Price == nil || *req.Price < 0 {
		return domain.Menu{}, apperr.InvalidArgumentf("menu price must be present and non-negative")
	}

	group, err := s.groups.FindByID(ctx, req.MenuGroupID)
	if err != nil {
		return domain.Menu{}, err
	}

	if len(req.MenuProducts) == 0 {
		return domain.Menu{}, apperr.InvalidArgumentf("menu must contain at least one product")
	}

	ids := make([]uuid.UUID, 0, len(req.MenuProducts))
	for _, mp := range req.MenuProducts {
		ids = append(ids, mp.ProductID)
	}
	fetched, err := s.products.FindAllByIDIn(ctx, ids)
	if err != nil {
		return domain.Menu{}, err
	}
	if len(fetched) != len(req.MenuProducts) {
		return domain.Menu{}, apperr.InvalidArgumentf("menu references %d products, resolved %d", len(req.MenuProducts), len(fetched))
	}

	var sum int64
	menuProducts := make([]domain.MenuProduct, 0, len(req.MenuProducts))
	for _, mp := range req.MenuProducts {
		if mp.Quantity < 0 {
			return domain.Menu{}, apperr.InvalidArgumentf("menu product quantity %d is negative", mp.Quantity)
		}
		product, err := s.products.FindByID(ctx, mp.ProductID)
		if err != nil {
			return domain.Menu{}, err
		}
		sum += product.Price * mp.Quantity
		menuProducts = append(menuProducts, domain.MenuProduct{
			ProductID: product.ID,
			Product:   product,
			Quantity:  mp.Quantity,
		})
	}
	if *req.Price > sum {
		return domain.Menu{}, apperr.InvalidArgumentf("menu price %d exceeds product price sum %d", *req.Price, sum)
	}

	if req.Name == nil {
		return domain.Menu{}, apperr.InvalidArgumentf("menu name is required")
	}
	profane, err := s.profanity.ContainsProfanity(ctx, *req.Name)
	if err != nil {
		return domain.Menu{}, err
	}
	if profane {
		return domain.Menu{}, apperr.InvalidArgumentf("menu name %q contains profanity", *req.Name)
	}

	menu := domain.Menu{
		ID:           uuid.New(),
		Name:         *req.Name,
		Price:        *req.Price,
		Displayed:    false,
		MenuGroupID:  group.ID,
		MenuGroup:    group,
		MenuProducts: menuProducts,
	}
	return s.menus.Save(ctx, menu)
}

// ChangePrice applies a new price to an existing menu. The sum is computed
// over the menu's stored product snapshots, not the request.
func (s *MenuService) ChangePrice(ctx context.Context, menuID uuid.UUID, req ChangeMenuPriceRequest) (domain.Menu, error) {
	if req.Price == nil || *req.Price < 0 {
		return domain.Menu{}, apperr.InvalidArgumentf("menu price must be present and non-negative")
	}
	menu, err := s.menus.FindByID(ctx, menuID)
	if err != nil {
		return domain.Menu{}, err
	}
	if *req.Price > menu.ProductPriceSum() {
		return domain.Menu{}, apperr.InvalidArgumentf("menu price %d exceeds product price sum %d", *req.Price, menu.ProductPriceSum())
	}
	menu.Price = *req.Price
	return s.menus.Save(ctx, menu)
}

// Display makes a menu orderable. Fails while the menu is underpriced.
func (s *MenuService) Display(ctx context.Context, menuID uuid.UUID) (domain.Menu, error) {
	menu, err := s.menus.FindByID(ctx, menuID)
	if err != nil {
		return domain.Menu{}, err
	}
	if menu.Underpriced() {
		return domain.Menu{}, apperr.IllegalStatef("menu %s price %d exceeds product price sum %d", menu.ID, menu.Price, menu.ProductPriceSum())
	}
	menu.Displayed = true
	return s.menus.Save(ctx, menu)
}

func (s *MenuService) Hide(ctx context.Context, menuID uuid.UUID) (domain.Menu, error) {
	menu, err := s.menus.FindByID(ctx, menuID)
	if err != nil {
		return domain.Menu{}, err
	}
	menu.Displayed = false
	return s.menus.Save(ctx, menu)
}

func (s *MenuService) FindAll(ctx context.Context) ([]domain.Menu, error) {
	return s.menus.FindAll(ctx)
}
