package application

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/restauranthq/pos-service/internal/catalog/domain"
	"github.com/restauranthq/pos-service/pkg/apperr"
)

// catalogStore backs the repository fakes with shared in-memory state, so a
// product price cascade is observable through the menu repository.
type catalogStore struct {
	products map[uuid.UUID]domain.Product
	menus    map[uuid.UUID]domain.Menu
	groups   map[uuid.UUID]domain.MenuGroup
}

func newCatalogStore() *catalogStore {
	return &catalogStore{
		products: map[uuid.UUID]domain.Product{},
		menus:    map[uuid.UUID]domain.Menu{},
		groups:   map[uuid.UUID]domain.MenuGroup{},
	}
}

type fakeProductRepo struct{ store *catalogStore }

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (domain.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return domain.Product{}, apperr.NotFoundf("product %s", id)
	}
	return p, nil
}

func (r *fakeProductRepo) FindAll(_ context.Context) ([]domain.Product, error) {
	var all []domain.Product
	for _, p := range r.store.products {
		all = append(all, p)
	}
	return all, nil
}

// FindAllByIDIn returns distinct products like the SQL adapter does.
func (r *fakeProductRepo) FindAllByIDIn(_ context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	var found []domain.Product
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := r.store.products[id]; ok {
			found = append(found, p)
		}
	}
	return found, nil
}

func (r *fakeProductRepo) Save(_ context.Context, p domain.Product) (domain.Product, error) {
	r.store.products[p.ID] = p
	return p, nil
}

func (r *fakeProductRepo) SaveWithMenus(_ context.Context, p domain.Product, menus []domain.Menu) (domain.Product, error) {
	r.store.products[p.ID] = p
	for _, m := range menus {
		r.store.menus[m.ID] = m
	}
	return p, nil
}

type fakeMenuRepo struct{ store *catalogStore }

func (r *fakeMenuRepo) FindByID(_ context.Context, id uuid.UUID) (domain.Menu, error) {
	m, ok := r.store.menus[id]
	if !ok {
		return domain.Menu{}, apperr.NotFoundf("menu %s", id)
	}
	return m, nil
}

func (r *fakeMenuRepo) FindAll(_ context.Context) ([]domain.Menu, error) {
	var all []domain.Menu
	for _, m := range r.store.menus {
		all = append(all, m)
	}
	return all, nil
}

func (r *fakeMenuRepo) FindAllByIDIn(_ context.Context, ids []uuid.UUID) ([]domain.Menu, error) {
	var found []domain.Menu
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if m, ok := r.store.menus[id]; ok {
			found = append(found, m)
		}
	}
	return found, nil
}

func (r *fakeMenuRepo) FindAllByProductID(_ context.Context, productID uuid.UUID) ([]domain.Menu, error) {
	var found []domain.Menu
	for _, m := range r.store.menus {
		for _, mp := range m.MenuProducts {
			if mp.ProductID == productID {
				found = append(found, m)
				break
			}
		}
	}
	return found, nil
}

func (r *fakeMenuRepo) Save(_ context.Context, m domain.Menu) (domain.Menu, error) {
	r.store.menus[m.ID] = m
	return m, nil
}

type fakeMenuGroupRepo struct{ store *catalogStore }

func (r *fakeMenuGroupRepo) FindByID(_ context.Context, id uuid.UUID) (domain.MenuGroup, error) {
	g, ok := r.store.groups[id]
	if !ok {
		return domain.MenuGroup{}, apperr.NotFoundf("menu group %s", id)
	}
	return g, nil
}

func (r *fakeMenuGroupRepo) FindAll(_ context.Context) ([]domain.MenuGroup, error) {
	var all []domain.MenuGroup
	for _, g := range r.store.groups {
		all = append(all, g)
	}
	return all, nil
}

func (r *fakeMenuGroupRepo) Save(_ context.Context, g domain.MenuGroup) (domain.MenuGroup, error) {
	r.store.groups[g.ID] = g
	return g, nil
}

type fakeProfanity struct{ banned []string }

func (f *fakeProfanity) ContainsProfanity(_ context.Context, text string) (bool, error) {
	lower := strings.ToLower(text)
	for _, w := range f.banned {
		if strings.Contains(lower, w) {
			return true, nil
		}
	}
	return false, nil
}

type catalogFixture struct {
	store     *catalogStore
	products  *fakeProductRepo
	menus     *fakeMenuRepo
	groups    *fakeMenuGroupRepo
	profanity *fakeProfanity

	productSvc *ProductService
	menuSvc    *MenuService
	groupSvc   *MenuGroupService
}

func newCatalogFixture() *catalogFixture {
	store := newCatalogStore()
	f := &catalogFixture{
		store:     store,
		products:  &fakeProductRepo{store: store},
		menus:     &fakeMenuRepo{store: store},
		groups:    &fakeMenuGroupRepo{store: store},
		profanity: &fakeProfanity{banned: []string{"badword"}},
	}
	f.productSvc = NewProductService(f.products, f.menus, f.profanity)
	f.menuSvc = NewMenuService(f.menus, f.groups, f.products, f.profanity)
	f.groupSvc = NewMenuGroupService(f.groups)
	return f
}

func (f *catalogFixture) addProduct(name string, price int64) domain.Product {
	p := domain.Product{ID: uuid.New(), Name: name, Price: price}
	f.store.products[p.ID] = p
	return p
}

func (f *catalogFixture) addGroup(name string) domain.MenuGroup {
	g := domain.MenuGroup{ID: uuid.New(), Name: name}
	f.store.groups[g.ID] = g
	return g
}

func (f *catalogFixture) addMenu(price int64, displayed bool, products ...domain.MenuProduct) domain.Menu {
	group := f.addGroup("main course")
	m := domain.Menu{
		ID:           uuid.New(),
		Name:         "fried chicken set",
		Price:        price,
		Displayed:    displayed,
		MenuGroupID:  group.ID,
		MenuGroup:    group,
		MenuProducts: products,
	}
	f.store.menus[m.ID] = m
	return m
}

func ptr[T any](v T) *T { return &v }
