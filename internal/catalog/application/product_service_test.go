package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/restauranthq/pos-service/internal/catalog/domain"
	"github.com/restauranthq/pos-service/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct(t *testing.T) {
	f := newCatalogFixture()

	p, err := f.productSvc.Create(context.Background(), CreateProductRequest{
		Name:  ptr("fried chicken"),
		Price: ptr(int64(1600)),
	})
	require.NoError(t, err)
	assert.Equal(t, "fried chicken", p.Name)
	assert.Equal(t, int64(1600), p.Price)
	assert.NotEqual(t, uuid.Nil, p.ID)
}

func TestCreateProductRejectsNonPositivePrice(t *testing.T) {
	f := newCatalogFixture()

	for _, price := range []int64{0, -1000} {
		_, err := f.productSvc.Create(context.Background(), CreateProductRequest{
			Name:  ptr("fried chicken"),
			Price: ptr(price),
		})
		assert.True(t, errors.Is(err, apperr.ErrInvalidArgument), "price %d", price)
	}

	_, err := f.productSvc.Create(context.Background(), CreateProductRequest{Name: ptr("fried chicken")})
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))
}

func TestCreateProductRejectsProfaneName(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.productSvc.Create(context.Background(), CreateProductRequest{
		Name:  ptr("badword chicken"),
		Price: ptr(int64(1600)),
	})
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))
}

// Changing a price to zero is allowed even though creating at zero is not.
func TestChangeProductPriceAcceptsZero(t *testing.T) {
	f := newCatalogFixture()
	p := f.addProduct("fried chicken", 1600)

	changed, err := f.productSvc.ChangePrice(context.Background(), p.ID, ChangeProductPriceRequest{Price: ptr(int64(0))})
	require.NoError(t, err)
	assert.Equal(t, int64(0), changed.Price)
}

func TestChangeProductPriceRejectsNegative(t *testing.T) {
	f := newCatalogFixture()
	p := f.addProduct("fried chicken", 1600)

	_, err := f.productSvc.ChangePrice(context.Background(), p.ID, ChangeProductPriceRequest{Price: ptr(int64(-1))})
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))
	_, err = f.productSvc.ChangePrice(context.Background(), p.ID, ChangeProductPriceRequest{})
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))
}

func TestChangeProductPriceMissingProduct(t *testing.T) {
	f := newCatalogFixture()
	_, err := f.productSvc.ChangePrice(context.Background(), uuid.New(), ChangeProductPriceRequest{Price: ptr(int64(1000))})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestChangeProductPriceHidesUnderpricedMenu(t *testing.T) {
	f := newCatalogFixture()
	p := f.addProduct("fried chicken", 300)
	menu := f.addMenu(500, true, domain.MenuProduct{
		ProductID: p.ID,
		Product:   p,
		Quantity:  2,
	})

	// sum drops from 600 to 400, below the menu price of 500
	_, err := f.productSvc.ChangePrice(context.Background(), p.ID, ChangeProductPriceRequest{Price: ptr(int64(200))})
	require.NoError(t, err)

	saved := f.store.menus[menu.ID]
	assert.False(t, saved.Displayed)
}

func TestChangeProductPriceKeepsSufficientlyPricedMenu(t *testing.T) {
	f := newCatalogFixture()
	p := f.addProduct("fried chicken", 300)
	menu := f.addMenu(500, true, domain.MenuProduct{
		ProductID: p.ID,
		Product:   p,
		Quantity:  2,
	})

	// sum moves from 600 to 560, still covering the menu price
	_, err := f.productSvc.ChangePrice(context.Background(), p.ID, ChangeProductPriceRequest{Price: ptr(int64(280))})
	require.NoError(t, err)

	saved := f.store.menus[menu.ID]
	assert.True(t, saved.Displayed)
}

func TestChangeProductPriceNeverRedisplays(t *testing.T) {
	f := newCatalogFixture()
	p := f.addProduct("fried chicken", 100)
	menu := f.addMenu(500, false, domain.MenuProduct{
		ProductID: p.ID,
		Product:   p,
		Quantity:  2,
	})

	// raising the price makes the menu viable again but does not re-display it
	_, err := f.productSvc.ChangePrice(context.Background(), p.ID, ChangeProductPriceRequest{Price: ptr(int64(1000))})
	require.NoError(t, err)

	saved := f.store.menus[menu.ID]
	assert.False(t, saved.Displayed)
}

func TestChangeProductPriceUpdatesMenuSnapshot(t *testing.T) {
	f := newCatalogFixture()
	p := f.addProduct("fried chicken", 300)
	menu := f.addMenu(500, true, domain.MenuProduct{
		ProductID: p.ID,
		Product:   p,
		Quantity:  2,
	})

	_, err := f.productSvc.ChangePrice(context.Background(), p.ID, ChangeProductPriceRequest{Price: ptr(int64(280))})
	require.NoError(t, err)

	saved := f.store.menus[menu.ID]
	require.Len(t, saved.MenuProducts, 1)
	assert.Equal(t, int64(280), saved.MenuProducts[0].Product.Price)
}
