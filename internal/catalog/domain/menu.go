package domain

import "github.com/google/uuid"

// MenuGroup is a named categorization menus reference. It plays no pricing
// role.
type MenuGroup struct {
	ID   uuid.UUID
	Name string
}

func NewMenuGroup(name string) MenuGroup {
	return MenuGroup{ID: uuid.New(), Name: name}
}

// MenuProduct ties a product snapshot and a quantity into a menu.
type MenuProduct struct {
	ProductID uuid.UUID
	Product   Product
	Quantity  int64
}

// Menu bundles products under one price. Invariant: Price never exceeds
// ProductPriceSum; it is enforced at creation and price change, and
// re-checked by the product price cascade, which hides menus that fall
// under-priced.
type Menu struct {
	ID           uuid.UUID
	Name         string
	Price        int64
	Displayed    bool
	MenuGroupID  uuid.UUID
	MenuGroup    MenuGroup
	MenuProducts []MenuProduct
}

// ProductPriceSum is the value of the menu's contents: Σ product price ×
// quantity over its menu products.
func (m Menu) ProductPriceSum() int64 {
	var sum int64
	for _, mp := range m.MenuProducts {
		sum += mp.Product.Price * mp.Quantity
	}
	return sum
}

// Underpriced reports whether the menu charges more than its contents are
// worth. An underpriced menu cannot be displayed.
func (m Menu) Underpriced() bool {
	return m.Price > m.ProductPriceSum()
}

// WithProductPrice returns a copy of the menu whose snapshots of the given
// product carry the new price. Used by the price cascade.
func (m Menu) WithProductPrice(productID uuid.UUID, price int64) Menu {
	products := make([]MenuProduct, len(m.MenuProducts))
	copy(products, m.MenuProducts)
	for i, mp := range products {
		if mp.ProductID == productID {
			mp.Product.Price = price
			products[i] = mp
		}
	}
	m.MenuProducts = products
	return m
}
