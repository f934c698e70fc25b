package domain

import "github.com/google/uuid"

// Product is a priced ingredient of menus. Prices are integer minor
// currency units. Mutated only through the price-change operation; the
// change cascades into every menu referencing the product.
type Product struct {
	ID    uuid.UUID
	Name  string
	Price int64
}

func NewProduct(name string, price int64) Product {
	return Product{
		ID:    uuid.New(),
		Name:  name,
		Price: price,
	}
}
