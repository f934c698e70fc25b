package domain

import "github.com/google/uuid"

// OrderTable tracks one physical table's occupancy. Cleared state is zero
// guests, not occupied.
type OrderTable struct {
	ID             uuid.UUID
	Name           string
	NumberOfGuests int
	Occupied       bool
}

func NewOrderTable(name string) OrderTable {
	return OrderTable{
		ID:             uuid.New(),
		Name:           name,
		NumberOfGuests: 0,
		Occupied:       false,
	}
}

// Cleared returns the table's vacated state.
func (t OrderTable) Cleared() OrderTable {
	t.NumberOfGuests = 0
	t.Occupied = false
	return t
}
