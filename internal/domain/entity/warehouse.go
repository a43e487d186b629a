package entity

import "time"

// Warehouse representa una bodega donde se ubican productos.
type Warehouse struct {
	ID        string
	Name      string
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
