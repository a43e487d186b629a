package entity

import "time"

// Supplier representa un proveedor.
type Supplier struct {
	ID          string
	Name        string
	ContactName string
	Email       string
	Phone       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
