package entity

import "time"

// Supplier representa un proveedor. SearchName es el nombre normalizado para búsquedas.
type Supplier struct {
	ID         string
	Name       string
	SearchName string
	TaxID      string // NIT
	Email      string
	Phone      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
