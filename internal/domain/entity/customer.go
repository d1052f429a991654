package entity

import "time"

// Customer representa un cliente del negocio.
// SearchName es el nombre normalizado (sin tildes, minúsculas) para búsquedas.
type Customer struct {
	ID         string
	Name       string
	SearchName string
	TaxID      string // NIT o Cédula
	Email      string
	Phone      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
