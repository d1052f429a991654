package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
// MinimumLevel inicializa el umbral de la cuenta de inventario que se crea junto al producto.
type CreateProductRequest struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	MinimumLevel decimal.Decimal `json:"minimum_level,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id (campos opcionales).
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
