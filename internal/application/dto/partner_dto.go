package dto

// CreateSupplierRequest body para POST /api/suppliers.
type CreateSupplierRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// SupplierResponse proveedor en respuestas.
type SupplierResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}
