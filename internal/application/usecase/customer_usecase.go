package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/negocio-api/internal/application/dto"
	"github.com/tu-usuario/negocio-api/internal/domain"
	"github.com/tu-usuario/negocio-api/internal/domain/entity"
	"github.com/tu-usuario/negocio-api/internal/domain/repository"
	"github.com/tu-usuario/negocio-api/pkg/textutil"
)

// CustomerUseCase casos de uso CRUD para clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un nuevo cliente (NIT/cédula único).
func (uc *CustomerUseCase) Create(in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" || in.TaxID == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByTaxID(in.TaxID)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:         uuid.New().String(),
		Name:       in.Name,
		SearchName: textutil.Fold(in.Name),
		TaxID:      in.TaxID,
		Email:      in.Email,
		Phone:      in.Phone,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// List lista clientes; con name busca por nombre normalizado (sin tildes).
func (uc *CustomerUseCase) List(name string, limit, offset int) ([]*dto.CustomerResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	var list []*entity.Customer
	var err error
	if name != "" {
		list, err = uc.repo.SearchByName(textutil.Fold(name), limit, offset)
	} else {
		list, err = uc.repo.List(limit, offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:    c.ID,
		Name:  c.Name,
		TaxID: c.TaxID,
		Email: c.Email,
		Phone: c.Phone,
	}
}
