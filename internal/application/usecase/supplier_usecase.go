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

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create crea un nuevo proveedor (NIT único).
func (uc *SupplierUseCase) Create(in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if in.Name == "" || in.TaxID == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByTaxID(in.TaxID)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:         uuid.New().String(),
		Name:       in.Name,
		SearchName: textutil.Fold(in.Name),
		TaxID:      in.TaxID,
		Email:      in.Email,
		Phone:      in.Phone,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// List lista proveedores; con name busca por nombre normalizado (sin tildes).
func (uc *SupplierUseCase) List(name string, limit, offset int) ([]*dto.SupplierResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	var list []*entity.Supplier
	var err error
	if name != "" {
		list, err = uc.repo.SearchByName(textutil.Fold(name), limit, offset)
	} else {
		list, err = uc.repo.List(limit, offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:    s.ID,
		Name:  s.Name,
		TaxID: s.TaxID,
		Email: s.Email,
		Phone: s.Phone,
	}
}
