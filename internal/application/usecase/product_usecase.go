package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-api/internal/application/dto"
	"github.com/tu-usuario/negocio-api/internal/domain"
	"github.com/tu-usuario/negocio-api/internal/domain/entity"
	"github.com/tu-usuario/negocio-api/internal/domain/repository"
)

// CatalogTxRunner ejecuta una función dentro de una transacción con los repos de
// catálogo e inventario. Producto y cuenta de inventario nacen juntos o no nacen.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		products repository.ProductRepository,
		accounts repository.InventoryAccountRepository,
	) error) error
}

// ProductUseCase casos de uso CRUD para productos. El stock no se toca aquí: vive
// en la cuenta de inventario que se crea junto con el producto, una sola vez.
type ProductUseCase struct {
	txRunner    CatalogTxRunner
	repo        repository.ProductRepository
	accountRepo repository.InventoryAccountRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner CatalogTxRunner, repo repository.ProductRepository, accountRepo repository.InventoryAccountRepository) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo, accountRepo: accountRepo}
}

// Create crea un producto y su cuenta de inventario en una transacción.
// La cuenta nace con nivel 0; el stock entra después vía compras o movimientos.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetBySKU(in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.RunCatalog(ctx, func(
		products repository.ProductRepository,
		accounts repository.InventoryAccountRepository,
	) error {
		if err := products.Create(product); err != nil {
			return err
		}
		account := &entity.InventoryAccount{
			ID:           uuid.New().String(),
			ProductID:    product.ID,
			MinimumLevel: in.MinimumLevel,
			CurrentLevel: decimal.Zero,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return accounts.Create(account)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. El nivel de stock no se modifica por aquí.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
