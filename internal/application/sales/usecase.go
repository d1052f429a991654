package sales

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

// SaleUseCase orquesta ventas. Cada línea descuenta stock a través del motor de
// inventario, de modo que toda venta deja su rastro en el libro de movimientos
// igual que una compra (mismo tratamiento de auditoría para todo cambio de stock).
type SaleUseCase struct {
	txRunner     TxRunner
	stock        StockApplier
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	accountRepo  repository.InventoryAccountRepository
	saleRepo     repository.SaleRepository
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner TxRunner,
	stock StockApplier,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	accountRepo repository.InventoryAccountRepository,
	saleRepo repository.SaleRepository,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:     txRunner,
		stock:        stock,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		accountRepo:  accountRepo,
		saleRepo:     saleRepo,
	}
}

// RegisterSale crea cabecera y detalles con total = Σ(cantidad × precio) y descuenta
// el inventario línea por línea en la misma transacción. Si alguna línea no tiene
// stock suficiente, la venta completa se rechaza (ErrInsufficientStock) sin cambios.
func (uc *SaleUseCase) RegisterSale(ctx context.Context, userID string, in dto.RegisterSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Lines {
		if line.ProductID == "" || !line.Quantity.GreaterThan(decimal.Zero) || line.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		account, err := uc.accountRepo.GetByProductID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, domain.ErrMissingInventoryRecord
		}
	}
	if in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	saleID := uuid.New().String()
	total := decimal.Zero
	for _, line := range in.Lines {
		total = total.Add(line.Quantity.Mul(line.UnitPrice))
	}

	var resp *dto.SaleResponse
	err := uc.txRunner.RunSale(ctx, func(
		sales repository.SaleRepository,
		accounts repository.InventoryAccountRepository,
		movements repository.StockMovementRepository,
		keys repository.OperationKeyRepository,
	) error {
		if in.IdempotencyKey != "" {
			if err := keys.Claim(in.IdempotencyKey, "register_sale"); err != nil {
				return err
			}
		}
		sale := &entity.Sale{
			ID:         saleID,
			CustomerID: in.CustomerID,
			Date:       date,
			Total:      total,
			Active:     true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := sales.Create(sale); err != nil {
			return err
		}
		details := make([]*entity.SaleDetail, 0, len(in.Lines))
		for _, line := range in.Lines {
			account, err := accounts.GetForUpdateByProductID(line.ProductID)
			if err != nil {
				return err
			}
			if account == nil {
				return domain.ErrMissingInventoryRecord
			}
			if _, err := uc.stock.ApplyInTx(accounts, movements, account.ID, entity.MovementKindOut,
				line.Quantity, entity.ReasonSale, saleID, userID, now, false); err != nil {
				return err
			}
			detail := &entity.SaleDetail{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Subtotal:  line.Quantity.Mul(line.UnitPrice),
			}
			if err := sales.CreateDetail(detail); err != nil {
				return err
			}
			details = append(details, detail)
		}
		resp = toSaleResponse(sale, details)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CancelSale marca la venta inactiva y reintegra el stock con un IN compensatorio
// por línea ("Venta anulada"). Re-anular se rechaza con ErrAlreadyCancelled.
func (uc *SaleUseCase) CancelSale(ctx context.Context, userID, saleID, idempotencyKey string) error {
	existing, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if !existing.Active {
		return domain.ErrAlreadyCancelled
	}

	now := time.Now()
	return uc.txRunner.RunSale(ctx, func(
		sales repository.SaleRepository,
		accounts repository.InventoryAccountRepository,
		movements repository.StockMovementRepository,
		keys repository.OperationKeyRepository,
	) error {
		if idempotencyKey != "" {
			if err := keys.Claim(idempotencyKey, "cancel_sale"); err != nil {
				return err
			}
		}
		sale, err := sales.GetByID(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if !sale.Active {
			return domain.ErrAlreadyCancelled
		}
		details, err := sales.GetDetails(saleID)
		if err != nil {
			return err
		}
		for _, d := range details {
			account, err := accounts.GetForUpdateByProductID(d.ProductID)
			if err != nil {
				return err
			}
			if account == nil {
				return domain.ErrMissingInventoryRecord
			}
			if _, err := uc.stock.ApplyInTx(accounts, movements, account.ID, entity.MovementKindIn,
				d.Quantity, entity.ReasonSaleCancelled, saleID, userID, now, true); err != nil {
				return err
			}
		}
		sale.Active = false
		sale.UpdatedAt = now
		return sales.Update(sale)
	})
}

// GetSale obtiene una venta con detalle.
func (uc *SaleUseCase) GetSale(ctx context.Context, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	details, err := uc.saleRepo.GetDetails(saleID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, details), nil
}

// ListSales lista ventas con paginación.
func (uc *SaleUseCase) ListSales(ctx context.Context, limit, offset int) ([]*dto.SaleResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.saleRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSaleResponse(s, nil))
	}
	return out, nil
}

func toSaleResponse(s *entity.Sale, details []*entity.SaleDetail) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:         s.ID,
		CustomerID: s.CustomerID,
		Date:       s.Date,
		Total:      s.Total,
		Active:     s.Active,
	}
	for _, d := range details {
		resp.Lines = append(resp.Lines, dto.SaleLineResponse{
			ID:        d.ID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			Subtotal:  d.Subtotal,
		})
	}
	return resp
}
