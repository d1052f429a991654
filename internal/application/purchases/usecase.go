package purchases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-api/internal/application/dto"
	"github.com/tu-usuario/negocio-api/internal/domain"
	"github.com/tu-usuario/negocio-api/internal/domain/entity"
	"github.com/tu-usuario/negocio-api/internal/domain/repository"
	"github.com/tu-usuario/negocio-api/pkg/textutil"
)

// Options políticas del orquestador.
type Options struct {
	// OverstockGuard: RevisePurchase rechaza una línea nueva cuyo nivel resultante
	// supere el MinimumLevel de la cuenta. Heredado del sistema original, donde el
	// umbral funciona como techo durante la edición; se mantiene detrás de un flag
	// de configuración en vez de corregirse en silencio.
	OverstockGuard bool
}

// PurchaseUseCase orquesta compras: registrar, revisar (reemplazo de líneas con
// movimientos compensatorios) y anular. Toda mutación de stock pasa por el
// StockApplier dentro de la transacción de la compra.
type PurchaseUseCase struct {
	txRunner     TxRunner
	stock        StockApplier
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	accountRepo  repository.InventoryAccountRepository
	purchaseRepo repository.PurchaseRepository
	payableRepo  repository.PayableAccountRepository
	opts         Options
}

// NewPurchaseUseCase construye el caso de uso. Los repos sueltos van atados al pool
// (lecturas de validación fuera de la tx); las escrituras usan los repos del TxRunner.
func NewPurchaseUseCase(
	txRunner TxRunner,
	stock StockApplier,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	accountRepo repository.InventoryAccountRepository,
	purchaseRepo repository.PurchaseRepository,
	payableRepo repository.PayableAccountRepository,
	opts Options,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:     txRunner,
		stock:        stock,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		accountRepo:  accountRepo,
		purchaseRepo: purchaseRepo,
		payableRepo:  payableRepo,
		opts:         opts,
	}
}

// validateLines valida cantidades y precios y verifica que cada producto exista y
// tenga cuenta de inventario. Se repite dentro de la tx vía GetForUpdate, pero
// detectarlo aquí rechaza la operación antes de abrir la unidad de trabajo.
func (uc *PurchaseUseCase) validateLines(lines []dto.PurchaseLineRequest) error {
	if len(lines) == 0 {
		return domain.ErrInvalidInput
	}
	for _, line := range lines {
		if line.ProductID == "" || !line.Quantity.GreaterThan(decimal.Zero) || line.UnitPrice.IsNegative() {
			return domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		account, err := uc.accountRepo.GetByProductID(line.ProductID)
		if err != nil {
			return err
		}
		if account == nil {
			return domain.ErrMissingInventoryRecord
		}
	}
	return nil
}

// resolveSupplier resuelve el proveedor por ID, o por NIT creándolo si no existe.
// La identidad de catálogo no es parte de la unidad atómica de la compra.
func (uc *PurchaseUseCase) resolveSupplier(ref dto.SupplierRefRequest) (*entity.Supplier, error) {
	if ref.SupplierID != "" {
		supplier, err := uc.supplierRepo.GetByID(ref.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, domain.ErrNotFound
		}
		return supplier, nil
	}
	if ref.TaxID == "" || ref.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.supplierRepo.GetByTaxID(ref.TaxID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:         uuid.New().String(),
		Name:       ref.Name,
		SearchName: textutil.Fold(ref.Name),
		TaxID:      ref.TaxID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func linesTotal(lines []dto.PurchaseLineRequest) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Quantity.Mul(line.UnitPrice))
	}
	return total
}

// RegisterPurchase crea cabecera, detalles, un movimiento IN por línea y la cuenta
// por pagar con AmountDue = total, todo en una transacción.
func (uc *PurchaseUseCase) RegisterPurchase(ctx context.Context, userID string, in dto.RegisterPurchaseRequest) (*dto.PurchaseResponse, error) {
	if err := uc.validateLines(in.Lines); err != nil {
		return nil, err
	}
	supplier, err := uc.resolveSupplier(in.Supplier)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	purchaseID := uuid.New().String()
	total := linesTotal(in.Lines)

	var resp *dto.PurchaseResponse
	err = uc.txRunner.RunPurchase(ctx, func(
		purchases repository.PurchaseRepository,
		payables repository.PayableAccountRepository,
		accounts repository.InventoryAccountRepository,
		movements repository.StockMovementRepository,
		keys repository.OperationKeyRepository,
	) error {
		if in.IdempotencyKey != "" {
			if err := keys.Claim(in.IdempotencyKey, "register_purchase"); err != nil {
				return err
			}
		}
		purchase := &entity.Purchase{
			ID:         purchaseID,
			SupplierID: supplier.ID,
			Number:     in.Number,
			Date:       date,
			Total:      total,
			Active:     true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := purchases.Create(purchase); err != nil {
			return err
		}
		lines, err := uc.applyLines(purchases, accounts, movements, purchaseID, in.Lines,
			entity.ReasonPurchase, userID, now)
		if err != nil {
			return err
		}
		payable := &entity.PayableAccount{
			ID:         uuid.New().String(),
			PurchaseID: purchaseID,
			AmountDue:  total,
			Settled:    false,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := payables.Create(payable); err != nil {
			return err
		}
		resp = toPurchaseResponse(purchase, lines, payable)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// applyLines crea un detalle por línea y aplica su movimiento IN. El guardia de
// sobre-stock solo corre cuando guard=true (revisión con OverstockGuard activo).
func (uc *PurchaseUseCase) applyLines(
	purchases repository.PurchaseRepository,
	accounts repository.InventoryAccountRepository,
	movements repository.StockMovementRepository,
	purchaseID string,
	lines []dto.PurchaseLineRequest,
	reason, userID string,
	now time.Time,
) ([]*entity.PurchaseDetail, error) {
	details := make([]*entity.PurchaseDetail, 0, len(lines))
	for _, line := range lines {
		account, err := accounts.GetForUpdateByProductID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, domain.ErrMissingInventoryRecord
		}
		if uc.opts.OverstockGuard && reason == entity.ReasonPurchaseEdited &&
			account.CurrentLevel.Add(line.Quantity).GreaterThan(account.MinimumLevel) {
			return nil, domain.ErrOverstock
		}
		if _, err := uc.stock.ApplyInTx(accounts, movements, account.ID, entity.MovementKindIn,
			line.Quantity, reason, purchaseID, userID, now, false); err != nil {
			return nil, err
		}
		detail := &entity.PurchaseDetail{
			ID:         uuid.New().String(),
			PurchaseID: purchaseID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			Subtotal:   line.Quantity.Mul(line.UnitPrice),
		}
		if err := purchases.CreateDetail(detail); err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

// RevisePurchase reemplaza el juego completo de líneas: primero emite un movimiento
// OUT compensatorio por cada línea original ("Compra editada"), borra los detalles
// viejos y re-aplica las líneas nuevas como en RegisterPurchase. El total y la
// cuenta por pagar se recalculan. Todo o nada: nunca queda visible un estado con
// unas líneas compensadas y otras sin aplicar.
func (uc *PurchaseUseCase) RevisePurchase(ctx context.Context, userID, purchaseID string, in dto.RevisePurchaseRequest) (*dto.PurchaseResponse, error) {
	if err := uc.validateLines(in.Lines); err != nil {
		return nil, err
	}
	existing, err := uc.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	if !existing.Active {
		return nil, domain.ErrAlreadyCancelled
	}

	now := time.Now()
	total := linesTotal(in.Lines)

	var resp *dto.PurchaseResponse
	err = uc.txRunner.RunPurchase(ctx, func(
		purchases repository.PurchaseRepository,
		payables repository.PayableAccountRepository,
		accounts repository.InventoryAccountRepository,
		movements repository.StockMovementRepository,
		keys repository.OperationKeyRepository,
	) error {
		if in.IdempotencyKey != "" {
			if err := keys.Claim(in.IdempotencyKey, "revise_purchase"); err != nil {
				return err
			}
		}
		purchase, err := purchases.GetByID(purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if !purchase.Active {
			return domain.ErrAlreadyCancelled
		}

		// Revertir cada línea original con un OUT compensatorio (sin chequeo de stock).
		oldDetails, err := purchases.GetDetails(purchaseID)
		if err != nil {
			return err
		}
		for _, d := range oldDetails {
			account, err := accounts.GetForUpdateByProductID(d.ProductID)
			if err != nil {
				return err
			}
			if account == nil {
				return domain.ErrMissingInventoryRecord
			}
			if _, err := uc.stock.ApplyInTx(accounts, movements, account.ID, entity.MovementKindOut,
				d.Quantity, entity.ReasonPurchaseEdited, purchaseID, userID, now, true); err != nil {
				return err
			}
		}
		if err := purchases.DeleteDetails(purchaseID); err != nil {
			return err
		}

		lines, err := uc.applyLines(purchases, accounts, movements, purchaseID, in.Lines,
			entity.ReasonPurchaseEdited, userID, now)
		if err != nil {
			return err
		}

		purchase.Total = total
		if in.Number != "" {
			purchase.Number = in.Number
		}
		if in.Date != nil {
			purchase.Date = *in.Date
		}
		purchase.UpdatedAt = now
		if err := purchases.Update(purchase); err != nil {
			return err
		}

		// La cuenta por pagar sigue al total recalculado.
		payable, err := payables.GetByPurchaseID(purchaseID)
		if err != nil {
			return err
		}
		if payable != nil {
			payable.AmountDue = total
			payable.UpdatedAt = now
			if err := payables.Update(payable); err != nil {
				return err
			}
		}
		resp = toPurchaseResponse(purchase, lines, payable)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CancelPurchase marca la compra inactiva (nunca se borra), elimina su cuenta por
// pagar y emite un OUT compensatorio por cada línea ("Compra anulada"). Re-anular
// se rechaza con ErrAlreadyCancelled: volvería a restar el stock.
func (uc *PurchaseUseCase) CancelPurchase(ctx context.Context, userID, purchaseID, idempotencyKey string) error {
	existing, err := uc.purchaseRepo.GetByID(purchaseID)
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
	return uc.txRunner.RunPurchase(ctx, func(
		purchases repository.PurchaseRepository,
		payables repository.PayableAccountRepository,
		accounts repository.InventoryAccountRepository,
		movements repository.StockMovementRepository,
		keys repository.OperationKeyRepository,
	) error {
		if idempotencyKey != "" {
			if err := keys.Claim(idempotencyKey, "cancel_purchase"); err != nil {
				return err
			}
		}
		// Releer dentro de la tx: dos anulaciones concurrentes no deben pasar ambas.
		purchase, err := purchases.GetByID(purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if !purchase.Active {
			return domain.ErrAlreadyCancelled
		}
		details, err := purchases.GetDetails(purchaseID)
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
			if _, err := uc.stock.ApplyInTx(accounts, movements, account.ID, entity.MovementKindOut,
				d.Quantity, entity.ReasonPurchaseCancelled, purchaseID, userID, now, true); err != nil {
				return err
			}
		}
		if err := payables.DeleteByPurchaseID(purchaseID); err != nil {
			return err
		}
		purchase.Active = false
		purchase.UpdatedAt = now
		return purchases.Update(purchase)
	})
}

// SettlePayable marca pagada la cuenta por pagar de una compra.
func (uc *PurchaseUseCase) SettlePayable(ctx context.Context, purchaseID string) (*dto.PayableResponse, error) {
	payable, err := uc.payableRepo.GetByPurchaseID(purchaseID)
	if err != nil {
		return nil, err
	}
	if payable == nil {
		return nil, domain.ErrNotFound
	}
	payable.Settled = true
	payable.UpdatedAt = time.Now()
	if err := uc.payableRepo.Update(payable); err != nil {
		return nil, err
	}
	return toPayableResponse(payable), nil
}

// GetPurchase obtiene una compra con detalle y cuenta por pagar.
func (uc *PurchaseUseCase) GetPurchase(ctx context.Context, purchaseID string) (*dto.PurchaseResponse, error) {
	purchase, err := uc.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	details, err := uc.purchaseRepo.GetDetails(purchaseID)
	if err != nil {
		return nil, err
	}
	payable, err := uc.payableRepo.GetByPurchaseID(purchaseID)
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase, details, payable), nil
}

// ListPurchases lista compras con paginación.
func (uc *PurchaseUseCase) ListPurchases(ctx context.Context, limit, offset int) ([]*dto.PurchaseResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.purchaseRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPurchaseResponse(p, nil, nil))
	}
	return out, nil
}

func toPurchaseResponse(p *entity.Purchase, details []*entity.PurchaseDetail, payable *entity.PayableAccount) *dto.PurchaseResponse {
	resp := &dto.PurchaseResponse{
		ID:         p.ID,
		SupplierID: p.SupplierID,
		Number:     p.Number,
		Date:       p.Date,
		Total:      p.Total,
		Active:     p.Active,
	}
	for _, d := range details {
		resp.Lines = append(resp.Lines, dto.PurchaseLineResponse{
			ID:        d.ID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			Subtotal:  d.Subtotal,
		})
	}
	if payable != nil {
		resp.Payable = toPayableResponse(payable)
	}
	return resp
}

func toPayableResponse(p *entity.PayableAccount) *dto.PayableResponse {
	return &dto.PayableResponse{ID: p.ID, AmountDue: p.AmountDue, Settled: p.Settled}
}
