package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-api/internal/domain"
	"github.com/tu-usuario/negocio-api/internal/domain/entity"
	"github.com/tu-usuario/negocio-api/internal/domain/repository"
)

// Los repos no toman el mutex: el TxRunner serializa las transacciones y los
// tests ejercitan los repos desde una sola goroutine.

var _ repository.InventoryAccountRepository = (*InventoryAccountRepo)(nil)
var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)
var _ repository.ReceivableAccountRepository = (*ReceivableAccountRepo)(nil)
var _ repository.ReceivableEntryRepository = (*ReceivableEntryRepo)(nil)
var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)
var _ repository.PayableAccountRepository = (*PayableAccountRepo)(nil)
var _ repository.SaleRepository = (*SaleRepo)(nil)
var _ repository.ProductRepository = (*ProductRepo)(nil)
var _ repository.SupplierRepository = (*SupplierRepo)(nil)
var _ repository.CustomerRepository = (*CustomerRepo)(nil)
var _ repository.UserRepository = (*UserRepo)(nil)
var _ repository.OperationKeyRepository = (*OperationKeyRepo)(nil)

// InventoryAccountRepo repos en memoria para cuentas de inventario.
type InventoryAccountRepo struct {
	store *Store
}

// NewInventoryAccountRepository construye el repo sobre el store.
func NewInventoryAccountRepository(store *Store) *InventoryAccountRepo {
	return &InventoryAccountRepo{store: store}
}

func (r *InventoryAccountRepo) Create(account *entity.InventoryAccount) error {
	if err := r.store.failNow("inventory_accounts.Create"); err != nil {
		return err
	}
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	for _, a := range r.store.data.accounts {
		if a.ProductID == account.ProductID {
			return domain.ErrDuplicate
		}
	}
	c := *account
	r.store.data.accounts[account.ID] = &c
	return nil
}

func (r *InventoryAccountRepo) GetByID(id string) (*entity.InventoryAccount, error) {
	a, ok := r.store.data.accounts[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (r *InventoryAccountRepo) GetByProductID(productID string) (*entity.InventoryAccount, error) {
	for _, a := range r.store.data.accounts {
		if a.ProductID == productID {
			c := *a
			return &c, nil
		}
	}
	return nil, nil
}

func (r *InventoryAccountRepo) GetForUpdate(id string) (*entity.InventoryAccount, error) {
	if err := r.store.failNow("inventory_accounts.GetForUpdate"); err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *InventoryAccountRepo) GetForUpdateByProductID(productID string) (*entity.InventoryAccount, error) {
	return r.GetByProductID(productID)
}

func (r *InventoryAccountRepo) Update(account *entity.InventoryAccount) error {
	if err := r.store.failNow("inventory_accounts.Update"); err != nil {
		return err
	}
	if _, ok := r.store.data.accounts[account.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *account
	r.store.data.accounts[account.ID] = &c
	return nil
}

func (r *InventoryAccountRepo) List(limit, offset int) ([]*entity.InventoryAccount, error) {
	var list []*entity.InventoryAccount
	for _, a := range r.store.data.accounts {
		c := *a
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

// StockMovementRepo libro de movimientos en memoria.
type StockMovementRepo struct {
	store *Store
}

// NewStockMovementRepository construye el repo sobre el store.
func NewStockMovementRepository(store *Store) *StockMovementRepo {
	return &StockMovementRepo{store: store}
}

func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if err := r.store.failNow("stock_movements.Create"); err != nil {
		return err
	}
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	c := *movement
	r.store.data.movements = append(r.store.data.movements, &c)
	return nil
}

func (r *StockMovementRepo) ListByAccount(accountID string, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	// orden de inserción invertido = más recientes primero
	for i := len(r.store.data.movements) - 1; i >= 0; i-- {
		m := r.store.data.movements[i]
		if m.InventoryAccountID == accountID {
			c := *m
			list = append(list, &c)
		}
	}
	return paginate(list, limit, offset), nil
}

func (r *StockMovementRepo) SumByAccount(accountID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.store.data.movements {
		if m.InventoryAccountID == accountID {
			sum = sum.Add(m.SignedQuantity())
		}
	}
	return sum, nil
}

// ReceivableAccountRepo cuentas por cobrar en memoria.
type ReceivableAccountRepo struct {
	store *Store
}

// NewReceivableAccountRepository construye el repo sobre el store.
func NewReceivableAccountRepository(store *Store) *ReceivableAccountRepo {
	return &ReceivableAccountRepo{store: store}
}

func (r *ReceivableAccountRepo) Create(account *entity.ReceivableAccount) error {
	if err := r.store.failNow("receivable_accounts.Create"); err != nil {
		return err
	}
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	for _, a := range r.store.data.receivableAccounts {
		if a.CustomerID == account.CustomerID {
			return domain.ErrDuplicateAccount
		}
	}
	c := *account
	r.store.data.receivableAccounts[account.ID] = &c
	return nil
}

func (r *ReceivableAccountRepo) GetByID(id string) (*entity.ReceivableAccount, error) {
	a, ok := r.store.data.receivableAccounts[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (r *ReceivableAccountRepo) GetByCustomerID(customerID string) (*entity.ReceivableAccount, error) {
	for _, a := range r.store.data.receivableAccounts {
		if a.CustomerID == customerID {
			c := *a
			return &c, nil
		}
	}
	return nil, nil
}

func (r *ReceivableAccountRepo) GetForUpdate(id string) (*entity.ReceivableAccount, error) {
	if err := r.store.failNow("receivable_accounts.GetForUpdate"); err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *ReceivableAccountRepo) Update(account *entity.ReceivableAccount) error {
	if err := r.store.failNow("receivable_accounts.Update"); err != nil {
		return err
	}
	if _, ok := r.store.data.receivableAccounts[account.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *account
	r.store.data.receivableAccounts[account.ID] = &c
	return nil
}

// ReceivableEntryRepo libro de entradas por cobrar en memoria.
type ReceivableEntryRepo struct {
	store *Store
}

// NewReceivableEntryRepository construye el repo sobre el store.
func NewReceivableEntryRepository(store *Store) *ReceivableEntryRepo {
	return &ReceivableEntryRepo{store: store}
}

func (r *ReceivableEntryRepo) Create(entry *entity.ReceivableEntry) error {
	if err := r.store.failNow("receivable_entries.Create"); err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	c := *entry
	r.store.data.receivableEntries = append(r.store.data.receivableEntries, &c)
	return nil
}

func (r *ReceivableEntryRepo) ListByAccount(accountID string, limit, offset int) ([]*entity.ReceivableEntry, error) {
	var list []*entity.ReceivableEntry
	for i := len(r.store.data.receivableEntries) - 1; i >= 0; i-- {
		e := r.store.data.receivableEntries[i]
		if e.ReceivableAccountID == accountID {
			c := *e
			list = append(list, &c)
		}
	}
	return paginate(list, limit, offset), nil
}

func (r *ReceivableEntryRepo) GetLast(accountID string) (*entity.ReceivableEntry, error) {
	for i := len(r.store.data.receivableEntries) - 1; i >= 0; i-- {
		e := r.store.data.receivableEntries[i]
		if e.ReceivableAccountID == accountID {
			c := *e
			return &c, nil
		}
	}
	return nil, nil
}

func (r *ReceivableEntryRepo) SumByAccount(accountID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.store.data.receivableEntries {
		if e.ReceivableAccountID == accountID {
			sum = sum.Add(e.SignedAmount())
		}
	}
	return sum, nil
}

// PurchaseRepo compras en memoria.
type PurchaseRepo struct {
	store *Store
}

// NewPurchaseRepository construye el repo sobre el store.
func NewPurchaseRepository(store *Store) *PurchaseRepo {
	return &PurchaseRepo{store: store}
}

func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	if err := r.store.failNow("purchases.Create"); err != nil {
		return err
	}
	if purchase.ID == "" {
		purchase.ID = uuid.New().String()
	}
	c := *purchase
	r.store.data.purchases[purchase.ID] = &c
	return nil
}

func (r *PurchaseRepo) CreateDetail(detail *entity.PurchaseDetail) error {
	if err := r.store.failNow("purchase_details.Create"); err != nil {
		return err
	}
	if detail.ID == "" {
		detail.ID = uuid.New().String()
	}
	c := *detail
	r.store.data.purchaseDetails = append(r.store.data.purchaseDetails, &c)
	return nil
}

func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	p, ok := r.store.data.purchases[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *PurchaseRepo) GetDetails(purchaseID string) ([]*entity.PurchaseDetail, error) {
	var list []*entity.PurchaseDetail
	for _, d := range r.store.data.purchaseDetails {
		if d.PurchaseID == purchaseID {
			c := *d
			list = append(list, &c)
		}
	}
	return list, nil
}

func (r *PurchaseRepo) Update(purchase *entity.Purchase) error {
	if err := r.store.failNow("purchases.Update"); err != nil {
		return err
	}
	if _, ok := r.store.data.purchases[purchase.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *purchase
	r.store.data.purchases[purchase.ID] = &c
	return nil
}

func (r *PurchaseRepo) DeleteDetails(purchaseID string) error {
	if err := r.store.failNow("purchase_details.Delete"); err != nil {
		return err
	}
	kept := r.store.data.purchaseDetails[:0:0]
	for _, d := range r.store.data.purchaseDetails {
		if d.PurchaseID != purchaseID {
			kept = append(kept, d)
		}
	}
	r.store.data.purchaseDetails = kept
	return nil
}

func (r *PurchaseRepo) List(limit, offset int) ([]*entity.Purchase, error) {
	var list []*entity.Purchase
	for _, p := range r.store.data.purchases {
		c := *p
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return paginate(list, limit, offset), nil
}

// PayableAccountRepo cuentas por pagar en memoria.
type PayableAccountRepo struct {
	store *Store
}

// NewPayableAccountRepository construye el repo sobre el store.
func NewPayableAccountRepository(store *Store) *PayableAccountRepo {
	return &PayableAccountRepo{store: store}
}

func (r *PayableAccountRepo) Create(account *entity.PayableAccount) error {
	if err := r.store.failNow("payable_accounts.Create"); err != nil {
		return err
	}
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	c := *account
	r.store.data.payables[account.ID] = &c
	return nil
}

func (r *PayableAccountRepo) GetByPurchaseID(purchaseID string) (*entity.PayableAccount, error) {
	for _, a := range r.store.data.payables {
		if a.PurchaseID == purchaseID {
			c := *a
			return &c, nil
		}
	}
	return nil, nil
}

func (r *PayableAccountRepo) Update(account *entity.PayableAccount) error {
	if err := r.store.failNow("payable_accounts.Update"); err != nil {
		return err
	}
	if _, ok := r.store.data.payables[account.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *account
	r.store.data.payables[account.ID] = &c
	return nil
}

func (r *PayableAccountRepo) DeleteByPurchaseID(purchaseID string) error {
	if err := r.store.failNow("payable_accounts.Delete"); err != nil {
		return err
	}
	for id, a := range r.store.data.payables {
		if a.PurchaseID == purchaseID {
			delete(r.store.data.payables, id)
		}
	}
	return nil
}

// SaleRepo ventas en memoria.
type SaleRepo struct {
	store *Store
}

// NewSaleRepository construye el repo sobre el store.
func NewSaleRepository(store *Store) *SaleRepo {
	return &SaleRepo{store: store}
}

func (r *SaleRepo) Create(sale *entity.Sale) error {
	if err := r.store.failNow("sales.Create"); err != nil {
		return err
	}
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	c := *sale
	r.store.data.sales[sale.ID] = &c
	return nil
}

func (r *SaleRepo) CreateDetail(detail *entity.SaleDetail) error {
	if err := r.store.failNow("sale_details.Create"); err != nil {
		return err
	}
	if detail.ID == "" {
		detail.ID = uuid.New().String()
	}
	c := *detail
	r.store.data.saleDetails = append(r.store.data.saleDetails, &c)
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	s, ok := r.store.data.sales[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *SaleRepo) GetDetails(saleID string) ([]*entity.SaleDetail, error) {
	var list []*entity.SaleDetail
	for _, d := range r.store.data.saleDetails {
		if d.SaleID == saleID {
			c := *d
			list = append(list, &c)
		}
	}
	return list, nil
}

func (r *SaleRepo) Update(sale *entity.Sale) error {
	if err := r.store.failNow("sales.Update"); err != nil {
		return err
	}
	if _, ok := r.store.data.sales[sale.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *sale
	r.store.data.sales[sale.ID] = &c
	return nil
}

func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	var list []*entity.Sale
	for _, s := range r.store.data.sales {
		c := *s
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return paginate(list, limit, offset), nil
}

// ProductRepo catálogo en memoria.
type ProductRepo struct {
	store *Store
}

// NewProductRepository construye el repo sobre el store.
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

func (r *ProductRepo) Create(product *entity.Product) error {
	if err := r.store.failNow("products.Create"); err != nil {
		return err
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	for _, p := range r.store.data.products {
		if p.SKU == product.SKU {
			return domain.ErrDuplicate
		}
	}
	c := *product
	r.store.data.products[product.ID] = &c
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.data.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.store.data.products {
		if p.SKU == sku {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	for _, p := range r.store.data.products {
		c := *p
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

func (r *ProductRepo) Update(product *entity.Product) error {
	if _, ok := r.store.data.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *product
	r.store.data.products[product.ID] = &c
	return nil
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct {
	store *Store
}

// NewSupplierRepository construye el repo sobre el store.
func NewSupplierRepository(store *Store) *SupplierRepo {
	return &SupplierRepo{store: store}
}

func (r *SupplierRepo) Create(supplier *entity.Supplier) error {
	if err := r.store.failNow("suppliers.Create"); err != nil {
		return err
	}
	if supplier.ID == "" {
		supplier.ID = uuid.New().String()
	}
	for _, s := range r.store.data.suppliers {
		if s.TaxID == supplier.TaxID {
			return domain.ErrDuplicate
		}
	}
	c := *supplier
	r.store.data.suppliers[supplier.ID] = &c
	return nil
}

func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	s, ok := r.store.data.suppliers[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *SupplierRepo) GetByTaxID(taxID string) (*entity.Supplier, error) {
	for _, s := range r.store.data.suppliers {
		if s.TaxID == taxID {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (r *SupplierRepo) SearchByName(searchName string, limit, offset int) ([]*entity.Supplier, error) {
	var list []*entity.Supplier
	for _, s := range r.store.data.suppliers {
		if strings.HasPrefix(s.SearchName, searchName) {
			c := *s
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

func (r *SupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	var list []*entity.Supplier
	for _, s := range r.store.data.suppliers {
		c := *s
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

func (r *SupplierRepo) Update(supplier *entity.Supplier) error {
	if _, ok := r.store.data.suppliers[supplier.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *supplier
	r.store.data.suppliers[supplier.ID] = &c
	return nil
}

// CustomerRepo clientes en memoria.
type CustomerRepo struct {
	store *Store
}

// NewCustomerRepository construye el repo sobre el store.
func NewCustomerRepository(store *Store) *CustomerRepo {
	return &CustomerRepo{store: store}
}

func (r *CustomerRepo) Create(customer *entity.Customer) error {
	if err := r.store.failNow("customers.Create"); err != nil {
		return err
	}
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	for _, c := range r.store.data.customers {
		if c.TaxID == customer.TaxID {
			return domain.ErrDuplicate
		}
	}
	c := *customer
	r.store.data.customers[customer.ID] = &c
	return nil
}

func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	cu, ok := r.store.data.customers[id]
	if !ok {
		return nil, nil
	}
	c := *cu
	return &c, nil
}

func (r *CustomerRepo) GetByTaxID(taxID string) (*entity.Customer, error) {
	for _, cu := range r.store.data.customers {
		if cu.TaxID == taxID {
			c := *cu
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) SearchByName(searchName string, limit, offset int) ([]*entity.Customer, error) {
	var list []*entity.Customer
	for _, cu := range r.store.data.customers {
		if strings.HasPrefix(cu.SearchName, searchName) {
			c := *cu
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

func (r *CustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	var list []*entity.Customer
	for _, cu := range r.store.data.customers {
		c := *cu
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

func (r *CustomerRepo) Update(customer *entity.Customer) error {
	if _, ok := r.store.data.customers[customer.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *customer
	r.store.data.customers[customer.ID] = &c
	return nil
}

// UserRepo usuarios en memoria.
type UserRepo struct {
	store *Store
}

// NewUserRepository construye el repo sobre el store.
func NewUserRepository(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

func (r *UserRepo) Create(user *entity.User) error {
	for _, u := range r.store.data.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	c := *user
	r.store.data.users[user.ID] = &c
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.store.data.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.store.data.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

// OperationKeyRepo claves de idempotencia en memoria.
type OperationKeyRepo struct {
	store *Store
}

// NewOperationKeyRepository construye el repo sobre el store.
func NewOperationKeyRepository(store *Store) *OperationKeyRepo {
	return &OperationKeyRepo{store: store}
}

func (r *OperationKeyRepo) Claim(key, operation string) error {
	if _, ok := r.store.data.operationKeys[key]; ok {
		return domain.ErrDuplicateOperation
	}
	r.store.data.operationKeys[key] = &entity.OperationKey{
		Key:       key,
		Operation: operation,
		CreatedAt: time.Now(),
	}
	return nil
}

func paginate[T any](list []*T, limit, offset int) []*T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
