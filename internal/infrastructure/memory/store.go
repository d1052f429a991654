// Package memory implementa los puertos de persistencia sobre estructuras en
// memoria, con la misma semántica transaccional que el adaptador de PostgreSQL:
// los Run* del TxRunner toman un snapshot del estado y lo restauran completo si
// el callback falla. Está pensado para tests de los orquestadores, incluida la
// inyección de fallas para verificar atomicidad.
package memory

import (
	"sync"

	"github.com/tu-usuario/negocio-api/internal/domain/entity"
)

// Store contiene todas las tablas en memoria.
type Store struct {
	mu   sync.Mutex
	data *dataset

	// failures mapea "tabla.Operación" (p. ej. "stock_movements.Create") al error
	// que debe devolver la PRÓXIMA llamada a esa operación. Se consume al dispararse.
	failures map[string]error
}

type dataset struct {
	products           map[string]*entity.Product
	accounts           map[string]*entity.InventoryAccount
	movements          []*entity.StockMovement
	receivableAccounts map[string]*entity.ReceivableAccount
	receivableEntries  []*entity.ReceivableEntry
	purchases          map[string]*entity.Purchase
	purchaseDetails    []*entity.PurchaseDetail
	payables           map[string]*entity.PayableAccount
	sales              map[string]*entity.Sale
	saleDetails        []*entity.SaleDetail
	suppliers          map[string]*entity.Supplier
	customers          map[string]*entity.Customer
	users              map[string]*entity.User
	operationKeys      map[string]*entity.OperationKey
}

func newDataset() *dataset {
	return &dataset{
		products:           make(map[string]*entity.Product),
		accounts:           make(map[string]*entity.InventoryAccount),
		receivableAccounts: make(map[string]*entity.ReceivableAccount),
		purchases:          make(map[string]*entity.Purchase),
		payables:           make(map[string]*entity.PayableAccount),
		sales:              make(map[string]*entity.Sale),
		suppliers:          make(map[string]*entity.Supplier),
		customers:          make(map[string]*entity.Customer),
		users:              make(map[string]*entity.User),
		operationKeys:      make(map[string]*entity.OperationKey),
	}
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{data: newDataset(), failures: make(map[string]error)}
}

// FailOnce programa un error para la próxima llamada a la operación indicada
// (clave "tabla.Operación"). Sirve para probar que un fallo a mitad de
// transacción no deja escrituras parciales.
func (s *Store) FailOnce(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// failNow consume y devuelve la falla programada para op, si existe.
func (s *Store) failNow(op string) error {
	if err, ok := s.failures[op]; ok {
		delete(s.failures, op)
		return err
	}
	return nil
}

// snapshot copia el dataset completo. Las entidades se copian por valor.
func (s *Store) snapshot() *dataset {
	snap := newDataset()
	for k, v := range s.data.products {
		c := *v
		snap.products[k] = &c
	}
	for k, v := range s.data.accounts {
		c := *v
		snap.accounts[k] = &c
	}
	snap.movements = make([]*entity.StockMovement, len(s.data.movements))
	for i, v := range s.data.movements {
		c := *v
		snap.movements[i] = &c
	}
	for k, v := range s.data.receivableAccounts {
		c := *v
		snap.receivableAccounts[k] = &c
	}
	snap.receivableEntries = make([]*entity.ReceivableEntry, len(s.data.receivableEntries))
	for i, v := range s.data.receivableEntries {
		c := *v
		snap.receivableEntries[i] = &c
	}
	for k, v := range s.data.purchases {
		c := *v
		snap.purchases[k] = &c
	}
	snap.purchaseDetails = make([]*entity.PurchaseDetail, len(s.data.purchaseDetails))
	for i, v := range s.data.purchaseDetails {
		c := *v
		snap.purchaseDetails[i] = &c
	}
	for k, v := range s.data.payables {
		c := *v
		snap.payables[k] = &c
	}
	for k, v := range s.data.sales {
		c := *v
		snap.sales[k] = &c
	}
	snap.saleDetails = make([]*entity.SaleDetail, len(s.data.saleDetails))
	for i, v := range s.data.saleDetails {
		c := *v
		snap.saleDetails[i] = &c
	}
	for k, v := range s.data.suppliers {
		c := *v
		snap.suppliers[k] = &c
	}
	for k, v := range s.data.customers {
		c := *v
		snap.customers[k] = &c
	}
	for k, v := range s.data.users {
		c := *v
		snap.users[k] = &c
	}
	for k, v := range s.data.operationKeys {
		c := *v
		snap.operationKeys[k] = &c
	}
	return snap
}
