package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/negocio-api/internal/domain"
	"github.com/tu-usuario/negocio-api/internal/domain/repository"
)

var _ repository.OperationKeyRepository = (*OperationKeyRepo)(nil)

// OperationKeyRepo implementación de claves de idempotencia sobre PostgreSQL.
type OperationKeyRepo struct {
	q Querier
}

// NewOperationKeyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOperationKeyRepository(q Querier) *OperationKeyRepo {
	return &OperationKeyRepo{q: q}
}

// Claim reclama la clave dentro de la transacción actual. ON CONFLICT DO NOTHING:
// cero filas insertadas significa que otro intento ya la reclamó.
func (r *OperationKeyRepo) Claim(key, operation string) error {
	query := `
		INSERT INTO operation_keys (key, operation, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO NOTHING`
	tag, err := r.q.Exec(context.Background(), query, key, operation, time.Now())
	if err != nil {
		return fmt.Errorf("claim operation key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicateOperation
	}
	return nil
}
