package repository

// OperationKeyRepository define el puerto para claves de idempotencia.
type OperationKeyRepository interface {
	// Claim reclama la clave dentro de la transacción actual. Retorna
	// domain.ErrDuplicateOperation si ya fue reclamada; en ese caso el orquestador
	// debe abortar sin aplicar ningún cambio.
	Claim(key, operation string) error
}
