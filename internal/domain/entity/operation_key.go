package entity

import "time"

// OperationKey es una clave de idempotencia reclamada por una operación mutadora.
// Un reintento con la misma clave se rechaza antes de tocar cualquier libro.
type OperationKey struct {
	Key       string
	Operation string // register_purchase, cancel_purchase, register_movement, ...
	CreatedAt time.Time
}
