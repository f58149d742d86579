package entity

import "time"

// Tipos de movimiento del ledger de stock.
const (
	MovementTypeGENERATED = "GENERATED" // lote generado desde la plantilla del producto
	MovementTypeIN        = "IN"        // entrada a custodia de oficina
	MovementTypeOUT       = "OUT"       // despacho oficina -> estación
	MovementTypeTRANSFER  = "TRANSFER"  // traslado estación -> estación (ver entity.Transfer)
)

// Estados de un movimiento.
const (
	MovementStatusPending  = "PENDING"  // OUT despachado, pendiente de confirmación de recepción
	MovementStatusApproved = "APPROVED" // completamente contabilizado
	MovementStatusRejected = "REJECTED" // traslado rechazado y revertido
)

// StockMovement entrada append-only del ledger. Se crea una vez y no se edita:
// las correcciones son movimientos compensatorios nuevos. Un movimiento IN
// nunca referencia un serial ya existente en el registro.
type StockMovement struct {
	ID                    string
	MovementAt            time.Time
	Type                  string // GENERATED | IN | OUT | TRANSFER
	Status                string // PENDING | APPROVED | REJECTED
	CategoryID            string
	TypeID                string
	StationID             *string // destino para OUT; nil para IN/GENERATED (oficina)
	Quantity              int
	SentSerialNumbers     []string
	ReceivedSerialNumbers []string
	LostSerialNumbers     []string
	DamagedSerialNumbers  []string
	Note                  string
	CreatedAt             time.Time
	CreatedBy             string
	ValidatedAt           *time.Time
	ValidatedBy           string
}
