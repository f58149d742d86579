package entity

import "time"

// Estados de una transferencia estación-estación.
const (
	TransferStatusPending  = "PENDING"
	TransferStatusReceived = "RECEIVED" // resuelta; puede incluir pérdidas/daños
	TransferStatusRejected = "REJECTED" // rechazada antes de tocar seriales; terminal
)

// Transfer traslado en dos fases entre estaciones (u oficina como origen).
// SentSerialNumbers queda fijo al despachar; la resolución ocurre exactamente
// una vez y received ∪ lost ∪ damaged debe particionar los enviados.
type Transfer struct {
	ID                    string
	MovementID            string // asiento TRANSFER del ledger asociado
	Status                string // PENDING | RECEIVED | REJECTED
	FromStationID         string
	ToStationID           string
	CategoryID            string
	TypeID                string
	Quantity              int
	SentSerialNumbers     []string
	ReceivedSerialNumbers []string
	LostSerialNumbers     []string
	DamagedSerialNumbers  []string
	Note                  string
	CreatedAt             time.Time
	CreatedBy             string
	ResolvedAt            *time.Time
	ResolvedBy            string
}
