package entity

import "time"

// Station estación de la red que puede custodiar inventario de tarjetas.
// La oficina central no es una Station: se modela como StationID nil.
type Station struct {
	ID          string
	StationName string
	StationCode string
	City        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
