package entity

import "time"

// CardStatus estado de custodia de una tarjeta física. Conjunto cerrado:
// cualquier valor fuera de esta lista se rechaza en construcción (IsValid).
type CardStatus string

const (
	StatusOnRequest    CardStatus = "ON_REQUEST"    // generada, pendiente de confirmación de oficina (programa voucher)
	StatusInOffice     CardStatus = "IN_OFFICE"     // en custodia de oficina central
	StatusInTransit    CardStatus = "IN_TRANSIT"    // despachada hacia una estación (stock-out)
	StatusInStation    CardStatus = "IN_STATION"    // residente en una estación
	StatusOnTransfer   CardStatus = "ON_TRANSFER"   // en tránsito entre estaciones
	StatusSoldActive   CardStatus = "SOLD_ACTIVE"   // vendida y activa
	StatusSoldInactive CardStatus = "SOLD_INACTIVE" // vendida, desactivada
	StatusLost         CardStatus = "LOST"          // terminal, se conserva para auditoría
	StatusDamaged      CardStatus = "DAMAGED"       // terminal, se conserva para auditoría
)

// IsValid indica si el valor pertenece al conjunto conocido de estados.
func (s CardStatus) IsValid() bool {
	switch s {
	case StatusOnRequest, StatusInOffice, StatusInTransit, StatusInStation,
		StatusOnTransfer, StatusSoldActive, StatusSoldInactive, StatusLost, StatusDamaged:
		return true
	}
	return false
}

// IsTerminal indica si el estado no tiene transiciones de salida.
func (s CardStatus) IsTerminal() bool {
	return s == StatusLost || s == StatusDamaged
}

// IsStationResident indica si el estado implica StationID poblado.
func (s CardStatus) IsStationResident() bool {
	switch s {
	case StatusInStation, StatusSoldActive, StatusSoldInactive:
		return true
	}
	return false
}

// Card representa una unidad física (o virtual) con serial único e inmutable.
// StationID solo está poblado en estados residentes o vendidos; mientras la
// unidad viaja (IN_TRANSIT, ON_TRANSFER) PendingStationID guarda el destino
// declarado por el despacho. Nunca se borra físicamente; LOST/DAMAGED quedan
// como registro de auditoría.
type Card struct {
	SerialNumber     string
	CardProductID    string
	CategoryID       string
	TypeID           string
	Status           CardStatus
	StationID        *string
	PendingStationID *string
	QuotaTicket      int
	CreatedAt        time.Time
	CreatedBy        string
	UpdatedAt        time.Time
	UpdatedBy        string
}
