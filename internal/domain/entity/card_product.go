package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de programa. Deciden el estado inicial al generar unidades.
const (
	ProgramFWC     = "FWC"     // tarjeta regular: nace IN_OFFICE
	ProgramVoucher = "VOUCHER" // voucher: nace ON_REQUEST hasta confirmación de oficina
)

// CardProduct plantilla que liga categoría+tipo a un esquema de numeración,
// una cuota total y un período de validez. Las operaciones de movimiento lo
// referencian pero nunca lo mutan.
type CardProduct struct {
	ID             string
	CategoryID     string
	TypeID         string
	SerialTemplate string // prefijo del serial; el serial final es template + AA + sufijo de 5 dígitos
	TotalQuota     int    // máximo de unidades generables para este producto
	ValidityMonths int
	Price          decimal.Decimal
	ProgramType    string // FWC | VOUCHER
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
