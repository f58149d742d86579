package entity

import "time"

// CardCategory categoría comercial de la tarjeta (GOLD, SILVER, ...).
type CardCategory struct {
	ID           string
	CategoryName string
	CategoryCode string
	ProgramType  string // FWC | VOUCHER
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CardType tipo dentro de una categoría (REGULAR, PROMO, ...).
type CardType struct {
	ID        string
	TypeName  string
	TypeCode  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
