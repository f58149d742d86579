package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CardResponse representación de una unidad del registro.
type CardResponse struct {
	SerialNumber     string    `json:"serial_number"`
	CardProductID    string    `json:"card_product_id"`
	CategoryID       string    `json:"category_id"`
	TypeID           string    `json:"type_id"`
	Status           string    `json:"status"`
	StationID        *string   `json:"station_id,omitempty"`
	PendingStationID *string   `json:"pending_station_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CreateCardProductRequest alta administrativa de un producto de tarjeta.
type CreateCardProductRequest struct {
	CategoryID     string          `json:"category_id"`
	TypeID         string          `json:"type_id"`
	SerialTemplate string          `json:"serial_template"`
	TotalQuota     int             `json:"total_quota"`
	ValidityMonths int             `json:"validity_months"`
	Price          decimal.Decimal `json:"price"`
	ProgramType    string          `json:"program_type"`
}

// CreateStationRequest alta de estación.
type CreateStationRequest struct {
	StationName string `json:"station_name"`
	StationCode string `json:"station_code"`
	City        string `json:"city"`
}

// CreateCategoryRequest alta de categoría de tarjeta.
type CreateCategoryRequest struct {
	CategoryName string `json:"category_name"`
	CategoryCode string `json:"category_code"`
	ProgramType  string `json:"program_type"`
}

// CreateCardTypeRequest alta de tipo de tarjeta.
type CreateCardTypeRequest struct {
	TypeName string `json:"type_name"`
	TypeCode string `json:"type_code"`
}
