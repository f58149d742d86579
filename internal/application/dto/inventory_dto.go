package dto

import "github.com/railops/cardstock-api/internal/domain/card"

// SummaryRequest filtro del agregador. Fechas en RFC 3339.
type SummaryRequest struct {
	CategoryID string `query:"category_id"`
	TypeID     string `query:"type_id"`
	StationID  string `query:"station_id"`
	StartDate  string `query:"start_date"`
	EndDate    string `query:"end_date"`
}

// SummaryGroup contadores de un grupo (categoría, tipo, estación|oficina).
type SummaryGroup struct {
	CategoryID string        `json:"category_id"`
	TypeID     string        `json:"type_id"`
	StationID  string        `json:"station_id,omitempty"` // vacío = oficina central
	Counters   card.Counters `json:"counters"`
}

// SummaryResponse snapshot derivado; no es fuente de verdad.
type SummaryResponse struct {
	Groups []SummaryGroup `json:"groups"`
	Cached bool           `json:"cached"`
}
