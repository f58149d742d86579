package dto

import "time"

// GenerateUnitsRequest genera un lote de unidades desde la plantilla del producto.
// StartSerial/EndSerial aceptan sufijo suelto ("1") o serial completo.
type GenerateUnitsRequest struct {
	CardProductID string `json:"card_product_id"`
	StartSerial   string `json:"start_serial"`
	EndSerial     string `json:"end_serial"`
}

// GenerateUnitsResponse resultado de la generación.
type GenerateUnitsResponse struct {
	MovementID  string   `json:"movement_id"`
	Quantity    int      `json:"quantity"`
	FirstSerial string   `json:"first_serial"`
	LastSerial  string   `json:"last_serial"`
	Serials     []string `json:"serials"`
}

// StockInRequest alta de stock en oficina con seriales explícitos.
type StockInRequest struct {
	CategoryID string   `json:"category_id"`
	TypeID     string   `json:"type_id"`
	Serials    []string `json:"serials"`
	Note       string   `json:"note"`
}

// ConfirmGeneratedRequest confirma un lote generado (ON_REQUEST -> IN_OFFICE)
// por rango de sufijos del producto.
type ConfirmGeneratedRequest struct {
	CardProductID string `json:"card_product_id"`
	StartSerial   string `json:"start_serial"`
	EndSerial     string `json:"end_serial"`
	Note          string `json:"note"`
}

// StockOutRequest despacho oficina -> estación.
type StockOutRequest struct {
	Serials              []string `json:"serials"`
	DestinationStationID string   `json:"destination_station_id"`
	Note                 string   `json:"note"`
}

// MovementResponse identifica el movimiento creado.
type MovementResponse struct {
	MovementID string `json:"movement_id"`
	Status     string `json:"status"`
	Quantity   int    `json:"quantity"`
}

// ConfirmReceiptRequest confirmación (posiblemente parcial) de un OUT. Solo
// los seriales listados cambian de estado; el resto del envío sigue IN_TRANSIT
// hasta confirmarse por separado.
type ConfirmReceiptRequest struct {
	Confirmed []string `json:"confirmed"`
	Lost      []string `json:"lost"`
	Damaged   []string `json:"damaged"`
	Note      string   `json:"note"`
}

// SerialResult resultado por serial de una operación por lotes.
type SerialResult struct {
	Status string `json:"status"`          // estado final de la unidad
	Error  string `json:"error,omitempty"` // código de error si el serial falló
}

// ConfirmReceiptResponse reporte explícito por serial: el caller distingue
// aplicación total de parcial sin booleanos agregados.
type ConfirmReceiptResponse struct {
	MovementID     string                  `json:"movement_id"`
	MovementStatus string                  `json:"movement_status"`
	Results        map[string]SerialResult `json:"results"`
}

// MovementHistoryItem entrada de historial del ledger.
type MovementHistoryItem struct {
	ID                    string     `json:"id"`
	MovementAt            time.Time  `json:"movement_at"`
	Type                  string     `json:"type"`
	Status                string     `json:"status"`
	CategoryID            string     `json:"category_id"`
	TypeID                string     `json:"type_id"`
	StationID             *string    `json:"station_id"`
	Quantity              int        `json:"quantity"`
	Note                  string     `json:"note"`
	SentSerialNumbers     []string   `json:"sent_serial_numbers"`
	ReceivedSerialNumbers []string   `json:"received_serial_numbers"`
	LostSerialNumbers     []string   `json:"lost_serial_numbers"`
	DamagedSerialNumbers  []string   `json:"damaged_serial_numbers"`
	ValidatedAt           *time.Time `json:"validated_at,omitempty"`
}
