package dto

import "time"

// CreateTransferRequest despacho estación -> estación.
type CreateTransferRequest struct {
	FromStationID string   `json:"from_station_id"`
	ToStationID   string   `json:"to_station_id"`
	Serials       []string `json:"serials"`
	Note          string   `json:"note"`
}

// ResolveTransferRequest resolución de una transferencia pendiente.
// Received vacío con lost/damaged presentes significa "el resto llegó".
type ResolveTransferRequest struct {
	Received []string `json:"received"`
	Lost     []string `json:"lost"`
	Damaged  []string `json:"damaged"`
}

// TransferResponse representación de una transferencia.
type TransferResponse struct {
	ID                    string     `json:"id"`
	Status                string     `json:"status"`
	FromStationID         string     `json:"from_station_id"`
	ToStationID           string     `json:"to_station_id"`
	CategoryID            string     `json:"category_id"`
	TypeID                string     `json:"type_id"`
	Quantity              int        `json:"quantity"`
	SentSerialNumbers     []string   `json:"sent_serial_numbers"`
	ReceivedSerialNumbers []string   `json:"received_serial_numbers"`
	LostSerialNumbers     []string   `json:"lost_serial_numbers"`
	DamagedSerialNumbers  []string   `json:"damaged_serial_numbers"`
	LostCount             int        `json:"lost_count"`
	DamagedCount          int        `json:"damaged_count"`
	Note                  string     `json:"note"`
	CreatedAt             time.Time  `json:"created_at"`
	ResolvedAt            *time.Time `json:"resolved_at,omitempty"`
}
