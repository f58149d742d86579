package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/railops/cardstock-api/internal/domain"
	"github.com/railops/cardstock-api/internal/domain/entity"
	"github.com/railops/cardstock-api/internal/domain/repository"
)

var _ repository.CardRepository = (*CardRepo)(nil)

// CardRepo implementación de CardRepository sobre PostgreSQL (usable con pool o tx).
type CardRepo struct {
	q Querier
}

// NewCardRepository construye el adaptador de tarjetas. Pasar pool o tx (Querier).
func NewCardRepository(q Querier) *CardRepo {
	return &CardRepo{q: q}
}

const cardColumns = `serial_number, card_product_id, category_id, type_id, status,
	station_id, pending_station_id, quota_ticket, created_at, created_by, updated_at, updated_by`

func scanCard(row pgx.Row) (*entity.Card, error) {
	var c entity.Card
	err := row.Scan(
		&c.SerialNumber, &c.CardProductID, &c.CategoryID, &c.TypeID, &c.Status,
		&c.StationID, &c.PendingStationID, &c.QuotaTicket,
		&c.CreatedAt, &c.CreatedBy, &c.UpdatedAt, &c.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateBatch inserta las unidades del lote. El constraint único de
// serial_number convierte cualquier colisión en ErrDuplicateSerial.
func (r *CardRepo) CreateBatch(cards []*entity.Card) error {
	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for _, c := range cards {
		_, err := r.q.Exec(context.Background(), query,
			c.SerialNumber, c.CardProductID, c.CategoryID, c.TypeID, c.Status,
			c.StationID, c.PendingStationID, c.QuotaTicket,
			c.CreatedAt, c.CreatedBy, c.UpdatedAt, c.UpdatedBy,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("serial %s: %w", c.SerialNumber, domain.ErrDuplicateSerial)
			}
			return fmt.Errorf("insert card: %w", err)
		}
	}
	return nil
}

// GetBySerial obtiene una unidad por serial. Devuelve nil si no existe.
func (r *CardRepo) GetBySerial(serialNumber string) (*entity.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE serial_number = $1`
	c, err := scanCard(r.q.QueryRow(context.Background(), query, serialNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get card: %w", err)
	}
	return c, nil
}

// ListBySerials obtiene las unidades cuyos seriales existen.
func (r *CardRepo) ListBySerials(serialNumbers []string) ([]*entity.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE serial_number = ANY($1) ORDER BY serial_number`
	rows, err := r.q.Query(context.Background(), query, serialNumbers)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var out []*entity.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ExistingSerials devuelve el subconjunto de seriales que ya existen.
func (r *CardRepo) ExistingSerials(serialNumbers []string) ([]string, error) {
	query := `SELECT serial_number FROM cards WHERE serial_number = ANY($1) ORDER BY serial_number`
	rows, err := r.q.Query(context.Background(), query, serialNumbers)
	if err != nil {
		return nil, fmt.Errorf("existing serials: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var sn string
		if err := rows.Scan(&sn); err != nil {
			return nil, err
		}
		out = append(out, sn)
	}
	return out, rows.Err()
}

// LastSerialByProduct devuelve el serial más alto del producto ("" si no hay).
func (r *CardRepo) LastSerialByProduct(cardProductID string) (string, error) {
	query := `SELECT serial_number FROM cards WHERE card_product_id = $1 ORDER BY serial_number DESC LIMIT 1`
	var sn string
	err := r.q.QueryRow(context.Background(), query, cardProductID).Scan(&sn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last serial: %w", err)
	}
	return sn, nil
}

// CountByProduct cuenta las unidades generadas para el producto.
func (r *CardRepo) CountByProduct(cardProductID string) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM cards WHERE card_product_id = $1`, cardProductID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count by product: %w", err)
	}
	return n, nil
}

// ApplyStatusChange ejecuta un UPDATE condicionado al estado origen. El WHERE
// sobre status cierra la carrera entre lectura y escritura: si otra tx movió
// la unidad primero, RowsAffected es 0 y se devuelve false.
func (r *CardRepo) ApplyStatusChange(change repository.StatusChange) (bool, error) {
	query := `
		UPDATE cards
		SET status = $1, station_id = $2, pending_station_id = $3, updated_at = now(), updated_by = $4
		WHERE serial_number = $5 AND status = $6`
	tag, err := r.q.Exec(context.Background(), query,
		change.ToStatus, change.StationID, change.PendingStationID, change.UpdatedBy,
		change.SerialNumber, change.FromStatus,
	)
	if err != nil {
		return false, fmt.Errorf("apply status change: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListForSummary lista unidades para el agregador. Con ventana temporal, el
// universo se restringe a unidades referenciadas por movimientos del período.
func (r *CardRepo) ListForSummary(filter repository.SummaryFilter) ([]*entity.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE 1=1`
	args := []any{}
	i := 1

	if filter.CategoryID != "" {
		query += fmt.Sprintf(" AND category_id = $%d", i)
		args = append(args, filter.CategoryID)
		i++
	}
	if filter.TypeID != "" {
		query += fmt.Sprintf(" AND type_id = $%d", i)
		args = append(args, filter.TypeID)
		i++
	}
	if filter.StartDate != nil || filter.EndDate != nil {
		sub := `SELECT 1 FROM stock_movements m
			WHERE cards.serial_number = ANY(m.sent_serial_numbers || m.received_serial_numbers || m.lost_serial_numbers || m.damaged_serial_numbers)`
		if filter.StartDate != nil {
			sub += fmt.Sprintf(" AND m.movement_at >= $%d", i)
			args = append(args, *filter.StartDate)
			i++
		}
		if filter.EndDate != nil {
			sub += fmt.Sprintf(" AND m.movement_at <= $%d", i)
			args = append(args, *filter.EndDate)
			i++
		}
		query += " AND EXISTS (" + sub + ")"
	}
	query += " ORDER BY serial_number"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list for summary: %w", err)
	}
	defer rows.Close()

	var out []*entity.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
