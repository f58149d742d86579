package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/railops/cardstock-api/internal/domain/entity"
	"github.com/railops/cardstock-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, movement_at, type, status, category_id, type_id, station_id, quantity,
	sent_serial_numbers, received_serial_numbers, lost_serial_numbers, damaged_serial_numbers,
	note, created_at, created_by, validated_at, validated_by`

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var validatedBy *string
	err := row.Scan(
		&m.ID, &m.MovementAt, &m.Type, &m.Status, &m.CategoryID, &m.TypeID, &m.StationID, &m.Quantity,
		&m.SentSerialNumbers, &m.ReceivedSerialNumbers, &m.LostSerialNumbers, &m.DamagedSerialNumbers,
		&m.Note, &m.CreatedAt, &m.CreatedBy, &m.ValidatedAt, &validatedBy,
	)
	if err != nil {
		return nil, err
	}
	if validatedBy != nil {
		m.ValidatedBy = *validatedBy
	}
	return &m, nil
}

// Create asienta un movimiento. El ledger es append-only: nunca hay UPDATE
// sobre los campos de despacho.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	var validatedBy *string
	if movement.ValidatedBy != "" {
		validatedBy = &movement.ValidatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.MovementAt, movement.Type, movement.Status,
		movement.CategoryID, movement.TypeID, movement.StationID, movement.Quantity,
		movement.SentSerialNumbers, movement.ReceivedSerialNumbers,
		movement.LostSerialNumbers, movement.DamagedSerialNumbers,
		movement.Note, movement.CreatedAt, movement.CreatedBy, movement.ValidatedAt, validatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento. Devuelve nil si no existe.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// GetByIDForUpdate obtiene un movimiento bloqueando la fila (SELECT FOR UPDATE).
func (r *StockMovementRepo) GetByIDForUpdate(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1 FOR UPDATE`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement for update: %w", err)
	}
	return m, nil
}

// RecordReceipt completa el tramo de recepción de un movimiento pendiente:
// arrays de resultado, estado final y auditoría, condicionado a status PENDING.
func (r *StockMovementRepo) RecordReceipt(movement *entity.StockMovement) error {
	query := `
		UPDATE stock_movements
		SET status = $1, received_serial_numbers = $2, lost_serial_numbers = $3,
			damaged_serial_numbers = $4, note = $5, validated_at = $6, validated_by = $7
		WHERE id = $8 AND status = 'PENDING'`
	tag, err := r.q.Exec(context.Background(), query,
		movement.Status, movement.ReceivedSerialNumbers, movement.LostSerialNumbers,
		movement.DamagedSerialNumbers, movement.Note, movement.ValidatedAt, movement.ValidatedBy,
		movement.ID,
	)
	if err != nil {
		return fmt.Errorf("record receipt: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("movimiento %s ya no está pendiente", movement.ID)
	}
	return nil
}

// List lista movimientos según el filtro, más recientes primero.
func (r *StockMovementRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	query, args := buildMovementWhere(`SELECT `+movementColumns+` FROM stock_movements WHERE 1=1`, filter)
	query += " ORDER BY movement_at DESC"
	n := len(args)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", n+1)
		args = append(args, filter.Limit)
		n++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", n+1)
		args = append(args, filter.Offset)
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Count cuenta movimientos según el filtro.
func (r *StockMovementRepo) Count(filter repository.MovementFilter) (int, error) {
	query, args := buildMovementWhere(`SELECT COUNT(*) FROM stock_movements WHERE 1=1`, filter)
	var n int
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

func buildMovementWhere(base string, filter repository.MovementFilter) (string, []any) {
	args := []any{}
	i := 1
	add := func(cond string, val any) {
		base += fmt.Sprintf(" AND "+cond, i)
		args = append(args, val)
		i++
	}
	if filter.Type != "" {
		add("type = $%d", filter.Type)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.CategoryID != "" {
		add("category_id = $%d", filter.CategoryID)
	}
	if filter.TypeID != "" {
		add("type_id = $%d", filter.TypeID)
	}
	if filter.StationID != "" {
		add("station_id = $%d", filter.StationID)
	}
	if filter.From != nil {
		add("movement_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("movement_at <= $%d", *filter.To)
	}
	return base, args
}
