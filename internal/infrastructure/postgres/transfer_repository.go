package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/railops/cardstock-api/internal/domain/entity"
	"github.com/railops/cardstock-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador de transferencias. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, movement_id, status, from_station_id, to_station_id, category_id, type_id,
	quantity, sent_serial_numbers, received_serial_numbers, lost_serial_numbers, damaged_serial_numbers,
	note, created_at, created_by, resolved_at, resolved_by`

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	var resolvedBy *string
	err := row.Scan(
		&t.ID, &t.MovementID, &t.Status, &t.FromStationID, &t.ToStationID, &t.CategoryID, &t.TypeID,
		&t.Quantity, &t.SentSerialNumbers, &t.ReceivedSerialNumbers, &t.LostSerialNumbers, &t.DamagedSerialNumbers,
		&t.Note, &t.CreatedAt, &t.CreatedBy, &t.ResolvedAt, &resolvedBy,
	)
	if err != nil {
		return nil, err
	}
	if resolvedBy != nil {
		t.ResolvedBy = *resolvedBy
	}
	return &t, nil
}

// Create persiste una transferencia recién despachada.
func (r *TransferRepo) Create(transfer *entity.Transfer) error {
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	var resolvedBy *string
	if transfer.ResolvedBy != "" {
		resolvedBy = &transfer.ResolvedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.MovementID, transfer.Status,
		transfer.FromStationID, transfer.ToStationID, transfer.CategoryID, transfer.TypeID,
		transfer.Quantity, transfer.SentSerialNumbers, transfer.ReceivedSerialNumbers,
		transfer.LostSerialNumbers, transfer.DamagedSerialNumbers,
		transfer.Note, transfer.CreatedAt, transfer.CreatedBy, transfer.ResolvedAt, resolvedBy,
	)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// GetByID obtiene una transferencia. Devuelve nil si no existe.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	t, err := scanTransfer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return t, nil
}

// GetByIDForUpdate obtiene una transferencia bloqueando la fila (SELECT FOR UPDATE).
func (r *TransferRepo) GetByIDForUpdate(id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1 FOR UPDATE`
	t, err := scanTransfer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer for update: %w", err)
	}
	return t, nil
}

// Resolve persiste la resolución condicionada a status PENDING. El WHERE
// garantiza exactamente-una-vez aunque dos resoluciones compitan.
func (r *TransferRepo) Resolve(transfer *entity.Transfer) (bool, error) {
	query := `
		UPDATE transfers
		SET status = $1, received_serial_numbers = $2, lost_serial_numbers = $3,
			damaged_serial_numbers = $4, note = $5, resolved_at = $6, resolved_by = $7
		WHERE id = $8 AND status = 'PENDING'`
	tag, err := r.q.Exec(context.Background(), query,
		transfer.Status, transfer.ReceivedSerialNumbers, transfer.LostSerialNumbers,
		transfer.DamagedSerialNumbers, transfer.Note, transfer.ResolvedAt, transfer.ResolvedBy,
		transfer.ID,
	)
	if err != nil {
		return false, fmt.Errorf("resolve transfer: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// List lista transferencias según el filtro, más recientes primero.
func (r *TransferRepo) List(filter repository.TransferFilter) ([]*entity.Transfer, error) {
	query, args := buildTransferWhere(`SELECT `+transferColumns+` FROM transfers WHERE 1=1`, filter)
	query += " ORDER BY created_at DESC"
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
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var out []*entity.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Count cuenta transferencias según el filtro.
func (r *TransferRepo) Count(filter repository.TransferFilter) (int, error) {
	query, args := buildTransferWhere(`SELECT COUNT(*) FROM transfers WHERE 1=1`, filter)
	var n int
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transfers: %w", err)
	}
	return n, nil
}

func buildTransferWhere(base string, filter repository.TransferFilter) (string, []any) {
	args := []any{}
	i := 1
	if filter.Status != "" {
		base += fmt.Sprintf(" AND status = $%d", i)
		args = append(args, filter.Status)
		i++
	}
	if filter.StationID != "" {
		base += fmt.Sprintf(" AND (from_station_id = $%d OR to_station_id = $%d)", i, i)
		args = append(args, filter.StationID)
	}
	return base, args
}
