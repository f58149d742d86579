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

var _ repository.CardProductRepository = (*CardProductRepo)(nil)

// CardProductRepo implementación de CardProductRepository sobre PostgreSQL (usable con pool o tx).
type CardProductRepo struct {
	q Querier
}

// NewCardProductRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewCardProductRepository(q Querier) *CardProductRepo {
	return &CardProductRepo{q: q}
}

const productColumns = `id, category_id, type_id, serial_template, total_quota,
	validity_months, price, program_type, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.CardProduct, error) {
	var p entity.CardProduct
	err := row.Scan(
		&p.ID, &p.CategoryID, &p.TypeID, &p.SerialTemplate, &p.TotalQuota,
		&p.ValidityMonths, &p.Price, &p.ProgramType, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un producto. El par (category_id, type_id) es único.
func (r *CardProductRepo) Create(product *entity.CardProduct) error {
	query := `
		INSERT INTO card_products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.CategoryID, product.TypeID, product.SerialTemplate, product.TotalQuota,
		product.ValidityMonths, product.Price, product.ProgramType, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto. Devuelve nil si no existe.
func (r *CardProductRepo) GetByID(id string) (*entity.CardProduct, error) {
	query := `SELECT ` + productColumns + ` FROM card_products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByCategoryAndType obtiene el producto del par categoría+tipo. Devuelve nil si no existe.
func (r *CardProductRepo) GetByCategoryAndType(categoryID, typeID string) (*entity.CardProduct, error) {
	query := `SELECT ` + productColumns + ` FROM card_products WHERE category_id = $1 AND type_id = $2`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, categoryID, typeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by category and type: %w", err)
	}
	return p, nil
}

// List lista productos con paginación.
func (r *CardProductRepo) List(limit, offset int) ([]*entity.CardProduct, error) {
	query := `SELECT ` + productColumns + ` FROM card_products ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*entity.CardProduct
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
