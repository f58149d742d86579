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

var _ repository.CardCategoryRepository = (*CardCategoryRepo)(nil)
var _ repository.CardTypeRepository = (*CardTypeRepo)(nil)

// CardCategoryRepo implementación de CardCategoryRepository sobre PostgreSQL.
type CardCategoryRepo struct {
	q Querier
}

// NewCardCategoryRepository construye el adaptador de categorías. Pasar pool o tx (Querier).
func NewCardCategoryRepository(q Querier) *CardCategoryRepo {
	return &CardCategoryRepo{q: q}
}

func (r *CardCategoryRepo) Create(category *entity.CardCategory) error {
	query := `
		INSERT INTO card_categories (id, category_name, category_code, program_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		category.ID, category.CategoryName, category.CategoryCode, category.ProgramType,
		category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CardCategoryRepo) GetByID(id string) (*entity.CardCategory, error) {
	query := `SELECT id, category_name, category_code, program_type, created_at, updated_at
		FROM card_categories WHERE id = $1`
	var c entity.CardCategory
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.CategoryName, &c.CategoryCode, &c.ProgramType, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *CardCategoryRepo) List(limit, offset int) ([]*entity.CardCategory, error) {
	query := `SELECT id, category_name, category_code, program_type, created_at, updated_at
		FROM card_categories ORDER BY category_name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []*entity.CardCategory
	for rows.Next() {
		var c entity.CardCategory
		if err := rows.Scan(&c.ID, &c.CategoryName, &c.CategoryCode, &c.ProgramType, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// CardTypeRepo implementación de CardTypeRepository sobre PostgreSQL.
type CardTypeRepo struct {
	q Querier
}

// NewCardTypeRepository construye el adaptador de tipos. Pasar pool o tx (Querier).
func NewCardTypeRepository(q Querier) *CardTypeRepo {
	return &CardTypeRepo{q: q}
}

func (r *CardTypeRepo) Create(cardType *entity.CardType) error {
	query := `
		INSERT INTO card_types (id, type_name, type_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		cardType.ID, cardType.TypeName, cardType.TypeCode, cardType.CreatedAt, cardType.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert card type: %w", err)
	}
	return nil
}

func (r *CardTypeRepo) GetByID(id string) (*entity.CardType, error) {
	query := `SELECT id, type_name, type_code, created_at, updated_at FROM card_types WHERE id = $1`
	var t entity.CardType
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.TypeName, &t.TypeCode, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get card type: %w", err)
	}
	return &t, nil
}

func (r *CardTypeRepo) List(limit, offset int) ([]*entity.CardType, error) {
	query := `SELECT id, type_name, type_code, created_at, updated_at
		FROM card_types ORDER BY type_name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list card types: %w", err)
	}
	defer rows.Close()

	var out []*entity.CardType
	for rows.Next() {
		var t entity.CardType
		if err := rows.Scan(&t.ID, &t.TypeName, &t.TypeCode, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan card type: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
