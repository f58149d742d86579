package repository

import "github.com/railops/cardstock-api/internal/domain/entity"

// CardProductRepository puerto de persistencia para CardProduct (DIP).
type CardProductRepository interface {
	Create(product *entity.CardProduct) error
	GetByID(id string) (*entity.CardProduct, error)
	GetByCategoryAndType(categoryID, typeID string) (*entity.CardProduct, error)
	List(limit, offset int) ([]*entity.CardProduct, error)
}
