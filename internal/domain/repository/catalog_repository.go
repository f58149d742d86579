package repository

import "github.com/railops/cardstock-api/internal/domain/entity"

// CardCategoryRepository puerto de persistencia para CardCategory (DIP).
type CardCategoryRepository interface {
	Create(category *entity.CardCategory) error
	GetByID(id string) (*entity.CardCategory, error)
	List(limit, offset int) ([]*entity.CardCategory, error)
}

// CardTypeRepository puerto de persistencia para CardType (DIP).
type CardTypeRepository interface {
	Create(cardType *entity.CardType) error
	GetByID(id string) (*entity.CardType, error)
	List(limit, offset int) ([]*entity.CardType, error)
}
