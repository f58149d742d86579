package repository

import "github.com/railops/cardstock-api/internal/domain/entity"

// UserRepository puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
