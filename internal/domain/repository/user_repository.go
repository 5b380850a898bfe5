package repository

import "github.com/movelaria/estoque-api/internal/domain/entity"

// UserRepository define a porta de persistência para usuários (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id int64) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
}
