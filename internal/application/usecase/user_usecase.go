package usecase

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/movelaria/estoque-api/internal/application/dto"
	"github.com/movelaria/estoque-api/internal/domain"
	"github.com/movelaria/estoque-api/internal/domain/entity"
	"github.com/movelaria/estoque-api/internal/domain/repository"
	"github.com/movelaria/estoque-api/pkg/jwt"
)

// UserUseCase cadastro e autenticação de usuários.
type UserUseCase struct {
	repo          repository.UserRepository
	jwtSecret     string
	jwtIssuer     string
	jwtExpMinutes int
}

// NewUserUseCase constrói o caso de uso.
func NewUserUseCase(repo repository.UserRepository, jwtSecret, jwtIssuer string, jwtExpMinutes int) *UserUseCase {
	return &UserUseCase{repo: repo, jwtSecret: jwtSecret, jwtIssuer: jwtIssuer, jwtExpMinutes: jwtExpMinutes}
}

// Register cadastra um usuário com a senha em hash bcrypt.
func (uc *UserUseCase) Register(in dto.RegisterRequest) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login valida as credenciais e emite um JWT com id e papel do usuário.
// Credencial incorreta devolve o mesmo erro que usuário inexistente.
func (uc *UserUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.repo.GetByEmail(in.Email)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtSecret, user.ID, user.Role, uc.jwtIssuer, uc.jwtExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *toUserResponse(user)}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
