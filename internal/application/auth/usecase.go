package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/railops/cardstock-api/internal/application/dto"
	"github.com/railops/cardstock-api/internal/domain"
	"github.com/railops/cardstock-api/internal/domain/entity"
	"github.com/railops/cardstock-api/internal/domain/repository"
	"github.com/railops/cardstock-api/pkg/jwt"
)

// UseCase autenticación y alta de usuarios operativos.
type UseCase struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
}

func NewUseCase(userRepo repository.UserRepository, jwtManager *jwt.Manager) *UseCase {
	return &UseCase{userRepo: userRepo, jwtManager: jwtManager}
}

// Login valida credenciales y emite un token de acceso.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != "active" {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	token, err := uc.jwtManager.Generate(user.ID, user.Email, user.Role, user.StationID)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: toUserResponse(user)}, nil
}

// Register da de alta un usuario. Los operadores de estación requieren
// StationID; los administradores de oficina no llevan estación.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if in.Email == "" || in.Password == "" || in.FullName == "" {
		return nil, domain.ErrInvalidInput
	}
	switch in.Role {
	case entity.RoleAdmin:
		if in.StationID != nil {
			return nil, domain.ErrInvalidInput
		}
	case entity.RoleStation:
		if in.StationID == nil || *in.StationID == "" {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.userRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Role:         in.Role,
		StationID:    in.StationID,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		StationID: u.StationID,
		CreatedAt: u.CreatedAt,
	}
}
