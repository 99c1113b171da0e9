// Package auth регистрирует партнёров и выдаёт токены доступа.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/partner-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/partner-portal/internal/lib/password"
	"github.com/magabrotheeeer/partner-portal/internal/models"
	"github.com/magabrotheeeer/partner-portal/internal/storage/repository"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactive           = errors.New("user is not activated")
)

// UserRepository — хранилище учётных записей и профилей.
type UserRepository interface {
	RegisterPartner(ctx context.Context, user models.User, partner models.Partner) (*models.Partner, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetPartnerByUserID(ctx context.Context, userID int64) (*models.Partner, error)
}

// Service отвечает за регистрацию и вход.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

func New(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создаёт заявку партнёра: неактивную учётную запись без пароля
// и профиль без комиссии.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.Partner, error) {
	const op = "auth.Register"
	user := models.User{Email: normalizeEmail(req.Email)}
	partner := models.Partner{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		MiddleName:     req.MiddleName,
		Phone:          req.Phone,
		INN:            req.INN,
		CompanyName:    req.CompanyName,
		ContractNumber: req.ContractNumber,
	}

	p, err := s.users.RegisterPartner(ctx, user, partner)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserExists)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Login проверяет пароль и выдаёт JWT с идентификаторами пользователя и партнёра.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, error) {
	const op = "auth.Login"
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if !user.IsActive {
		return "", fmt.Errorf("%s: %w", op, ErrInactive)
	}

	identity := jwt.Identity{UserID: user.ID, Email: user.Email}
	partner, err := s.users.GetPartnerByUserID(ctx, user.ID)
	switch {
	case err == nil:
		identity.PartnerID = partner.ID
	case errors.Is(err, repository.ErrNotFound):
	default:
		return "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(identity)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
