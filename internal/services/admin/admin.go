// Package admin — операции администратора над учётными записями партнёров.
package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/partner-portal/internal/ledger"
	"github.com/magabrotheeeer/partner-portal/internal/lib/password"
)

// Repository — изменение учётных записей и профилей.
type Repository interface {
	ActivateUser(ctx context.Context, email, passwordHash string) error
	DeactivateUser(ctx context.Context, email string) error
	SetCommission(ctx context.Context, email string, pct decimal.Decimal) error
}

type Service struct {
	repo Repository
}

func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Activate задаёт пароль и разрешает вход.
func (s *Service) Activate(ctx context.Context, email, rawPassword string) error {
	const op = "admin.Activate"
	hash, err := password.GetHash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.ActivateUser(ctx, normalize(email), hash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Deactivate запрещает вход.
func (s *Service) Deactivate(ctx context.Context, email string) error {
	const op = "admin.Deactivate"
	if err := s.repo.DeactivateUser(ctx, normalize(email)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetCommission задаёт процент комиссии, например "20" или "12.5".
func (s *Service) SetCommission(ctx context.Context, email, value string) error {
	const op = "admin.SetCommission"
	pct, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ledger.ErrInvalidCommission, err)
	}
	if err := ledger.ValidateCommission(pct); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.SetCommission(ctx, normalize(email), pct); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
