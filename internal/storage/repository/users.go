package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/partner-portal/internal/models"
)

// RegisterPartner в одной транзакции создаёт неактивную учётную запись без
// пароля и профиль партнёра. Возвращает ErrAlreadyExists, если почта занята.
func (s *Storage) RegisterPartner(ctx context.Context, user models.User, partner models.Partner) (*models.Partner, error) {
	const op = "storage.RegisterPartner"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, is_active)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		user.Email, user.PasswordHash, user.IsActive).Scan(&partner.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("%s: insert user: %w", op, err)
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO partners (user_id, first_name, last_name, middle_name, phone, inn,
		                       company_name, contract_number)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, debt, date_registered`,
		partner.UserID, partner.FirstName, partner.LastName, partner.MiddleName, partner.Phone,
		partner.INN, partner.CompanyName, partner.ContractNumber,
	).Scan(&partner.ID, &partner.Debt, &partner.DateRegistered)
	if err != nil {
		return nil, fmt.Errorf("%s: insert partner: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}
	partner.Email = user.Email
	partner.Commission = decimal.NullDecimal{}
	return &partner, nil
}

// GetUserByEmail возвращает учётную запись по почте.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	u := &models.User{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, email, password_hash, is_active, created_at
		 FROM users
		 WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ActivateUser задаёт пароль и включает учётную запись.
func (s *Storage) ActivateUser(ctx context.Context, email, passwordHash string) error {
	const op = "storage.ActivateUser"
	return s.execOne(ctx, op,
		`UPDATE users SET password_hash = $2, is_active = TRUE WHERE email = $1`,
		email, passwordHash)
}

// DeactivateUser выключает учётную запись.
func (s *Storage) DeactivateUser(ctx context.Context, email string) error {
	const op = "storage.DeactivateUser"
	return s.execOne(ctx, op, `UPDATE users SET is_active = FALSE WHERE email = $1`, email)
}

func (s *Storage) execOne(ctx context.Context, op, query string, args ...any) error {
	if err := ctxDone(ctx, op); err != nil {
		return err
	}
	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
