package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/partner-portal/internal/models"
)

const partnerColumns = `p.id, p.user_id, u.email, u.is_active, p.first_name, p.last_name, p.middle_name,
	p.phone, p.inn, p.company_name, p.contract_number, p.debt, p.commission, p.date_registered`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPartner(row rowScanner) (*models.Partner, error) {
	p := &models.Partner{}
	err := row.Scan(&p.ID, &p.UserID, &p.Email, &p.Active, &p.FirstName, &p.LastName, &p.MiddleName,
		&p.Phone, &p.INN, &p.CompanyName, &p.ContractNumber, &p.Debt, &p.Commission, &p.DateRegistered)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetPartner возвращает профиль партнёра по его ID.
func (s *Storage) GetPartner(ctx context.Context, partnerID int64) (*models.Partner, error) {
	const op = "storage.GetPartner"
	return s.getPartner(ctx, op, `p.id = $1`, partnerID)
}

// GetPartnerByUserID возвращает профиль, привязанный к учётной записи.
func (s *Storage) GetPartnerByUserID(ctx context.Context, userID int64) (*models.Partner, error) {
	const op = "storage.GetPartnerByUserID"
	return s.getPartner(ctx, op, `p.user_id = $1`, userID)
}

func (s *Storage) getPartner(ctx context.Context, op, where string, arg any) (*models.Partner, error) {
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}
	p, err := scanPartner(s.DB.QueryRowContext(ctx,
		`SELECT `+partnerColumns+`
		 FROM partners p
		 JOIN users u ON u.id = p.user_id
		 WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// SetCommission задаёт процент комиссии партнёру учётной записи email.
func (s *Storage) SetCommission(ctx context.Context, email string, pct decimal.Decimal) error {
	const op = "storage.SetCommission"
	return s.execOne(ctx, op,
		`UPDATE partners SET commission = $2
		 WHERE user_id = (SELECT id FROM users WHERE email = $1)`,
		email, pct)
}

// OverallStats считает число продаж, их сумму и заработок партнёра.
// Заработок по каждой продаже округляется до копеек.
func (s *Storage) OverallStats(ctx context.Context, partnerID int64) (models.OverallStats, error) {
	const op = "storage.OverallStats"
	var stats models.OverallStats
	if err := ctxDone(ctx, op); err != nil {
		return stats, err
	}

	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(cost_value), 0),
		        COALESCE(SUM(ROUND(cost_value * commission / 100, 2)), 0)
		 FROM subscriptions
		 WHERE partner_id = $1`, partnerID).
		Scan(&stats.Count, &stats.Sales, &stats.Revenue)
	if err != nil {
		return stats, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}
