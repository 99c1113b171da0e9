package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/partner-portal/internal/models"
)

// BuildFunc получает профиль партнёра, заблокированный до конца транзакции,
// и возвращает запись подписки и новую задолженность партнёра. Ошибка
// BuildFunc откатывает транзакцию.
type BuildFunc = func(partner models.Partner) (models.Subscription, decimal.Decimal, error)

// CreateSubscription атомарно сохраняет подписку и обновляет задолженность
// партнёра. Строка партнёра блокируется SELECT ... FOR UPDATE, поэтому
// параллельные продажи одного партнёра выполняются по очереди.
func (s *Storage) CreateSubscription(ctx context.Context, partnerID int64, build BuildFunc) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	partner, err := scanPartner(tx.QueryRowContext(ctx,
		`SELECT `+partnerColumns+`
		 FROM partners p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.id = $1
		 FOR UPDATE OF p`, partnerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: lock partner: %w", op, err)
	}

	sub, debt, err := build(*partner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub.PartnerID = partnerID

	quotas, err := json.Marshal(sub.Quotas)
	if err != nil {
		return nil, fmt.Errorf("%s: encode quotas: %w", op, err)
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO subscriptions (partner_id, client_email, tariff_code, tariff_name, period,
		                            cost_value, commission, quotas)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		sub.PartnerID, sub.ClientEmail, sub.TariffCode, sub.TariffName, sub.Period,
		sub.CostValue, sub.Commission, string(quotas),
	).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: insert subscription: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE partners SET debt = $2 WHERE id = $1`, partnerID, debt); err != nil {
		return nil, fmt.Errorf("%s: update debt: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}
	return &sub, nil
}

// ListSubscriptions возвращает подписки партнёра, новые первыми.
func (s *Storage) ListSubscriptions(ctx context.Context, partnerID int64, limit, offset int) ([]models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, partner_id, client_email, tariff_code, tariff_name, period,
		        cost_value, commission, quotas, created_at
		 FROM subscriptions
		 WHERE partner_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`, partnerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Subscription
	for rows.Next() {
		var sub models.Subscription
		var quotas []byte
		if err := rows.Scan(&sub.ID, &sub.PartnerID, &sub.ClientEmail, &sub.TariffCode, &sub.TariffName,
			&sub.Period, &sub.CostValue, &sub.Commission, &quotas, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(quotas, &sub.Quotas); err != nil {
			return nil, fmt.Errorf("%s: decode quotas: %w", op, err)
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
