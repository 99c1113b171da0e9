package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionCreatedEvent публикуется после фиксации подписки в базе.
type SubscriptionCreatedEvent struct {
	EventID        string          `json:"event_id"`
	SubscriptionID int64           `json:"subscription_id"`
	PartnerID      int64           `json:"partner_id"`
	PartnerEmail   string          `json:"partner_email"`
	ClientEmail    string          `json:"client_email"`
	TariffName     string          `json:"tariff_name"`
	Period         int             `json:"period"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	CreatedAt      time.Time       `json:"created_at"`
}
