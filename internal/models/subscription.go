package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionQuotas — квоты, с которыми оформлена подписка.
type SubscriptionQuotas struct {
	Requested map[string]int `json:"requested"`
	Extra     map[string]int `json:"extra"`
}

// Subscription — подписка, оформленная партнёром для клиента.
//
// Commission хранит процент партнёра на момент оформления, поэтому
// последующее изменение комиссии не меняет выручку по старым продажам.
type Subscription struct {
	ID          int64
	PartnerID   int64
	ClientEmail string
	TariffCode  string
	TariffName  string
	Period      int
	CostValue   decimal.Decimal
	Commission  decimal.Decimal
	Quotas      SubscriptionQuotas
	CreatedAt   time.Time
}

// HistoryItem — строка истории продаж партнёра.
type HistoryItem struct {
	ID          int64           `json:"id"`
	ClientEmail string          `json:"client_email"`
	TariffName  string          `json:"tariff_name"`
	Period      int             `json:"period"`
	CostValue   decimal.Decimal `json:"cost_value"`
	Commission  decimal.Decimal `json:"commission"`
	Revenue     decimal.Decimal `json:"revenue"`
	CreatedAt   time.Time       `json:"created_at"`
}
