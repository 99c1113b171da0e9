package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/partner-portal/internal/catalog"
)

// SubscriptionRequest — тело запросов расчёта и оформления подписки.
type SubscriptionRequest struct {
	ClientEmail  string         `json:"client_email"`
	Period       int            `json:"period"`
	Tariff       string         `json:"tariff"`
	ExtraQuotas  map[string]int `json:"extra_quotas"`
	ExtraOptions map[string]int `json:"extra_options"`
}

// QuoteTariff — тариф, к которому относится расчёт.
type QuoteTariff struct {
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ExtraQuota — строка расчёта за квоту сверх тарифа.
type ExtraQuota struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Quote — расчёт стоимости от сервиса. TotalPrice считается авторитетным
// и локально не пересчитывается; QuotasSum только сумма строк ExtraQuotas.
type Quote struct {
	TotalPrice  decimal.Decimal `json:"total_price"`
	Period      int             `json:"period"`
	Tariff      QuoteTariff     `json:"tariff"`
	ExtraQuotas []ExtraQuota    `json:"extra_quotas"`
	QuotasSum   decimal.Decimal `json:"quotas_sum"`
}

// Confirmation — ответ на успешное оформление подписки.
type Confirmation struct {
	SubscriptionID string `json:"subscription_id,omitempty"`
	Message        string `json:"message,omitempty"`
}

const maxBodySize = 1 << 20

var validate = validator.New()

type catalogResponse struct {
	Tariffs []tariffDTO `json:"tariffs" validate:"required,dive"`
}

type tariffDTO struct {
	Code    string                     `json:"code" validate:"required"`
	Name    string                     `json:"name" validate:"required"`
	Price   *decimal.Decimal           `json:"price" validate:"required"`
	Pricing map[string]decimal.Decimal `json:"pricing"`
	Quotas  []quotaDTO                 `json:"quotas" validate:"dive"`
}

type quotaDTO struct {
	Code     string `json:"code" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Quantity *int   `json:"quantity" validate:"required,min=0"`
}

type quoteResponse struct {
	Success *bool       `json:"success" validate:"required"`
	Message string      `json:"message"`
	Pricing *pricingDTO `json:"pricing" validate:"-"`
}

type pricingDTO struct {
	TotalPrice  *decimal.Decimal `json:"totalPrice" validate:"required"`
	Period      int              `json:"period"`
	Tariff      *quoteTariffDTO  `json:"tariff" validate:"required"`
	ExtraQuotas []extraQuotaDTO  `json:"extraQuotas" validate:"dive"`
}

type quoteTariffDTO struct {
	Code  string          `json:"code" validate:"required"`
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

type extraQuotaDTO struct {
	Code      string           `json:"code" validate:"required"`
	Name      string           `json:"name"`
	UnitPrice decimal.Decimal  `json:"unitPrice"`
	Price     *decimal.Decimal `json:"price" validate:"required"`
	Quantity  int              `json:"quantity"`
}

type submitResponse struct {
	Success        *bool  `json:"success" validate:"required"`
	Message        string `json:"message"`
	SubscriptionID string `json:"subscription_id"`
}

// decodeJSON читает тело ответа и проверяет обязательные поля.
// Незнакомые поля игнорируются.
func decodeJSON(r io.Reader, dst any) error {
	if err := json.NewDecoder(io.LimitReader(r, maxBodySize)).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrServerError, err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: missing or invalid field %s", ErrServerError, verrs[0].Namespace())
		}
		return fmt.Errorf("%w: %v", ErrServerError, err)
	}
	return nil
}

func decodeCatalog(r io.Reader) (*catalog.Catalog, error) {
	var resp catalogResponse
	if err := decodeJSON(r, &resp); err != nil {
		return nil, err
	}

	tariffs := make([]catalog.Tariff, 0, len(resp.Tariffs))
	for _, t := range resp.Tariffs {
		periods := make([]int, 0, len(t.Pricing))
		for key := range t.Pricing {
			months, err := strconv.Atoi(key)
			if err != nil || months <= 0 {
				return nil, fmt.Errorf("%w: tariff %q has invalid period %q", ErrServerError, t.Code, key)
			}
			periods = append(periods, months)
		}
		slices.Sort(periods)

		quotas := make([]catalog.QuotaDefinition, 0, len(t.Quotas))
		for _, q := range t.Quotas {
			quotas = append(quotas, catalog.QuotaDefinition{Code: q.Code, Name: q.Name, Quantity: *q.Quantity})
		}

		tariffs = append(tariffs, catalog.Tariff{
			Code:    t.Code,
			Name:    t.Name,
			Price:   *t.Price,
			Periods: periods,
			Quotas:  quotas,
		})
	}

	c, err := catalog.New(tariffs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServerError, err)
	}
	return c, nil
}

func decodeQuote(r io.Reader) (*Quote, error) {
	var resp quoteResponse
	if err := decodeJSON(r, &resp); err != nil {
		return nil, err
	}
	if !*resp.Success {
		return nil, newRejected(resp.Message)
	}
	if resp.Pricing == nil {
		return nil, fmt.Errorf("%w: successful response without pricing", ErrServerError)
	}
	if err := validate.Struct(resp.Pricing); err != nil {
		return nil, fmt.Errorf("%w: invalid pricing: %v", ErrServerError, err)
	}

	p := resp.Pricing
	q := &Quote{
		TotalPrice:  *p.TotalPrice,
		Period:      p.Period,
		Tariff:      QuoteTariff{Code: p.Tariff.Code, Name: p.Tariff.Name, Price: p.Tariff.Price},
		ExtraQuotas: make([]ExtraQuota, 0, len(p.ExtraQuotas)),
		QuotasSum:   decimal.Zero,
	}
	for _, eq := range p.ExtraQuotas {
		q.ExtraQuotas = append(q.ExtraQuotas, ExtraQuota{
			Code:      eq.Code,
			Name:      eq.Name,
			UnitPrice: eq.UnitPrice,
			Price:     *eq.Price,
			Quantity:  eq.Quantity,
		})
		q.QuotasSum = q.QuotasSum.Add(*eq.Price)
	}
	return q, nil
}

func decodeConfirmation(r io.Reader) (*Confirmation, error) {
	var resp submitResponse
	if err := decodeJSON(r, &resp); err != nil {
		return nil, err
	}
	if !*resp.Success {
		return nil, newRejected(resp.Message)
	}
	return &Confirmation{SubscriptionID: resp.SubscriptionID, Message: resp.Message}, nil
}
