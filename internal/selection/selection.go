// Package selection проверяет выбор партнёра (тариф, период, квоты) по каталогу
// тарифов и вычисляет дополнительные квоты сверх включённых в тариф.
//
// Набор полей квот не фиксирован: правила строятся заново для каждого тарифа
// из его определений квот. Одна и та же функция Validate используется и при
// расчёте стоимости, и при оформлении, поэтому этапы не могут разойтись.
package selection

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/partner-portal/internal/catalog"
)

var (
	ErrInvalidField  = errors.New("invalid selection field")
	ErrInvalidTariff = errors.New("invalid tariff")
	ErrInvalidPeriod = errors.New("invalid period")
	ErrInvalidQuota  = errors.New("invalid quota")
)

// QuotaRule — правило проверки количества по каждой квоте тарифа.
const QuotaRule = "required,min=1"

var validate = validator.New()

// Selection — данные формы оформления подписки.
type Selection struct {
	TariffCode  string         `json:"tariff" validate:"required"`
	Period      int            `json:"period" validate:"required,gt=0"`
	ClientEmail string         `json:"client_email" validate:"required,email"`
	Quotas      map[string]int `json:"quotas"`
}

// Validated — выбор, прошедший проверку.
//
// Quotas хранит запрошенные количества целиком, ExtraQuotas только
// превышение над включённым в тариф количеством.
type Validated struct {
	Selection
	Tariff      catalog.Tariff
	ExtraQuotas map[string]int
}

// Rules строит правила проверки квот для тарифа: код квоты -> тег валидатора.
func Rules(t catalog.Tariff) map[string]string {
	rules := make(map[string]string, len(t.Quotas))
	for _, q := range t.Quotas {
		rules[q.Code] = QuotaRule
	}
	return rules
}

// Validate проверяет выбор по каталогу. Функция не обращается к сети и не
// меняет аргументы.
func Validate(sel Selection, c *catalog.Catalog) (Validated, error) {
	if err := validate.Struct(sel); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return Validated{}, fmt.Errorf("%w: %s", ErrInvalidField, verrs[0].Field())
		}
		return Validated{}, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}

	tariff, err := c.Lookup(sel.TariffCode)
	if err != nil {
		return Validated{}, fmt.Errorf("%w: %q", ErrInvalidTariff, sel.TariffCode)
	}

	if !tariff.OffersPeriod(sel.Period) {
		return Validated{}, fmt.Errorf("%w: %d months is not offered by %q", ErrInvalidPeriod, sel.Period, tariff.Code)
	}

	rules := Rules(tariff)
	for _, code := range slices.Sorted(maps.Keys(sel.Quotas)) {
		if _, ok := rules[code]; !ok {
			return Validated{}, fmt.Errorf("%w: unknown quota %q", ErrInvalidQuota, code)
		}
	}

	extra := make(map[string]int)
	for _, q := range tariff.Quotas {
		requested := sel.Quotas[q.Code]
		if err := validate.Var(requested, rules[q.Code]); err != nil {
			return Validated{}, fmt.Errorf("%w: %q must be a positive integer", ErrInvalidQuota, q.Code)
		}
		if diff := requested - q.Quantity; diff > 0 {
			extra[q.Code] = diff
		}
	}

	sel.Quotas = maps.Clone(sel.Quotas)
	return Validated{
		Selection:   sel,
		Tariff:      tariff,
		ExtraQuotas: extra,
	}, nil
}
