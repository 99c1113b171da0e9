// Package catalog описывает каталог тарифов, полученный от сервиса оформления
// подписок. Каталог строится заново на каждый запрос и после создания не меняется.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound возвращается Lookup для неизвестного кода тарифа.
	ErrNotFound = errors.New("tariff not found")
	// ErrDuplicateCode возвращается New, если код тарифа встречается дважды.
	ErrDuplicateCode = errors.New("duplicate tariff code")
	// ErrEmptyCode возвращается New для тарифа без кода.
	ErrEmptyCode = errors.New("empty tariff code")
)

// QuotaDefinition — квота тарифа и количество, включённое в базовую цену.
type QuotaDefinition struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Tariff — тарифный план.
type Tariff struct {
	Code    string            `json:"code"`
	Name    string            `json:"name"`
	Price   decimal.Decimal   `json:"price"`
	Periods []int             `json:"periods,omitempty"` // Предлагаемые периоды в месяцах, по возрастанию
	Quotas  []QuotaDefinition `json:"quotas"`
}

// Quota ищет определение квоты по коду.
func (t Tariff) Quota(code string) (QuotaDefinition, bool) {
	for _, q := range t.Quotas {
		if q.Code == code {
			return q, true
		}
	}
	return QuotaDefinition{}, false
}

// OffersPeriod сообщает, предлагает ли тариф период в months месяцев.
// Тариф без списка периодов принимает любой период.
func (t Tariff) OffersPeriod(months int) bool {
	if len(t.Periods) == 0 {
		return true
	}
	return slices.Contains(t.Periods, months)
}

func (t Tariff) clone() Tariff {
	t.Periods = slices.Clone(t.Periods)
	t.Quotas = slices.Clone(t.Quotas)
	return t
}

// Catalog — неизменяемый набор тарифов с поиском по коду.
type Catalog struct {
	tariffs []Tariff
	index   map[string]int
}

// New строит каталог, сохраняя порядок тарифов.
func New(tariffs []Tariff) (*Catalog, error) {
	const op = "catalog.New"

	c := &Catalog{
		tariffs: make([]Tariff, 0, len(tariffs)),
		index:   make(map[string]int, len(tariffs)),
	}
	for _, t := range tariffs {
		if t.Code == "" {
			return nil, fmt.Errorf("%s: %w", op, ErrEmptyCode)
		}
		if _, ok := c.index[t.Code]; ok {
			return nil, fmt.Errorf("%s: %w: %s", op, ErrDuplicateCode, t.Code)
		}
		c.index[t.Code] = len(c.tariffs)
		c.tariffs = append(c.tariffs, t.clone())
	}
	return c, nil
}

// Lookup возвращает тариф с точно совпадающим кодом.
func (c *Catalog) Lookup(code string) (Tariff, error) {
	i, ok := c.index[code]
	if !ok {
		return Tariff{}, fmt.Errorf("%w: %q", ErrNotFound, code)
	}
	return c.tariffs[i].clone(), nil
}

// Tariffs возвращает копию списка тарифов в исходном порядке.
func (c *Catalog) Tariffs() []Tariff {
	out := make([]Tariff, len(c.tariffs))
	for i, t := range c.tariffs {
		out[i] = t.clone()
	}
	return out
}

// Len возвращает количество тарифов.
func (c *Catalog) Len() int {
	return len(c.tariffs)
}
