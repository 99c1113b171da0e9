package selection

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/partner-portal/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Tariff{
		{
			Code:    "business",
			Name:    "Бизнес",
			Price:   decimal.NewFromInt(24990),
			Periods: []int{1, 12},
			Quotas: []catalog.QuotaDefinition{
				{Code: "users", Name: "Пользователи", Quantity: 5},
				{Code: "legal_entities", Name: "Юр. лица", Quantity: 3},
			},
		},
		{
			Code:   "start",
			Name:   "Старт",
			Price:  decimal.NewFromInt(9990),
			Quotas: []catalog.QuotaDefinition{{Code: "users", Name: "Пользователи", Quantity: 1}},
		},
	})
	require.NoError(t, err)
	return c
}

func TestRules(t *testing.T) {
	c := testCatalog(t)
	business, err := c.Lookup("business")
	require.NoError(t, err)
	start, err := c.Lookup("start")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"users": QuotaRule, "legal_entities": QuotaRule}, Rules(business))
	assert.Equal(t, map[string]string{"users": QuotaRule}, Rules(start))
}

func TestValidate(t *testing.T) {
	c := testCatalog(t)

	tests := []struct {
		name      string
		sel       Selection
		wantErr   error
		wantExtra map[string]int
	}{
		{
			name: "extra above defaults",
			sel: Selection{
				TariffCode: "business", Period: 12, ClientEmail: "client@example.com",
				Quotas: map[string]int{"users": 6, "legal_entities": 5},
			},
			wantExtra: map[string]int{"users": 1, "legal_entities": 2},
		},
		{
			name: "defaults give no extra",
			sel: Selection{
				TariffCode: "business", Period: 1, ClientEmail: "client@example.com",
				Quotas: map[string]int{"users": 5, "legal_entities": 3},
			},
			wantExtra: map[string]int{},
		},
		{
			name: "below default is accepted without extra",
			sel: Selection{
				TariffCode: "business", Period: 1, ClientEmail: "client@example.com",
				Quotas: map[string]int{"users": 2, "legal_entities": 4},
			},
			wantExtra: map[string]int{"legal_entities": 1},
		},
		{
			name: "tariff without periods accepts any period",
			sel: Selection{
				TariffCode: "start", Period: 7, ClientEmail: "client@example.com",
				Quotas: map[string]int{"users": 1},
			},
			wantExtra: map[string]int{},
		},
		{
			name: "unknown tariff",
			sel: Selection{
				TariffCode: "enterprise", Period: 12, ClientEmail: "client@example.com",
				Quotas: map[string]int{"users": 6},
			},
			wantErr: ErrInvalidTariff,
		},
		{
			name: "period not offered",
			sel: Selection{
				TariffCode: "business", Period: 6, ClientEmail: "client@example.com",
				Quotas: map[string]int{"users": 5, "legal_entities": 3},
			},
			wantErr: ErrInvalidPeriod,
		},
		{
			name: "unknown quota code",
			sel: Selection{
				TariffCode: "start", Period: 1, ClientEmail: "client@example.com",
				Quotas: map[string]int{"users": 1, "legal_entities": 2},
			},
			wantErr: ErrInvalidQuota,
		},
		{
			name: "missing quota",
			sel: Selection{
				TariffCode: "business", Period: 12, ClientEmail: "client@example.com",
				Quotas: map[string]int{"users": 6},
			},
			wantErr: ErrInvalidQuota,
		},
		{
			name: "zero quantity",
			sel: Selection{
				TariffCode: "business", Period: 12, ClientEmail: "client@example.com",
				Quotas: map[string]int{"users": 0, "legal_entities": 3},
			},
			wantErr: ErrInvalidQuota,
		},
		{
			name: "negative quantity",
			sel: Selection{
				TariffCode: "business", Period: 12, ClientEmail: "client@example.com",
				Quotas: map[string]int{"users": -1, "legal_entities": 3},
			},
			wantErr: ErrInvalidQuota,
		},
		{
			name: "bad email",
			sel: Selection{
				TariffCode: "business", Period: 12, ClientEmail: "not-an-email",
				Quotas: map[string]int{"users": 5, "legal_entities": 3},
			},
			wantErr: ErrInvalidField,
		},
		{
			name:    "empty tariff code",
			sel:     Selection{Period: 12, ClientEmail: "client@example.com"},
			wantErr: ErrInvalidField,
		},
		{
			name:    "zero period",
			sel:     Selection{TariffCode: "business", ClientEmail: "client@example.com"},
			wantErr: ErrInvalidField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.sel, c)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExtra, got.ExtraQuotas)
			assert.Equal(t, tt.sel.Quotas, got.Quotas)
			assert.Equal(t, tt.sel.TariffCode, got.Tariff.Code)
		})
	}
}

func TestValidate_DoesNotAliasInput(t *testing.T) {
	c := testCatalog(t)
	sel := Selection{
		TariffCode: "start", Period: 1, ClientEmail: "client@example.com",
		Quotas: map[string]int{"users": 3},
	}

	got, err := Validate(sel, c)
	require.NoError(t, err)

	sel.Quotas["users"] = 100
	assert.Equal(t, 3, got.Quotas["users"])
	assert.Equal(t, 2, got.ExtraQuotas["users"])
}

// Для любых количеств не ниже включённых extra содержит ровно те коды,
// где количество больше включённого, со значением разницы.
func TestValidate_ExtraQuotasProperty(t *testing.T) {
	c := testCatalog(t)
	business, err := c.Lookup("business")
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(42))
	for i := range 200 {
		quotas := map[string]int{}
		want := map[string]int{}
		for _, q := range business.Quotas {
			add := rnd.Intn(4)
			quotas[q.Code] = q.Quantity + add
			if add > 0 {
				want[q.Code] = add
			}
		}

		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			got, err := Validate(Selection{
				TariffCode: "business", Period: 12, ClientEmail: "client@example.com", Quotas: quotas,
			}, c)
			require.NoError(t, err)
			assert.Equal(t, want, got.ExtraQuotas)
		})
	}
}
