// Package ledger считает изменение задолженности партнёра и его заработок
// по оформленным подпискам. Вся арифметика ведётся в точных десятичных числах.
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidCommission возвращается для процента вне 0..100 или с лишними знаками.
var ErrInvalidCommission = errors.New("invalid commission")

// DebtPlaces — точность столбца задолженности.
const DebtPlaces = 2

var hundred = decimal.NewFromInt(100)

// Apply возвращает задолженность после продажи подписки за price при комиссии
// commissionPct процентов: debt + price * (100 - pct) / 100.
// Деление на 100 выполняется сдвигом запятой, результат округляется
// банковским округлением до копеек.
func Apply(debt, price, commissionPct decimal.Decimal) decimal.Decimal {
	share := price.Mul(hundred.Sub(commissionPct)).Shift(-2)
	return debt.Add(share).RoundBank(DebtPlaces)
}

// Revenue возвращает заработок партнёра с продажи: cost * pct / 100.
func Revenue(cost, commissionPct decimal.Decimal) decimal.Decimal {
	return cost.Mul(commissionPct).Shift(-2).RoundBank(DebtPlaces)
}

// ValidateCommission проверяет, что процент лежит в 0..100 и имеет не больше
// одного знака после запятой.
func ValidateCommission(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return fmt.Errorf("%w: %s is out of range 0..100", ErrInvalidCommission, pct)
	}
	if !pct.Equal(pct.Truncate(1)) {
		return fmt.Errorf("%w: %s has more than one decimal digit", ErrInvalidCommission, pct)
	}
	return nil
}
