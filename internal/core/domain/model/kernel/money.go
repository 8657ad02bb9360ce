package kernel

import (
	"fmt"

	"hawker/internal/pkg/errs"
	"hawker/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrMoneyIsNotConstructed is returned when validating a zero-value Money.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError(
	"money must be created via NewMoney, MoneyFromString or MoneyFromFloat")

// ErrNegativeBalance is returned by Sub when the subtraction would produce a
// negative amount. Balances never go below zero; callers that hit this during
// a debit translate it into an insufficient-funds outcome.
var ErrNegativeBalance = errs.NewValueIsInvalidError("amount would become negative")

// Money is a non-negative fixed-point currency amount with two decimal
// places. Amounts are rounded half-up to cents at construction, so arithmetic
// on Money values never accumulates sub-cent residue.
//
// Signed amounts (ledger debits) are represented at the edges as a Money plus
// a direction, never as negative Money.
type Money struct {
	amount decimal.Decimal
	guard  guard.ConstructorGuard
}

// NewMoney creates a Money from a decimal, rounding to two places.
// Negative amounts are rejected.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%s is negative", amount))
	}
	return Money{
		amount: amount.Round(2),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// MoneyFromString parses a decimal string such as "10.00".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d)
}

// MoneyFromFloat converts a float64 amount. Used at JSON boundaries where
// collaborators carry amounts as numbers.
func MoneyFromFloat(f float64) (Money, error) {
	return NewMoney(decimal.NewFromFloat(f))
}

// Zero returns the zero amount.
func Zero() Money {
	m, _ := NewMoney(decimal.Zero)
	return m
}

// Validate checks that the Money was created through a constructor.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

// Amount returns the underlying decimal.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Float64 returns the amount as a float64 for JSON serialization.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) (Money, error) {
	if err := errorsJoin(m, other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Add(other.amount))
}

// Sub returns m minus other. It fails with ErrNegativeBalance when the result
// would be negative; there is no implicit overdraft.
func (m Money) Sub(other Money) (Money, error) {
	if err := errorsJoin(m, other); err != nil {
		return Money{}, err
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, ErrNegativeBalance
	}
	return NewMoney(result)
}

// LessThan reports whether m is strictly smaller than other.
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// IsEqual reports whether the two amounts are numerically equal.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String formats the amount with two decimal places, e.g. "10.00".
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

func errorsJoin(a, b Money) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return b.Validate()
}
