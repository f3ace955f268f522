// internal/pkg/money/money.go
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value in cents. All prices, charges and totals are
// carried as Amount; decimal.Decimal is only used at the edges (parsing client
// input) and for rate multiplication.
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

// Max is the largest amount accepted from client input: one billion euros.
// Sums of bounded amounts stay far away from int64 overflow.
const Max Amount = 1_000_000_000_00

var (
	// ErrOutOfRange is returned for amounts beyond Max in either direction.
	ErrOutOfRange = errors.New("amount out of range")
	// ErrPrecision is returned for amounts with fractions of a cent.
	ErrPrecision = errors.New("amount has more than two decimal places")
)

var (
	hundred    = decimal.NewFromInt(100)
	maxDecimal = decimal.New(int64(Max), -2)
)

// FromCents returns an Amount of c cents.
func FromCents(c int64) Amount {
	return Amount(c)
}

// FromDecimal converts a value in euros to cents, rounding half-up to the
// cent. d must be within Max; use Exact for untrusted input.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount(d.Mul(hundred).Round(0).IntPart())
}

// Exact converts d to cents, rejecting values beyond Max and values with
// fractions of a cent. Trailing zeros ("12.500") are fine.
func Exact(d decimal.Decimal) (Amount, error) {
	if d.Abs().GreaterThan(maxDecimal) {
		return 0, ErrOutOfRange
	}
	if !d.Equal(d.Truncate(2)) {
		return 0, ErrPrecision
	}
	return FromDecimal(d), nil
}

// Parse parses a decimal string such as "12.50".
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	a, err := Exact(d)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return a, nil
}

// MustParse is Parse that panics. Used for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Cents returns the raw number of cents.
func (a Amount) Cents() int64 {
	return int64(a)
}

// Decimal returns the amount in euros as an exact decimal.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// Float64 returns the amount in euros. Only for display surfaces that
// historically emitted JSON numbers.
func (a Amount) Float64() float64 {
	f, _ := a.Decimal().Float64()
	return f
}

// Times multiplies by an integer quantity. No rounding is involved.
func (a Amount) Times(qty int) Amount {
	return a * Amount(qty)
}

// MulRate multiplies by rate (e.g. 0.21) and rounds half-up to the cent.
func (a Amount) MulRate(rate decimal.Decimal) Amount {
	return Amount(decimal.NewFromInt(int64(a)).Mul(rate).Round(0).IntPart())
}

// Percent returns pct percent of the amount, rounded half-up to the cent.
func (a Amount) Percent(pct decimal.Decimal) Amount {
	return a.MulRate(pct.Div(hundred))
}

// String renders the amount with exactly two decimals, e.g. "36.30".
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// MarshalJSON renders the amount as a quoted two-decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON number (12.5) or a string ("12.50").
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	v, err := Exact(d)
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	*a = v
	return nil
}
