// Package money provides an exact monetary amount type.
//
// Amounts are stored as an integer count of currency subunits (cents), so
// arithmetic and equality are exact. Floating point only appears at the JSON
// boundary, where values are rounded to the nearest subunit on the way in.
// The system is single-currency, so there is no currency tag.
package money

import (
	"fmt"
	"math"
	"strconv"
)

// subunits per major currency unit.
const scale = 100

// Money is an amount in currency subunits.
type Money int64

// FromFloat converts a major-unit float (e.g. a JSON number) to Money,
// rounding to the nearest subunit. Anything within half a subunit of an
// integral amount collapses onto it, which is the only drift tolerance the
// system allows.
func FromFloat(v float64) Money {
	return Money(math.Round(v * scale))
}

// Float returns the amount in major units.
func (m Money) Float() float64 {
	return float64(m) / scale
}

// Add returns m + other.
func (m Money) Add(other Money) Money { return m + other }

// Sub returns m - other.
func (m Money) Sub(other Money) Money { return m - other }

// Neg returns the negated amount.
func (m Money) Neg() Money { return -m }

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool { return m > 0 }

// DivMod splits the amount into n equal shares plus the leftover subunits
// that integer division cannot distribute. n must be positive.
func (m Money) DivMod(n int) (share Money, leftover int64) {
	if n <= 0 {
		panic("money: non-positive divisor")
	}
	return m / Money(n), int64(m) % int64(n)
}

// Sum adds up a list of amounts.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}

// String renders the amount in major units with two decimals, e.g. "140.00".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/scale, v%scale)
}

// MarshalJSON encodes the amount as a major-unit JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float(), 'f', -1, 64)), nil
}

// UnmarshalJSON decodes a major-unit JSON number, rounding to the nearest
// subunit.
func (m *Money) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("money: invalid amount %q: %w", data, err)
	}
	*m = FromFloat(v)
	return nil
}
