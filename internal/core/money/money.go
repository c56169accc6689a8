package money

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is an amount in the smallest currency unit (centavos). All totals,
// discounts and prices are computed in Cents; conversion to reais happens
// only when formatting.
type Cents int64

var hundred = decimal.NewFromInt(100)

// Times multiplies a unit price by a quantity.
func (c Cents) Times(quantity int) Cents {
	return c * Cents(quantity)
}

// NonNegative clamps c to zero.
func (c Cents) NonNegative() Cents {
	if c < 0 {
		return 0
	}
	return c
}

// Decimal returns the amount in reais.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats c as Brazilian reais, e.g. "R$ 1.234,56".
func (c Cents) String() string {
	return Format(c)
}

// Format renders an amount the way the storefront shows prices.
func Format(c Cents) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}

	fixed := c.Decimal().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	return fmt.Sprintf("%sR$ %s,%s", sign, b.String(), frac)
}

// Percentage returns floor(c * pct / 100).
func Percentage(c Cents, pct decimal.Decimal) Cents {
	return Cents(decimal.NewFromInt(int64(c)).Mul(pct).Div(hundred).Floor().IntPart())
}

// UnmarshalJSON accepts numbers and numeric strings, since the backend
// serializes some integer columns as strings.
func (c *Cents) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		*c = 0
		return nil
	}

	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("money: invalid amount %s: %w", data, err)
	}

	*c = Cents(d.Round(0).IntPart())
	return nil
}
