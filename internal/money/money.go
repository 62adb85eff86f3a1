package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// Places and MaxDigits mirror the NUMERIC(10,2) storage columns.
	Places    = 2
	MaxDigits = 10
)

var (
	ErrInvalidMoney  = errors.New("invalid money amount")
	ErrTooManyPlaces = fmt.Errorf("%w: more than %d decimal places", ErrInvalidMoney, Places)
	ErrTooLarge      = fmt.Errorf("%w: more than %d digits", ErrInvalidMoney, MaxDigits)

	// MaxAmount is the exclusive upper bound of a storable amount.
	MaxAmount = decimal.New(1, MaxDigits-Places)
)

// Parse converts user-entered text into an exact decimal. Anything that is not a
// plain base-10 number with at most two places is rejected rather than rounded.
func Parse(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, ErrInvalidMoney
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidMoney, raw)
	}
	if !d.Equal(d.Truncate(Places)) {
		return decimal.Zero, ErrTooManyPlaces
	}
	if d.Abs().GreaterThanOrEqual(MaxAmount) {
		return decimal.Zero, ErrTooLarge
	}
	return d, nil
}

// Format renders d with exactly two decimal places, e.g. "10.50".
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// Amount is a stored monetary value. It serialises as a two-place decimal string
// so clients never see binary floating point.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// MustAmount parses s and panics on failure. Intended for literals.
func MustAmount(s string) Amount {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return Amount{Decimal: d}
}

func (a Amount) String() string {
	return Format(a.Decimal)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	var raw Raw
	if err := raw.UnmarshalJSON(b); err != nil {
		return err
	}
	d, err := raw.Decimal()
	if err != nil {
		return err
	}
	a.Decimal = d
	return nil
}

// Raw holds the literal text of an amount taken from a request body, accepting
// either a JSON number or a JSON string. Validation happens later, per field.
type Raw string

func (r *Raw) UnmarshalJSON(b []byte) error {
	text := strings.TrimSpace(string(b))
	if text == "null" {
		*r = ""
		return nil
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = Raw(s)
		return nil
	}
	*r = Raw(text)
	return nil
}

// Present reports whether the field carried any value at all.
func (r Raw) Present() bool {
	return strings.TrimSpace(string(r)) != ""
}

func (r Raw) Decimal() (decimal.Decimal, error) {
	return Parse(string(r))
}
