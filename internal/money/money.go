// Package money converts user-entered amounts into integer minor units (cents).
//
// All monetary values in the service are int64 cents. Parsing never goes through a
// binary floating-point intermediate for string input; numeric input (a JSON number)
// is converted through its shortest decimal representation and rounded half away
// from zero.
package money

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for malformed or non-finite monetary input.
var ErrInvalidAmount = errors.New("invalid amount")

// maxWholeDigits keeps whole*100 comfortably inside int64.
const maxWholeDigits = 15

var amountPattern = regexp.MustCompile(`^[0-9]*(\.[0-9]{1,2})?$`)

var hundred = decimal.NewFromInt(100)

// maxFloatCents bounds numeric input to the same range as string input.
var maxFloatCents = decimal.New(1, maxWholeDigits+2)

// ParseString parses a decimal string such as "12", "12.5", "12.50" or ".5" into cents.
// Signs, exponents, thousands separators and more than two fractional digits are rejected.
// Zero is accepted; callers enforce positivity where it matters.
func ParseString(value string) (int64, error) {
	return parseFixed2(value)
}

// FromFloat converts a finite number to cents, rounding half away from zero.
func FromFloat(value float64) (int64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrInvalidAmount
	}

	cents := decimal.NewFromFloat(value).Mul(hundred).Round(0)
	if cents.Abs().GreaterThanOrEqual(maxFloatCents) {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// ParseAmountToCents accepts either a string or a number and returns cents.
func ParseAmountToCents(value any) (int64, error) {
	switch v := value.(type) {
	case string:
		return ParseString(v)
	case float64:
		return FromFloat(v)
	case float32:
		return FromFloat(float64(v))
	case int:
		return FromFloat(float64(v))
	case int64:
		return FromFloat(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, ErrInvalidAmount
		}
		return FromFloat(f)
	default:
		return 0, ErrInvalidAmount
	}
}

// ParseBasisPoints parses a percentage with at most two decimals ("33.34") into basis
// points (3334). The grammar is the same as ParseString.
func ParseBasisPoints(value string) (int64, error) {
	return parseFixed2(value)
}

// parseFixed2 parses a non-negative decimal with at most two fractional digits into
// an integer scaled by 100.
func parseFixed2(value string) (int64, error) {
	normalized := strings.TrimSpace(value)
	if normalized == "" || normalized == "." || !amountPattern.MatchString(normalized) {
		return 0, ErrInvalidAmount
	}

	whole, fraction, _ := strings.Cut(normalized, ".")
	if len(whole) > maxWholeDigits {
		return 0, ErrInvalidAmount
	}

	var wholeValue int64
	if whole != "" {
		n, err := strconv.ParseInt(whole, 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		wholeValue = n
	}

	fraction += strings.Repeat("0", 2-len(fraction))
	fractionValue, err := strconv.ParseInt(fraction, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	return wholeValue*100 + fractionValue, nil
}

// Amount is a request field that accepts a JSON string or a JSON number.
// The raw token is kept so validation happens in the service, not in the decoder.
type Amount struct {
	raw json.RawMessage
}

// NewAmount builds an Amount from a string, mostly for tests and internal callers.
func NewAmount(value string) Amount {
	b, _ := json.Marshal(value)
	return Amount{raw: b}
}

// UnmarshalJSON stores the raw token.
func (a *Amount) UnmarshalJSON(data []byte) error {
	a.raw = append(a.raw[:0], data...)
	return nil
}

// MarshalJSON writes the raw token back, or null when unset.
func (a Amount) MarshalJSON() ([]byte, error) {
	if len(a.raw) == 0 {
		return []byte("null"), nil
	}
	return a.raw, nil
}

// IsZero reports whether the field was absent or null.
func (a Amount) IsZero() bool {
	return len(a.raw) == 0 || bytes.Equal(bytes.TrimSpace(a.raw), []byte("null"))
}

// Cents parses the stored token.
func (a Amount) Cents() (int64, error) {
	if a.IsZero() {
		return 0, ErrInvalidAmount
	}

	trimmed := bytes.TrimSpace(a.raw)
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0, ErrInvalidAmount
		}
		return ParseString(s)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return 0, ErrInvalidAmount
	}
	return ParseAmountToCents(n)
}

// String returns the value as the user typed it: the unquoted string for a
// JSON string, the literal for a number.
func (a Amount) String() string {
	if a.IsZero() {
		return ""
	}
	trimmed := bytes.TrimSpace(a.raw)
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}

// Format renders cents as a plain decimal string with two fractional digits.
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
