package kernel

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrMoneyIsNotConstructed is returned when a zero Money is used.
	ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("money must be created via NewMoney or ZeroMoney")

	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrMoneyOverflow    = errors.New("money overflow")
)

// minorUnitExponents lists ISO 4217 currencies whose minor unit is not 1/100.
var minorUnitExponents = map[string]int{ //nolint:gochecknoglobals // lookup table
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0, "KMF": 0, "KRW": 0,
	"PYG": 0, "RWF": 0, "UGX": 0, "VND": 0, "VUV": 0, "XAF": 0, "XOF": 0, "XPF": 0,
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
}

const defaultMinorUnitExponent = 2

// Money is an immutable amount in integer minor units (cents for USD, tiyn
// for KZT) together with its ISO 4217 currency code. Arithmetic never leaves
// int64; conversion to a decimal string happens only through Decimal.
type Money struct { //nolint:recvcheck //using for validation
	amount   int64
	currency string
	guard    guard.ConstructorGuard
}

// NewMoney builds an amount of minor units in currency. The currency must be
// a three letter upper-case code.
//
// Example:
//
//	fee, err := kernel.NewMoney(1000, "USD") // 10.00 USD
func NewMoney(minor int64, currency string) (Money, error) {
	m := Money{amount: minor, guard: guard.NewConstructorGuard()}
	if err := m.setCurrency(currency); err != nil {
		return Money{}, err
	}
	return m, nil
}

// ZeroMoney returns 0 in currency, the neutral element for Add and SumMoney.
func ZeroMoney(currency string) (Money, error) {
	return NewMoney(0, currency)
}

// SumMoney adds amounts that must all be in currency. An empty slice sums
// to zero.
func SumMoney(currency string, amounts ...Money) (Money, error) {
	total, err := ZeroMoney(currency)
	if err != nil {
		return Money{}, err
	}

	for _, m := range amounts {
		if total, err = total.Add(m); err != nil {
			return Money{}, err
		}
	}

	return total, nil
}

func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

// Amount returns the value in minor units.
func (m Money) Amount() int64 {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) IsZero() bool {
	return m.amount == 0
}

func (m Money) IsNegative() bool {
	return m.amount < 0
}

// IsEqual reports equal amount and currency.
func (m Money) IsEqual(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}

func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}

	if (other.amount > 0 && m.amount > math.MaxInt64-other.amount) ||
		(other.amount < 0 && m.amount < math.MinInt64-other.amount) {
		return Money{}, ErrMoneyOverflow
	}

	return Money{amount: m.amount + other.amount, currency: m.currency, guard: m.guard}, nil
}

func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	if other.amount == math.MinInt64 {
		return Money{}, ErrMoneyOverflow
	}

	return m.Add(Money{amount: -other.amount, currency: other.currency, guard: other.guard})
}

// ApplyRate returns m × rate rounded half-up (half away from zero) to the
// minor unit. This is the only rounding step in commission maths.
//
// Example:
//
//	gross, _ := kernel.NewMoney(1005, "USD")
//	rate, _ := kernel.ParsePercent("10")
//	commission, _ := gross.ApplyRate(rate) // 101: 100.5 rounds up
func (m Money) ApplyRate(rate Rate) (Money, error) {
	if err := errors.Join(m.Validate(), rate.Validate()); err != nil {
		return Money{}, err
	}

	abs := m.amount
	if abs < 0 {
		if abs == math.MinInt64 {
			return Money{}, ErrMoneyOverflow
		}
		abs = -abs
	}

	bps := rate.BasisPoints()
	if bps != 0 && abs > (math.MaxInt64-basisPointsHalf)/bps {
		return Money{}, ErrMoneyOverflow
	}

	scaled := (abs*bps + basisPointsHalf) / basisPointsPerUnit
	if m.amount < 0 {
		scaled = -scaled
	}

	return Money{amount: scaled, currency: m.currency, guard: m.guard}, nil
}

// Decimal renders the amount as a decimal string using the currency's minor
// unit exponent, e.g. "9.00" for 900 USD, "1500" for 1500 JPY.
func (m Money) Decimal() string {
	exp := MinorUnitExponent(m.currency)

	sign := ""
	abs := uint64(m.amount) //nolint:gosec // sign handled below
	if m.amount < 0 {
		sign = "-"
		abs = uint64(-(m.amount + 1)) + 1 //nolint:gosec // avoids MinInt64 overflow
	}

	digits := strconv.FormatUint(abs, 10)
	if exp == 0 {
		return sign + digits
	}

	if len(digits) <= exp {
		digits = strings.Repeat("0", exp-len(digits)+1) + digits
	}

	cut := len(digits) - exp
	return sign + digits[:cut] + "." + digits[cut:]
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal(), m.currency)
}

// MinorUnitExponent returns the number of decimal places of currency.
func MinorUnitExponent(currency string) int {
	if exp, ok := minorUnitExponents[currency]; ok {
		return exp
	}
	return defaultMinorUnitExponent
}

func (m Money) sameCurrency(other Money) error {
	if err := errors.Join(m.Validate(), other.Validate()); err != nil {
		return err
	}
	if m.currency != other.currency {
		return NewCurrencyMismatchError(m.currency, other.currency)
	}
	return nil
}

func (m *Money) setCurrency(currency string) error {
	if len(currency) != 3 {
		return errs.NewValueIsInvalidErrorWithCause("currency", fmt.Errorf("%q is not a 3 letter code", currency))
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return errs.NewValueIsInvalidErrorWithCause("currency", fmt.Errorf("%q is not upper-case ISO 4217", currency))
		}
	}

	m.currency = currency
	return nil
}

// CurrencyMismatchError reports amounts in different currencies meeting in
// one calculation. It matches both ErrCurrencyMismatch and
// errs.ErrValueIsInvalid.
type CurrencyMismatchError struct {
	Expected string
	Actual   string
}

func NewCurrencyMismatchError(expected, actual string) *CurrencyMismatchError {
	return &CurrencyMismatchError{Expected: expected, Actual: actual}
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("%s: %s and %s", ErrCurrencyMismatch, e.Expected, e.Actual)
}

func (e *CurrencyMismatchError) Unwrap() []error {
	return []error{ErrCurrencyMismatch, errs.ErrValueIsInvalid}
}
