package kernel

import (
	"fmt"
	"strconv"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	basisPointsPerUnit    int64 = 10000
	basisPointsHalf       int64 = basisPointsPerUnit / 2
	basisPointsPerPercent int64 = 100
)

// ErrRateIsNotConstructed is returned when a zero Rate is used.
var ErrRateIsNotConstructed = errs.NewValueIsRequiredError("rate must be created via NewRateFromBasisPoints or ParsePercent")

// Rate is a percentage between 0% and 100% held as integer basis points
// (1 bp = 0.01%), so 10% is 1000 and 12.5% is 1250.
type Rate struct {
	bps   int64
	guard guard.ConstructorGuard
}

func NewRateFromBasisPoints(bps int64) (Rate, error) {
	if bps < 0 || bps > basisPointsPerUnit {
		return Rate{}, errs.NewValueIsOutOfRangeError("rate_bps", bps, 0, basisPointsPerUnit)
	}
	return Rate{bps: bps, guard: guard.NewConstructorGuard()}, nil
}

// ParsePercent reads a percentage with at most two decimals ("10", "12.5",
// "7.25"). Finer precision cannot be held exactly and is rejected.
func ParsePercent(s string) (Rate, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return Rate{}, errs.NewValueIsRequiredError("percent")
	}

	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > 2 {
		return Rate{}, errs.NewValueIsInvalidErrorWithCause("percent", fmt.Errorf("%q has more than two decimals", s))
	}
	frac += strings.Repeat("0", 2-len(frac))

	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || !isDigits(frac) {
		return Rate{}, errs.NewValueIsInvalidErrorWithCause("percent", fmt.Errorf("%q is not a decimal number", s))
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w > basisPointsPerUnit/basisPointsPerPercent {
		return Rate{}, errs.NewValueIsOutOfRangeError("percent", s, 0, 100)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return Rate{}, errs.NewValueIsInvalidErrorWithCause("percent", err)
	}

	return NewRateFromBasisPoints(w*basisPointsPerPercent + f)
}

func (r Rate) Validate() error {
	return r.guard.Validate(ErrRateIsNotConstructed)
}

func (r Rate) BasisPoints() int64 {
	return r.bps
}

func (r Rate) String() string {
	return fmt.Sprintf("%d.%02d%%", r.bps/basisPointsPerPercent, r.bps%basisPointsPerPercent)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
