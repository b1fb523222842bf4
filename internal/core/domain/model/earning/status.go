package earning

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

type Status int

const (
	Unknown Status = iota
	Pending
	Paid
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Paid:
		return "PAID"
	default:
		return "UNKNOWN"
	}
}

func (s Status) Validate() error {
	if s != Pending && s != Paid {
		return errs.NewValueIsInvalidErrorWithCause("earning status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func ParseStatus(s string) (Status, error) {
	switch s {
	case "PENDING":
		return Pending, nil
	case "PAID":
		return Paid, nil
	default:
		return Unknown, errs.NewValueIsInvalidErrorWithCause("earning status", fmt.Errorf("%q is not a valid status", s))
	}
}
