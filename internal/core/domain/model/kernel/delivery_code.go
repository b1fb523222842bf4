package kernel

import (
	"errors"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"golang.org/x/crypto/bcrypt"
)

const (
	deliveryCodeMinLength = 4
	deliveryCodeMaxLength = 12
)

// ErrDeliveryCodeIsNotConstructed is returned when a zero DeliveryCode is used.
var ErrDeliveryCodeIsNotConstructed = errs.NewValueIsRequiredError(
	"delivery code must be created via NewDeliveryCode or RestoreDeliveryCode")

// DeliveryCode is the one-time code the customer hands to the driver at the
// door. Only its bcrypt hash is kept, so a database dump does not reveal
// codes for orders still in flight.
type DeliveryCode struct {
	hash  string
	guard guard.ConstructorGuard
}

// NewDeliveryCode hashes the plain code generated by checkout.
func NewDeliveryCode(plain string) (DeliveryCode, error) {
	plain = strings.TrimSpace(plain)
	if plain == "" {
		return DeliveryCode{}, errs.NewValueIsRequiredError("delivery code")
	}
	if len(plain) < deliveryCodeMinLength || len(plain) > deliveryCodeMaxLength {
		return DeliveryCode{}, errs.NewValueIsOutOfRangeError(
			"delivery code length", len(plain), deliveryCodeMinLength, deliveryCodeMaxLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return DeliveryCode{}, errs.NewValueIsInvalidErrorWithCause("delivery code", err)
	}

	return DeliveryCode{hash: string(hash), guard: guard.NewConstructorGuard()}, nil
}

// RestoreDeliveryCode wraps a hash read back from storage.
func RestoreDeliveryCode(hash string) (DeliveryCode, error) {
	if hash == "" {
		return DeliveryCode{}, errs.NewValueIsRequiredError("delivery code hash")
	}
	return DeliveryCode{hash: hash, guard: guard.NewConstructorGuard()}, nil
}

func (c DeliveryCode) Validate() error {
	return c.guard.Validate(ErrDeliveryCodeIsNotConstructed)
}

func (c DeliveryCode) Hash() string {
	return c.hash
}

// Matches compares attempt against the stored hash in constant time.
func (c DeliveryCode) Matches(attempt string) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}

	err := bcrypt.CompareHashAndPassword([]byte(c.hash), []byte(strings.TrimSpace(attempt)))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, errs.NewValueIsInvalidErrorWithCause("delivery code hash", err)
	}
}
