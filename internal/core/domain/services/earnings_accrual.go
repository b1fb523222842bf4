package services

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/earning"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// EarningsAccrual turns a delivered order into the driver's earning.
// The order's delivery fee is the gross; the commission is rounded half-up
// exactly once and the net is whatever remains.
type EarningsAccrual struct{}

func NewEarningsAccrual() EarningsAccrual {
	return EarningsAccrual{}
}

func (EarningsAccrual) Accrue(o *order.Order, rate kernel.Rate, now time.Time) (*earning.Earning, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Status() != order.Delivered {
		return nil, errs.NewInvalidTransitionError("accrue earning", o.Status().String())
	}
	if o.Driver() == nil {
		return nil, errs.NewValueIsRequiredError("driver of delivered order")
	}

	gross := o.DeliveryFee()
	commission, err := gross.ApplyRate(rate)
	if err != nil {
		return nil, fmt.Errorf("commission for order %s: %w", o.ID(), err)
	}

	return earning.NewEarning(kernel.NewUUID(), *o.Driver(), o.ID(), gross, commission, now)
}
