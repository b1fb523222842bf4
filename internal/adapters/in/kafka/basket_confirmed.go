package kafka

import (
	"encoding/json"
	"errors"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
)

// BasketConfirmedEvent is what checkout publishes once a basket is paid for.
// Amounts are minor units of Currency.
type BasketConfirmedEvent struct {
	BasketID     string       `json:"basket_id"`
	Currency     string       `json:"currency"`
	TotalAmount  int64        `json:"total_amount"`
	DeliveryFee  int64        `json:"delivery_fee"`
	DeliveryCode string       `json:"delivery_code"`
	Pickup       pointPayload `json:"pickup"`
	Dropoff      pointPayload `json:"dropoff"`
}

type pointPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// toCommand maps the event onto RegisterOrderCommand. The basket id becomes
// the order id, which makes redelivery idempotent.
func (e BasketConfirmedEvent) toCommand() (commands.RegisterOrderCommand, error) {
	orderID, err1 := kernel.UUIDFromString(e.BasketID)
	pickup, err2 := kernel.NewGeoPoint(e.Pickup.Lat, e.Pickup.Lng)
	dropoff, err3 := kernel.NewGeoPoint(e.Dropoff.Lat, e.Dropoff.Lng)
	total, err4 := kernel.NewMoney(e.TotalAmount, e.Currency)
	fee, err5 := kernel.NewMoney(e.DeliveryFee, e.Currency)
	if err := errors.Join(err1, err2, err3, err4, err5); err != nil {
		return commands.RegisterOrderCommand{}, err
	}

	return commands.NewRegisterOrderCommand(orderID, pickup, dropoff, total, fee, e.DeliveryCode)
}

func decodeBasketConfirmed(value []byte) (commands.RegisterOrderCommand, error) {
	var e BasketConfirmedEvent
	if err := json.Unmarshal(value, &e); err != nil {
		return commands.RegisterOrderCommand{}, err
	}
	return e.toCommand()
}
