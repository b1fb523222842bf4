package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
)

// Money leaves the service as a decimal string; minor units stay internal.
type moneyDTO struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func toMoney(m kernel.Money) moneyDTO {
	return moneyDTO{Amount: m.Decimal(), Currency: m.Currency()}
}

type pointDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func toPoint(p kernel.GeoPoint) pointDTO {
	return pointDTO{Lat: p.Lat(), Lng: p.Lng()}
}

type registerDriverRequest struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	VehicleRef string `json:"vehicle_ref"`
	Verified   bool   `json:"verified"`
}

type availabilityRequest struct {
	Online *bool `json:"online"`
}

type locationRequest struct {
	Lat        *float64   `json:"lat"`
	Lng        *float64   `json:"lng"`
	Bearing    *float64   `json:"bearing"`
	RecordedAt *time.Time `json:"recorded_at"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type deliverRequest struct {
	DeliveryCode string `json:"delivery_code"`
}

type approvePayoutRequest struct {
	Reference string `json:"reference"`
}

type idResponse struct {
	ID string `json:"id"`
}

type availableOrderDTO struct {
	ID          string    `json:"id"`
	Pickup      pointDTO  `json:"pickup"`
	Dropoff     pointDTO  `json:"dropoff"`
	Total       moneyDTO  `json:"total"`
	DeliveryFee moneyDTO  `json:"delivery_fee"`
	DistanceKm  float64   `json:"distance_km"`
	CreatedAt   time.Time `json:"created_at"`
}

type availableOrdersResponse struct {
	Orders     []availableOrderDTO `json:"orders"`
	NextCursor string              `json:"next_cursor,omitempty"`
}

func toAvailableOrders(r queries.GetAvailableOrdersResponse) availableOrdersResponse {
	out := availableOrdersResponse{Orders: make([]availableOrderDTO, 0, len(r.Orders)), NextCursor: r.NextCursor}
	for _, o := range r.Orders {
		out.Orders = append(out.Orders, availableOrderDTO{
			ID:          o.ID.String(),
			Pickup:      toPoint(o.Pickup),
			Dropoff:     toPoint(o.Dropoff),
			Total:       toMoney(o.Total),
			DeliveryFee: toMoney(o.DeliveryFee),
			DistanceKm:  o.DistanceKm,
			CreatedAt:   o.CreatedAt,
		})
	}
	return out
}

type earningsTotalsDTO struct {
	Currency     string `json:"currency"`
	Gross        string `json:"gross"`
	Commission   string `json:"commission"`
	Net          string `json:"net"`
	Pending      string `json:"pending"`
	Requested    string `json:"requested"`
	Paid         string `json:"paid"`
	PendingCount int64  `json:"pending_count"`
	PaidCount    int64  `json:"paid_count"`
}

func toEarningsSummary(r queries.GetEarningsSummaryResponse) []earningsTotalsDTO {
	out := make([]earningsTotalsDTO, 0, len(r.Totals))
	for _, t := range r.Totals {
		out = append(out, earningsTotalsDTO{
			Currency:     t.Currency,
			Gross:        t.Gross.Decimal(),
			Commission:   t.Commission.Decimal(),
			Net:          t.Net.Decimal(),
			Pending:      t.Pending.Decimal(),
			Requested:    t.Requested.Decimal(),
			Paid:         t.Paid.Decimal(),
			PendingCount: t.PendingCount,
			PaidCount:    t.PaidCount,
		})
	}
	return out
}

type earningDTO struct {
	ID         string     `json:"id"`
	OrderID    string     `json:"order_id"`
	Gross      moneyDTO   `json:"gross"`
	Commission moneyDTO   `json:"commission"`
	Net        moneyDTO   `json:"net"`
	Status     string     `json:"status"`
	PayoutID   *string    `json:"payout_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
}

type earningsHistoryResponse struct {
	Earnings   []earningDTO `json:"earnings"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func toEarningsHistory(r queries.GetEarningsHistoryResponse) earningsHistoryResponse {
	out := earningsHistoryResponse{Earnings: make([]earningDTO, 0, len(r.Earnings)), NextCursor: r.NextCursor}
	for _, e := range r.Earnings {
		item := earningDTO{
			ID:         e.ID.String(),
			OrderID:    e.OrderID.String(),
			Gross:      toMoney(e.Gross),
			Commission: toMoney(e.Commission),
			Net:        toMoney(e.Net),
			Status:     e.Status,
			CreatedAt:  e.CreatedAt,
			PaidAt:     e.PaidAt,
		}
		if e.PayoutID != nil {
			id := e.PayoutID.String()
			item.PayoutID = &id
		}
		out.Earnings = append(out.Earnings, item)
	}
	return out
}

type payoutResultDTO struct {
	PayoutID      string   `json:"payout_id"`
	Amount        moneyDTO `json:"amount"`
	EarningsCount int      `json:"earnings_count"`
}

func toPayoutResult(r commands.PayoutResult) payoutResultDTO {
	return payoutResultDTO{PayoutID: r.PayoutID.String(), Amount: toMoney(r.Amount), EarningsCount: r.EarningsCount}
}

type payoutDTO struct {
	ID            string     `json:"id"`
	DriverID      string     `json:"driver_id"`
	Amount        moneyDTO   `json:"amount"`
	Status        string     `json:"status"`
	Reference     string     `json:"reference,omitempty"`
	EarningsCount int64      `json:"earnings_count"`
	CreatedAt     time.Time  `json:"created_at"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

type payoutsResponse struct {
	Payouts    []payoutDTO `json:"payouts"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

func toPayouts(r queries.ListPayoutsResponse) payoutsResponse {
	out := payoutsResponse{Payouts: make([]payoutDTO, 0, len(r.Payouts)), NextCursor: r.NextCursor}
	for _, p := range r.Payouts {
		out.Payouts = append(out.Payouts, payoutDTO{
			ID:            p.ID.String(),
			DriverID:      p.DriverID.String(),
			Amount:        toMoney(p.Amount),
			Status:        p.Status,
			Reference:     p.Reference,
			EarningsCount: p.EarningsCount,
			CreatedAt:     p.CreatedAt,
			PaidAt:        p.PaidAt,
		})
	}
	return out
}

type reconciliationDTO struct {
	Currency     string     `json:"currency"`
	Net          string     `json:"net"`
	Paid         string     `json:"paid"`
	Pending      string     `json:"pending"`
	PaidCount    int64      `json:"paid_count"`
	PendingCount int64      `json:"pending_count"`
	PaidPayouts  string     `json:"paid_payouts"`
	PayoutCount  int64      `json:"payout_count"`
	LastPaidAt   *time.Time `json:"last_paid_at,omitempty"`
	Balanced     bool       `json:"balanced"`
}

type reconciliationResponse struct {
	Balanced   bool                `json:"balanced"`
	Currencies []reconciliationDTO `json:"currencies"`
}

func toReconciliation(r queries.ReconcileResponse) reconciliationResponse {
	out := reconciliationResponse{Balanced: r.Balanced(), Currencies: make([]reconciliationDTO, 0, len(r.Currencies))}
	for _, c := range r.Currencies {
		out.Currencies = append(out.Currencies, reconciliationDTO{
			Currency:     c.Currency,
			Net:          c.Net.Decimal(),
			Paid:         c.Paid.Decimal(),
			Pending:      c.Pending.Decimal(),
			PaidCount:    c.PaidCount,
			PendingCount: c.PendingCount,
			PaidPayouts:  c.PaidPayouts.Decimal(),
			PayoutCount:  c.PayoutCount,
			LastPaidAt:   c.LastPaidAt,
			Balanced:     c.Balanced,
		})
	}
	return out
}
