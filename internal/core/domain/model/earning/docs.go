// Package earning is the driver earnings ledger. One Earning is accrued per
// delivered order; it stays PENDING until an approved payout marks it PAID.
package earning
