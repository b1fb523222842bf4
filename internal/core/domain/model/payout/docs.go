// Package payout batches a driver's pending earnings into one transfer.
// A payout is PENDING while it waits for an admin and PAID once the admin
// records the external transfer reference.
package payout
