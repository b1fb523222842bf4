// Package queries contains the read side: driver feeds, earnings views and
// the payout ledger for finance.
//
// Handlers read straight from Postgres with raw SQL and return flat read
// models. They never load aggregates and never lock rows.
package queries
