// Package jobs provides scheduled background tasks for the fulfillment
// engine, built on github.com/robfig/cron/v3.
//
// # Available Jobs
//
//  1. OutboxRelayJob publishes committed domain events to Kafka and the
//     notification exchange.
//  2. ReconciliationJob checks that paid plus pending earnings equal the
//     ledger total and that paid payouts match paid earnings.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(relayJob, reconciliationJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules are six-field cron expressions with seconds, e.g. "*/2 * * * * *"
// for the relay. An execution still running when the next one is due is
// skipped rather than stacked.
package jobs
