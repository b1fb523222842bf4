package jobs

import (
	"fmt"
)

// JobManager starts and stops the background jobs together.
type JobManager struct {
	outboxRelayJob    *OutboxRelayJob
	reconciliationJob *ReconciliationJob
}

func NewJobManager(outboxRelayJob *OutboxRelayJob, reconciliationJob *ReconciliationJob) *JobManager {
	return &JobManager{
		outboxRelayJob:    outboxRelayJob,
		reconciliationJob: reconciliationJob,
	}
}

// StartAll starts every job. If one fails to start, the ones already
// running are stopped again.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxRelayJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	if err := jm.reconciliationJob.Start(); err != nil {
		jm.outboxRelayJob.Stop()
		return fmt.Errorf("failed to start reconciliation job: %w", err)
	}

	return nil
}

// StopAll waits for running executions to finish.
func (jm *JobManager) StopAll() {
	jm.reconciliationJob.Stop()
	jm.outboxRelayJob.Stop()
}
