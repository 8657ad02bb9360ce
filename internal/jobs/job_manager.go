package jobs

import (
	"fmt"
)

// JobManager coordinates the scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	rebroadcastJob *RebroadcastJob
}

// NewJobManager creates a job manager over the supplied jobs.
func NewJobManager(rebroadcastJob *RebroadcastJob) *JobManager {
	return &JobManager{
		rebroadcastJob: rebroadcastJob,
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.rebroadcastJob.Start(); err != nil {
		return fmt.Errorf("failed to start rebroadcast job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.rebroadcastJob.Stop()
}
