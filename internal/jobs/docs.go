// Package jobs provides scheduled background tasks for the coordinator.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations the coordinator needs.
//
// # Available Jobs
//
// 1. RebroadcastJob - Periodically republishes new_order events for pending
// orders that have waited longer than a configured age, so orders submitted
// while no picker was connected resurface on the bus.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(rebroadcastJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A publish failure for one order is logged and the scan continues with the
// next entry; the bus consumer's reconnect loop owns broker recovery.
package jobs
