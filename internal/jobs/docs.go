// Package jobs provides the scheduled background tasks of the bot.
//
// Jobs use github.com/robfig/cron/v3 and are managed through JobManager:
//
//	watch := jobs.NewEntitlementWatchJob(sweepHandler, time.Hour, time.Minute, logger)
//	manager := jobs.NewJobManager(logger, watch)
//	if err := manager.StartAll(ctx); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// # Available Jobs
//
// EntitlementWatchJob sweeps expired driver trials: drivers are removed from their
// trial region chats and asked to pay. Runs never overlap.
package jobs
