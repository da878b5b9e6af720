package jobs

import (
	"context"

	"gatekeeper-bot/internal/logger"
)

// CheckSubscriptions runs the daily expiry sweep. The manual /check_subs
// command invokes the same sweep implementation through the gatekeeper.
func (jr *JobRunner) CheckSubscriptions() {
	jr.runWithRecovery("CheckSubscriptions", func() {
		result := jr.gatekeeper.RunSweepNow(context.Background())
		if !result.Success {
			logger.Error("Scheduled subscription check failed", "run_id", result.RunID, "error", result.Err)
			return
		}
		logger.Info("Scheduled subscription check finished",
			"run_id", result.RunID,
			"before", result.Before,
			"after", result.After,
			"expired", result.ExpiredCount)
	})
}
