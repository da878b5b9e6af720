package domain

// SweepResult is the structured outcome of one expiry sweep. The manual
// trigger and the scheduled run both return it.
type SweepResult struct {
	RunID        string `json:"run_id"`
	Success      bool   `json:"success"`
	Before       int    `json:"before"`
	After        int    `json:"after"`
	ExpiredCount int    `json:"expired_count"`
	Message      string `json:"message"`
	Err          error  `json:"-"`
}
