package domain

// JoinEvent is an incoming join request from the chat platform.
type JoinEvent struct {
	ChannelID int64
	UserID    int64
	Username  string
	FullName  string
}

// Decision is the outcome of routing a join event through the approval
// workflow.
type Decision string

const (
	// DecisionDeclined means the request was declined without admin
	// involvement (banned member).
	DecisionDeclined Decision = "declined"
	// DecisionApproved means the request was approved automatically
	// (member already holds a valid subscription).
	DecisionApproved Decision = "approved"
	// DecisionHeld means the request is waiting on an admin.
	DecisionHeld Decision = "held"
)
