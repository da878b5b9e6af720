package domain

import "time"

// DateLayout is the calendar format used for subscription end dates.
const DateLayout = "2006-01-02"

// TimestampLayout is the format used for application timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusActive   MemberStatus = "active"
	MemberStatusExpired  MemberStatus = "expired"
	MemberStatusRejected MemberStatus = "rejected"
	MemberStatusBanned   MemberStatus = "banned"
)

// Member is the persisted record for one channel applicant, keyed by the
// platform user id. Records are never deleted; status tracks the lifecycle.
type Member struct {
	UserID              int64        `json:"user_id"`
	Username            string       `json:"username,omitempty"` // lower-cased handle, empty when absent
	FullName            string       `json:"full_name"`
	Status              MemberStatus `json:"status"`
	SubscriptionEndDate *string      `json:"subscription_end_date,omitempty"` // YYYY-MM-DD, set only by a grant
	LastApplicationDate string       `json:"last_application_date"`
}

// Mention renders the member the way admin messages refer to them.
func (m *Member) Mention() string {
	if m.Username != "" {
		return "@" + m.Username
	}
	return m.FullName
}

// EndDate parses the subscription end date. ok is false when the date is
// absent or malformed.
func (m *Member) EndDate() (time.Time, bool) {
	if m.SubscriptionEndDate == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, *m.SubscriptionEndDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
