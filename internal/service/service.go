package service

import (
	"context"
	"errors"

	"gatekeeper-bot/internal/domain"
)

// ErrNotBanned is returned by Unban when the member is not currently banned.
var ErrNotBanned = errors.New("member is not banned")

// Channel covers the chat-platform membership actions the workflow needs.
// All calls are bounded by the client's request timeout.
type Channel interface {
	ApproveJoinRequest(ctx context.Context, userID int64) error
	DeclineJoinRequest(ctx context.Context, userID int64) error
	BanMember(ctx context.Context, userID int64) error
	UnbanMember(ctx context.Context, userID int64) error
	IsMember(ctx context.Context, userID int64) (bool, error)
}

// AdminNotifier delivers plain notifications to the administrator.
type AdminNotifier interface {
	NotifyAdmin(ctx context.Context, text string) error
}

// EmailService mails a copy of operational summaries to the operator.
type EmailService interface {
	SendSweepSummary(ctx context.Context, subject, body string) error
}

// ApprovalService implements the subscription approval state machine.
type ApprovalService interface {
	// HandleJoinRequest routes an incoming join event: banned members are
	// declined, members with a valid subscription are approved, everyone
	// else is held for an admin decision. The returned member reflects the
	// record after the upsert.
	HandleJoinRequest(ctx context.Context, ev domain.JoinEvent) (domain.Decision, *domain.Member, error)
	// Grant admits the member for the given number of days starting today.
	// The platform approval is issued only when the member is not already
	// in the channel.
	Grant(ctx context.Context, userID int64, days int) (*domain.Member, string, error)
	// Decline marks the member rejected. The platform-level join request is
	// left untouched.
	Decline(ctx context.Context, userID int64) (*domain.Member, error)
	// Ban marks the member banned and best-effort removes them from the
	// channel. Idempotent.
	Ban(ctx context.Context, userID int64) (*domain.Member, error)
	// Unban resets a banned member to rejected so they may re-apply; a
	// fresh grant is required to reactivate. Returns ErrNotBanned when the
	// member is not banned.
	Unban(ctx context.Context, userID int64) (*domain.Member, error)
}

// AdminService resolves identifiers and serves the admin list views.
type AdminService interface {
	FindByIdentifier(ctx context.Context, identifier string) (*domain.Member, error)
	ListActive(ctx context.Context) ([]domain.Member, error)
	ListExpiringSoon(ctx context.Context, days int) ([]domain.Member, error)
	ListAll(ctx context.Context) ([]domain.Member, error)
}

// SweepService evicts members whose subscription ended before today.
type SweepService interface {
	Run(ctx context.Context) domain.SweepResult
}
