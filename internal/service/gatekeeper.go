package service

import (
	"context"

	"gatekeeper-bot/internal/domain"
)

// Gatekeeper is the single entry point the update dispatcher and the job
// runner call into. It delegates to the approval workflow, the admin lookup
// operations and the expiry sweeper.
type Gatekeeper struct {
	approval ApprovalService
	admin    AdminService
	sweep    SweepService
}

func NewGatekeeper(approval ApprovalService, admin AdminService, sweep SweepService) *Gatekeeper {
	return &Gatekeeper{
		approval: approval,
		admin:    admin,
		sweep:    sweep,
	}
}

func (g *Gatekeeper) OnJoinRequest(ctx context.Context, ev domain.JoinEvent) (domain.Decision, *domain.Member, error) {
	return g.approval.HandleJoinRequest(ctx, ev)
}

func (g *Gatekeeper) Grant(ctx context.Context, userID int64, days int) (*domain.Member, string, error) {
	return g.approval.Grant(ctx, userID, days)
}

func (g *Gatekeeper) Decline(ctx context.Context, userID int64) (*domain.Member, error) {
	return g.approval.Decline(ctx, userID)
}

// Ban resolves the identifier and bans the member. Accepts a numeric id or
// an @handle.
func (g *Gatekeeper) Ban(ctx context.Context, identifier string) (*domain.Member, error) {
	member, err := g.admin.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return g.approval.Ban(ctx, member.UserID)
}

// Unban resolves the identifier and resets a banned member to rejected.
func (g *Gatekeeper) Unban(ctx context.Context, identifier string) (*domain.Member, error) {
	member, err := g.admin.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return g.approval.Unban(ctx, member.UserID)
}

// Extend resolves the target of a direct subscription extension. The grant
// itself happens through Grant once the admin picks a length.
func (g *Gatekeeper) Extend(ctx context.Context, identifier string) (*domain.Member, error) {
	return g.admin.FindByIdentifier(ctx, identifier)
}

func (g *Gatekeeper) Find(ctx context.Context, identifier string) (*domain.Member, error) {
	return g.admin.FindByIdentifier(ctx, identifier)
}

func (g *Gatekeeper) ListActive(ctx context.Context) ([]domain.Member, error) {
	return g.admin.ListActive(ctx)
}

func (g *Gatekeeper) ListExpiringSoon(ctx context.Context, days int) ([]domain.Member, error) {
	return g.admin.ListExpiringSoon(ctx, days)
}

func (g *Gatekeeper) ListAll(ctx context.Context) ([]domain.Member, error) {
	return g.admin.ListAll(ctx)
}

func (g *Gatekeeper) RunSweepNow(ctx context.Context) domain.SweepResult {
	return g.sweep.Run(ctx)
}
