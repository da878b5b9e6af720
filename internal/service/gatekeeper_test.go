package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/repository"
)

func newTestGatekeeper(repo *MockMemberRepo, channel *MockChannel, notifier *MockNotifier) *Gatekeeper {
	return NewGatekeeper(
		NewApprovalService(repo, channel),
		NewAdminService(repo),
		NewSweepService(repo, channel, notifier, nil),
	)
}

func TestGatekeeper_BanByHandle(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMemberRepo)
	channel := new(MockChannel)
	gk := newTestGatekeeper(repo, channel, new(MockNotifier))

	target := pendingMember(42)
	repo.On("FindByIdentifier", ctx, "@someone").Return(target, nil)
	repo.On("GetByID", ctx, int64(42)).Return(target, nil)
	repo.On("SetStatus", ctx, int64(42), domain.MemberStatusBanned).Return(nil)
	channel.On("BanMember", ctx, int64(42)).Return(nil)
	channel.On("UnbanMember", ctx, int64(42)).Return(nil)

	member, err := gk.Ban(ctx, "@someone")
	assert.NoError(t, err)
	assert.Equal(t, domain.MemberStatusBanned, member.Status)
}

func TestGatekeeper_UnbanUnknownIdentifier(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMemberRepo)
	gk := newTestGatekeeper(repo, new(MockChannel), new(MockNotifier))

	repo.On("FindByIdentifier", ctx, "@nobody").Return(nil, repository.ErrNotFound)

	_, err := gk.Unban(ctx, "@nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGatekeeper_ExtendResolvesOnly(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMemberRepo)
	gk := newTestGatekeeper(repo, new(MockChannel), new(MockNotifier))

	target := pendingMember(42)
	repo.On("FindByIdentifier", ctx, "42").Return(target, nil)

	member, err := gk.Extend(ctx, "42")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), member.UserID)
	// Extend only resolves; the subscription changes when Grant runs.
	repo.AssertNotCalled(t, "GrantSubscription", ctx, int64(42), "")
}

func TestGatekeeper_ListExpiringSoon(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMemberRepo)
	gk := newTestGatekeeper(repo, new(MockChannel), new(MockNotifier))

	repo.On("ListExpiringWithin", ctx, domain.MemberStatusActive, 10).Return([]domain.Member{*pendingMember(1)}, nil)

	members, err := gk.ListExpiringSoon(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, members, 1)
}
