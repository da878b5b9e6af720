package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/repository"
)

func pendingMember(userID int64) *domain.Member {
	return &domain.Member{
		UserID:   userID,
		Username: "someone",
		FullName: "Some One",
		Status:   domain.MemberStatusPending,
	}
}

func TestApprovalService_HandleJoinRequest(t *testing.T) {
	ctx := context.Background()
	ev := domain.JoinEvent{ChannelID: -100, UserID: 42, Username: "someone", FullName: "Some One"}

	t.Run("NewApplicantHeld", func(t *testing.T) {
		repo := new(MockMemberRepo)
		channel := new(MockChannel)
		svc := NewApprovalService(repo, channel)

		repo.On("UpsertOnRequest", ctx, int64(42), "Some One", "someone").Return(pendingMember(42), nil)

		decision, member, err := svc.HandleJoinRequest(ctx, ev)
		assert.NoError(t, err)
		assert.Equal(t, domain.DecisionHeld, decision)
		assert.Equal(t, domain.MemberStatusPending, member.Status)
		channel.AssertNotCalled(t, "ApproveJoinRequest", mock.Anything, mock.Anything)
		channel.AssertNotCalled(t, "DeclineJoinRequest", mock.Anything, mock.Anything)
	})

	t.Run("BannedApplicantDeclined", func(t *testing.T) {
		repo := new(MockMemberRepo)
		channel := new(MockChannel)
		svc := NewApprovalService(repo, channel)

		banned := pendingMember(42)
		banned.Status = domain.MemberStatusBanned
		repo.On("UpsertOnRequest", ctx, int64(42), "Some One", "someone").Return(banned, nil)
		channel.On("DeclineJoinRequest", ctx, int64(42)).Return(nil)

		decision, _, err := svc.HandleJoinRequest(ctx, ev)
		assert.NoError(t, err)
		assert.Equal(t, domain.DecisionDeclined, decision)
		channel.AssertExpectations(t)
		// The ban decision stands even without a status write.
		repo.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BannedApplicantDeclinedDespitePlatformError", func(t *testing.T) {
		repo := new(MockMemberRepo)
		channel := new(MockChannel)
		svc := NewApprovalService(repo, channel)

		banned := pendingMember(42)
		banned.Status = domain.MemberStatusBanned
		repo.On("UpsertOnRequest", ctx, int64(42), "Some One", "someone").Return(banned, nil)
		channel.On("DeclineJoinRequest", ctx, int64(42)).Return(errors.New("network down"))

		decision, _, err := svc.HandleJoinRequest(ctx, ev)
		assert.NoError(t, err)
		assert.Equal(t, domain.DecisionDeclined, decision)
	})

	t.Run("ActiveApplicantApproved", func(t *testing.T) {
		repo := new(MockMemberRepo)
		channel := new(MockChannel)
		svc := NewApprovalService(repo, channel)

		endDate := time.Now().AddDate(0, 0, 10).Format(domain.DateLayout)
		active := pendingMember(42)
		active.Status = domain.MemberStatusActive
		active.SubscriptionEndDate = &endDate
		repo.On("UpsertOnRequest", ctx, int64(42), "Some One", "someone").Return(active, nil)
		channel.On("ApproveJoinRequest", ctx, int64(42)).Return(nil)

		decision, _, err := svc.HandleJoinRequest(ctx, ev)
		assert.NoError(t, err)
		assert.Equal(t, domain.DecisionApproved, decision)
		channel.AssertExpectations(t)
	})

	t.Run("UpsertFailure", func(t *testing.T) {
		repo := new(MockMemberRepo)
		channel := new(MockChannel)
		svc := NewApprovalService(repo, channel)

		repo.On("UpsertOnRequest", ctx, int64(42), "Some One", "someone").Return(nil, assert.AnError)

		_, _, err := svc.HandleJoinRequest(ctx, ev)
		assert.Error(t, err)
	})
}

func TestApprovalService_Grant(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockMemberRepo)
		channel := new(MockChannel)
		svc := NewApprovalService(repo, channel)

		repo.On("GetByID", ctx, int64(42)).Return(pendingMember(42), nil)
		channel.On("IsMember", ctx, int64(42)).Return(false, nil)
		channel.On("ApproveJoinRequest", ctx, int64(42)).Return(nil)
		wantEnd := time.Now().AddDate(0, 0, 30).Format(domain.DateLayout)
		repo.On("GrantSubscription", ctx, int64(42), wantEnd).Return(nil)

		member, endDate, err := svc.Grant(ctx, 42, 30)
		assert.NoError(t, err)
		assert.Equal(t, wantEnd, endDate)
		assert.Equal(t, domain.MemberStatusActive, member.Status)
		assert.Equal(t, wantEnd, *member.SubscriptionEndDate)
		channel.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("SkipsApprovalWhenAlreadyMember", func(t *testing.T) {
		repo := new(MockMemberRepo)
		channel := new(MockChannel)
		svc := NewApprovalService(repo, channel)

		repo.On("GetByID", ctx, int64(42)).Return(pendingMember(42), nil)
		channel.On("IsMember", ctx, int64(42)).Return(true, nil)
		repo.On("GrantSubscription", ctx, int64(42), mock.Anything).Return(nil)

		_, _, err := svc.Grant(ctx, 42, 7)
		assert.NoError(t, err)
		channel.AssertNotCalled(t, "ApproveJoinRequest", mock.Anything, mock.Anything)
	})

	t.Run("MembershipProbeFailureFallsBackToApproval", func(t *testing.T) {
		repo := new(MockMemberRepo)
		channel := new(MockChannel)
		svc := NewApprovalService(repo, channel)

		repo.On("GetByID", ctx, int64(42)).Return(pendingMember(42), nil)
		channel.On("IsMember", ctx, int64(42)).Return(false, assert.AnError)
		channel.On("ApproveJoinRequest", ctx, int64(42)).Return(nil)
		repo.On("GrantSubscription", ctx, int64(42), mock.Anything).Return(nil)

		_, _, err := svc.Grant(ctx, 42, 7)
		assert.NoError(t, err)
		channel.AssertExpectations(t)
	})

	t.Run("UnknownMember", func(t *testing.T) {
		repo := new(MockMemberRepo)
		channel := new(MockChannel)
		svc := NewApprovalService(repo, channel)

		repo.On("GetByID", ctx, int64(99)).Return(nil, repository.ErrNotFound)

		_, _, err := svc.Grant(ctx, 99, 30)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestApprovalService_Decline(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMemberRepo)
	channel := new(MockChannel)
	svc := NewApprovalService(repo, channel)

	repo.On("GetByID", ctx, int64(42)).Return(pendingMember(42), nil)
	repo.On("SetStatus", ctx, int64(42), domain.MemberStatusRejected).Return(nil)

	member, err := svc.Decline(ctx, 42)
	assert.NoError(t, err)
	assert.Equal(t, domain.MemberStatusRejected, member.Status)
	// Decline is advisory: the pending join request stays untouched.
	channel.AssertNotCalled(t, "DeclineJoinRequest", mock.Anything, mock.Anything)
}

func TestApprovalService_Ban(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockMemberRepo)
		channel := new(MockChannel)
		svc := NewApprovalService(repo, channel)

		repo.On("GetByID", ctx, int64(42)).Return(pendingMember(42), nil)
		repo.On("SetStatus", ctx, int64(42), domain.MemberStatusBanned).Return(nil)
		channel.On("BanMember", ctx, int64(42)).Return(nil)
		channel.On("UnbanMember", ctx, int64(42)).Return(nil)

		member, err := svc.Ban(ctx, 42)
		assert.NoError(t, err)
		assert.Equal(t, domain.MemberStatusBanned, member.Status)
		channel.AssertExpectations(t)
	})

	t.Run("ChannelFailureStillBans", func(t *testing.T) {
		repo := new(MockMemberRepo)
		channel := new(MockChannel)
		svc := NewApprovalService(repo, channel)

		repo.On("GetByID", ctx, int64(42)).Return(pendingMember(42), nil)
		repo.On("SetStatus", ctx, int64(42), domain.MemberStatusBanned).Return(nil)
		channel.On("BanMember", ctx, int64(42)).Return(errors.New("kicked out of api"))

		member, err := svc.Ban(ctx, 42)
		assert.NoError(t, err)
		assert.Equal(t, domain.MemberStatusBanned, member.Status)
		channel.AssertNotCalled(t, "UnbanMember", mock.Anything, mock.Anything)
	})

	t.Run("StatusWriteFailureAborts", func(t *testing.T) {
		repo := new(MockMemberRepo)
		channel := new(MockChannel)
		svc := NewApprovalService(repo, channel)

		repo.On("GetByID", ctx, int64(42)).Return(pendingMember(42), nil)
		repo.On("SetStatus", ctx, int64(42), domain.MemberStatusBanned).Return(assert.AnError)

		_, err := svc.Ban(ctx, 42)
		assert.Error(t, err)
		channel.AssertNotCalled(t, "BanMember", mock.Anything, mock.Anything)
	})
}

func TestApprovalService_Unban(t *testing.T) {
	ctx := context.Background()

	t.Run("BannedBecomesRejected", func(t *testing.T) {
		repo := new(MockMemberRepo)
		channel := new(MockChannel)
		svc := NewApprovalService(repo, channel)

		banned := pendingMember(42)
		banned.Status = domain.MemberStatusBanned
		repo.On("GetByID", ctx, int64(42)).Return(banned, nil)
		repo.On("SetStatus", ctx, int64(42), domain.MemberStatusRejected).Return(nil)

		member, err := svc.Unban(ctx, 42)
		assert.NoError(t, err)
		assert.Equal(t, domain.MemberStatusRejected, member.Status)
		// No subscription is restored and no channel call is made.
		channel.AssertNotCalled(t, "UnbanMember", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "GrantSubscription", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NotBanned", func(t *testing.T) {
		repo := new(MockMemberRepo)
		channel := new(MockChannel)
		svc := NewApprovalService(repo, channel)

		repo.On("GetByID", ctx, int64(42)).Return(pendingMember(42), nil)

		member, err := svc.Unban(ctx, 42)
		assert.ErrorIs(t, err, ErrNotBanned)
		assert.NotNil(t, member)
		repo.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}
