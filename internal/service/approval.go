package service

import (
	"context"
	"fmt"
	"time"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/logger"
	"gatekeeper-bot/internal/repository"
)

type approvalService struct {
	members repository.MemberRepository
	channel Channel
}

func NewApprovalService(members repository.MemberRepository, channel Channel) ApprovalService {
	return &approvalService{
		members: members,
		channel: channel,
	}
}

func (s *approvalService) HandleJoinRequest(ctx context.Context, ev domain.JoinEvent) (domain.Decision, *domain.Member, error) {
	member, err := s.members.UpsertOnRequest(ctx, ev.UserID, ev.FullName, ev.Username)
	if err != nil {
		return "", nil, fmt.Errorf("failed to record join request: %w", err)
	}

	switch member.Status {
	case domain.MemberStatusBanned:
		if err := s.channel.DeclineJoinRequest(ctx, ev.UserID); err != nil {
			logger.Warn("Failed to decline join request from banned member", "user_id", ev.UserID, "error", err)
		}
		logger.Info("Join request from banned member declined", "user_id", ev.UserID)
		return domain.DecisionDeclined, member, nil
	case domain.MemberStatusActive:
		if err := s.channel.ApproveJoinRequest(ctx, ev.UserID); err != nil {
			// The member record stays active, so the next request from the
			// same identity retries the approval.
			logger.Warn("Failed to approve join request from active member", "user_id", ev.UserID, "error", err)
		}
		logger.Info("Join request from active member approved automatically", "user_id", ev.UserID)
		return domain.DecisionApproved, member, nil
	}

	logger.Info("Join request held for admin decision", "user_id", ev.UserID, "status", member.Status)
	return domain.DecisionHeld, member, nil
}

func (s *approvalService) Grant(ctx context.Context, userID int64, days int) (*domain.Member, string, error) {
	member, err := s.members.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	isMember, err := s.channel.IsMember(ctx, userID)
	if err != nil {
		logger.Warn("Failed to query channel membership, assuming not a member", "user_id", userID, "error", err)
		isMember = false
	}
	if isMember {
		logger.Info("Member already in the channel, skipping approval call", "user_id", userID)
	} else if err := s.channel.ApproveJoinRequest(ctx, userID); err != nil {
		// Approval is retried implicitly: once the record is active, the
		// next join request from this identity auto-approves.
		logger.Warn("Failed to approve join request during grant", "user_id", userID, "error", err)
	}

	endDate := time.Now().AddDate(0, 0, days).Format(domain.DateLayout)
	if err := s.members.GrantSubscription(ctx, userID, endDate); err != nil {
		return nil, "", fmt.Errorf("failed to grant subscription: %w", err)
	}
	logger.Info("Subscription granted", "user_id", userID, "days", days, "end_date", endDate)

	member.Status = domain.MemberStatusActive
	member.SubscriptionEndDate = &endDate
	return member, endDate, nil
}

func (s *approvalService) Decline(ctx context.Context, userID int64) (*domain.Member, error) {
	member, err := s.members.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.members.SetStatus(ctx, userID, domain.MemberStatusRejected); err != nil {
		return nil, err
	}
	logger.Info("Join request declined by admin", "user_id", userID)
	member.Status = domain.MemberStatusRejected
	return member, nil
}

func (s *approvalService) Ban(ctx context.Context, userID int64) (*domain.Member, error) {
	member, err := s.members.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.members.SetStatus(ctx, userID, domain.MemberStatusBanned); err != nil {
		return nil, err
	}
	if err := s.removeFromChannel(ctx, userID); err != nil {
		logger.Warn("Failed to remove banned member from channel", "user_id", userID, "error", err)
	}
	logger.Info("Member banned", "user_id", userID)
	member.Status = domain.MemberStatusBanned
	return member, nil
}

func (s *approvalService) Unban(ctx context.Context, userID int64) (*domain.Member, error) {
	member, err := s.members.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if member.Status != domain.MemberStatusBanned {
		return member, ErrNotBanned
	}
	// A fresh grant is required to reactivate; unban only reopens the door
	// for a new application.
	if err := s.members.SetStatus(ctx, userID, domain.MemberStatusRejected); err != nil {
		return nil, err
	}
	logger.Info("Member unbanned, may re-apply", "user_id", userID)
	member.Status = domain.MemberStatusRejected
	return member, nil
}

// removeFromChannel kicks without leaving a platform-level ban in place: the
// immediate unban clears the ban flag so only the membership is revoked.
func (s *approvalService) removeFromChannel(ctx context.Context, userID int64) error {
	if err := s.channel.BanMember(ctx, userID); err != nil {
		return err
	}
	return s.channel.UnbanMember(ctx, userID)
}
