package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/logger"
	"gatekeeper-bot/internal/repository"
)

type sweepService struct {
	members  repository.MemberRepository
	channel  Channel
	notifier AdminNotifier
	email    EmailService // optional, nil when the emailed summary is disabled
}

func NewSweepService(members repository.MemberRepository, channel Channel, notifier AdminNotifier, email EmailService) SweepService {
	return &sweepService{
		members:  members,
		channel:  channel,
		notifier: notifier,
		email:    email,
	}
}

// Run performs one expiry pass. A member whose end date equals today keeps
// the subscription; only end dates strictly before today expire. Failures
// for one member never abort the pass.
func (s *sweepService) Run(ctx context.Context) domain.SweepResult {
	runID := uuid.NewString()
	log := logger.Get().With("run_id", runID)
	log.Info("Subscription check started")

	active, err := s.members.ListByStatus(ctx, domain.MemberStatusActive)
	if err != nil {
		log.Error("Failed to list active members", "error", err)
		return s.fail(ctx, runID, fmt.Errorf("failed to list active members: %w", err))
	}
	before := len(active)
	today, _ := time.Parse(domain.DateLayout, time.Now().Format(domain.DateLayout))

	expiredCount := 0
	for _, m := range active {
		if m.SubscriptionEndDate == nil {
			log.Warn("Active member has no subscription end date", "user_id", m.UserID)
			continue
		}
		endDate, ok := m.EndDate()
		if !ok {
			log.Error("Malformed subscription end date", "user_id", m.UserID, "end_date", *m.SubscriptionEndDate)
			continue
		}
		if !endDate.Before(today) {
			continue
		}

		log.Info("Subscription expired, removing member", "user_id", m.UserID, "end_date", *m.SubscriptionEndDate)
		if err := s.removeFromChannel(ctx, m.UserID); err != nil {
			log.Error("Failed to remove member from channel", "user_id", m.UserID, "error", err)
			continue
		}
		if err := s.members.SetStatus(ctx, m.UserID, domain.MemberStatusExpired); err != nil {
			log.Error("Failed to mark member expired", "user_id", m.UserID, "error", err)
			continue
		}
		expiredCount++
		s.notifyAdmin(ctx, fmt.Sprintf("Member ID: %d %s was removed from the channel, subscription expired.", m.UserID, m.Mention()))
	}

	updated, err := s.members.ListByStatus(ctx, domain.MemberStatusActive)
	if err != nil {
		log.Error("Failed to re-list active members", "error", err)
		res := s.fail(ctx, runID, fmt.Errorf("failed to re-list active members: %w", err))
		res.Before = before
		res.ExpiredCount = expiredCount
		return res
	}
	after := len(updated)

	var message string
	if expiredCount > 0 {
		message = fmt.Sprintf(
			"✅ Subscription check finished!\n\n"+
				"📊 Stats:\n"+
				"• Active before: %d\n"+
				"• Active after: %d\n"+
				"• Expired subscriptions: %d\n\n"+
				"Members with expired subscriptions were removed from the channel.",
			before, after, expiredCount)
	} else {
		message = fmt.Sprintf(
			"✅ Subscription check finished!\n\n"+
				"📊 Stats:\n"+
				"• Active members: %d\n"+
				"• Expired subscriptions: 0\n\n"+
				"All subscriptions are current! 🎉",
			before)
	}

	s.notifyAdmin(ctx, message)
	s.emailSummary(ctx, message)
	log.Info("Subscription check finished", "before", before, "after", after, "expired", expiredCount)

	return domain.SweepResult{
		RunID:        runID,
		Success:      true,
		Before:       before,
		After:        after,
		ExpiredCount: expiredCount,
		Message:      message,
	}
}

func (s *sweepService) fail(ctx context.Context, runID string, err error) domain.SweepResult {
	message := fmt.Sprintf("❌ Subscription check failed:\n%v\n\nSee the logs for details.", err)
	s.notifyAdmin(ctx, message)
	return domain.SweepResult{
		RunID:   runID,
		Success: false,
		Message: message,
		Err:     err,
	}
}

// removeFromChannel is the kick pattern: a ban immediately followed by an
// unban revokes membership without leaving the member banned at the
// platform level.
func (s *sweepService) removeFromChannel(ctx context.Context, userID int64) error {
	if err := s.channel.BanMember(ctx, userID); err != nil {
		return err
	}
	return s.channel.UnbanMember(ctx, userID)
}

func (s *sweepService) notifyAdmin(ctx context.Context, text string) {
	if err := s.notifier.NotifyAdmin(ctx, text); err != nil {
		logger.Error("Failed to notify administrator", "error", err)
	}
}

func (s *sweepService) emailSummary(ctx context.Context, body string) {
	if s.email == nil {
		return
	}
	if err := s.email.SendSweepSummary(ctx, "Daily subscription check", body); err != nil {
		logger.Error("Failed to email sweep summary", "error", err)
	}
}
