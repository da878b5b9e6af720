package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gatekeeper-bot/internal/domain"
)

// MockMemberRepo
type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) UpsertOnRequest(ctx context.Context, userID int64, fullName, username string) (*domain.Member, error) {
	args := m.Called(ctx, userID, fullName, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) GetByID(ctx context.Context, userID int64) (*domain.Member, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) SetStatus(ctx context.Context, userID int64, status domain.MemberStatus) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}
func (m *MockMemberRepo) GrantSubscription(ctx context.Context, userID int64, endDate string) error {
	args := m.Called(ctx, userID, endDate)
	return args.Error(0)
}
func (m *MockMemberRepo) ListByStatus(ctx context.Context, status domain.MemberStatus) ([]domain.Member, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}
func (m *MockMemberRepo) ListExpiringWithin(ctx context.Context, status domain.MemberStatus, days int) ([]domain.Member, error) {
	args := m.Called(ctx, status, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}
func (m *MockMemberRepo) ListAll(ctx context.Context) ([]domain.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}
func (m *MockMemberRepo) FindByIdentifier(ctx context.Context, identifier string) (*domain.Member, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

// MockChannel
type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) ApproveJoinRequest(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockChannel) DeclineJoinRequest(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockChannel) BanMember(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockChannel) UnbanMember(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockChannel) IsMember(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyAdmin(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

// MockEmail
type MockEmail struct {
	mock.Mock
}

func (m *MockEmail) SendSweepSummary(ctx context.Context, subject, body string) error {
	args := m.Called(ctx, subject, body)
	return args.Error(0)
}
